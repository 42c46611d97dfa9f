package models

import "time"

// RawListing holds one listings row as loaded from the dataset, before any
// type conversion. Nil fields were empty or NA in the file; ID is "" when missing.
type RawListing struct {
	ID           string
	HostLocation *string
	RoomType     *string
	RawPrice     *string
}

// Listing is the cleaned listing record used by the join and aggregators.
type Listing struct {
	ID           string
	HostLocation *string
	RoomType     *string
	Price        *float64
}

// RawReview holds one reviews row as loaded from the dataset.
type RawReview struct {
	ID         *string
	ListingID  string
	ReviewerID *string
	RawDate    *string
	Comment    *string
}

// Review is a review whose date parsed and passed the cutoff.
type Review struct {
	ID         *string
	ListingID  string
	ReviewerID *string
	Date       time.Time
	Comment    *string
}

// ScoredReview is a Review with its sentiment polarity. Sentiment is nil
// when the comment was missing.
type ScoredReview struct {
	*Review
	Sentiment *float64
}

// JoinedRecord is one reviewed stay: a review matched to its listing.
type JoinedRecord struct {
	Review  *Review
	Listing *Listing
}

// Year is the calendar year of the review date.
func (j *JoinedRecord) Year() int {
	return j.Review.Date.Year()
}
