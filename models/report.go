package models

import "time"

// LocationYearPrice is one (year, host_location) row of listing counts and prices.
type LocationYearPrice struct {
	Year         int      `json:"year"`
	HostLocation string   `json:"host_location"`
	NumListings  int      `json:"num_listings"`
	AvgPrice     *float64 `json:"avg_price"`
}

// LocationYearReviews is one (year, host_location) row of reviewer counts.
type LocationYearReviews struct {
	Year         int    `json:"year"`
	HostLocation string `json:"host_location"`
	NumReviews   int    `json:"num_reviews"`
}

// LocationYearSentiment is one (year, host_location) row of mean polarity.
type LocationYearSentiment struct {
	Year         int      `json:"year"`
	HostLocation string   `json:"host_location"`
	AvgSentiment *float64 `json:"avg_sentiment"`
}

// RoomTypeYearListings is one (year, room_type) row of listing counts.
type RoomTypeYearListings struct {
	Year        int     `json:"year"`
	RoomType    *string `json:"room_type"`
	NumListings int     `json:"num_listings"`
}

// Report holds every aggregate computed at startup. It is read-only once built.
type Report struct {
	SampledLocations []*string
	ListingsPrice    []LocationYearPrice
	Reviews          []LocationYearReviews
	Sentiment        []LocationYearSentiment
	RoomTypes        []RoomTypeYearListings
	GeneratedAt      time.Time
}
