package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"rental-analytics/models"
)

// Column names the loader depends on.
const (
	ColListingID    = "listing_id"
	ColHostLocation = "host_location"
	ColRoomType     = "room_type"
	ColPrice        = "price"
	ColReviewID     = "review_id"
	ColID           = "id"
	ColReviewerID   = "reviewer_id"
	ColDate         = "date"
	ColComment      = "comment"
)

var (
	listingColumns = []string{ColListingID, ColHostLocation, ColRoomType, ColPrice}
	reviewColumns  = []string{ColListingID, ColDate, ColReviewerID, ColComment}

	// Only empty cells are null; literal "NA" or "null" text is kept.
	nanValues = []string{""}

	ErrMissingColumn = errors.New("missing required column")
)

// Dataset holds the listings and reviews tables. Both are read-only once
// LoadDataset returns.
type Dataset struct {
	Listings dataframe.DataFrame
	Reviews  dataframe.DataFrame
}

// LoadDataset reads both delimited files. Either file being missing,
// malformed or lacking a required column is an error.
func LoadDataset(listingsPath, reviewsPath string, delimiter rune) (*Dataset, error) {
	listings, err := LoadTable(listingsPath, delimiter, listingColumns)
	if err != nil {
		return nil, fmt.Errorf("dataset: listings: %w", err)
	}
	reviews, err := LoadTable(reviewsPath, delimiter, reviewColumns)
	if err != nil {
		return nil, fmt.Errorf("dataset: reviews: %w", err)
	}
	return &Dataset{Listings: listings, Reviews: reviews}, nil
}

// LoadTable reads a headed delimited file, letting the header drive the
// column names and the cell contents drive the column types.
func LoadTable(path string, delimiter rune, required []string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithDelimiter(delimiter),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		header, ok := headerOnly(path, delimiter)
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("parse %q: %w", path, df.Err)
		}
		df = emptyTable(header)
	}

	names := make(map[string]struct{}, df.Ncol())
	for _, n := range df.Names() {
		names[n] = struct{}{}
	}
	for _, col := range required {
		if _, ok := names[col]; !ok {
			return dataframe.DataFrame{}, fmt.Errorf("%q: %w %q", path, ErrMissingColumn, col)
		}
	}
	return df, nil
}

// headerOnly reports whether the file holds a header and no data rows, and
// returns that header.
func headerOnly(path string, delimiter rune) ([]string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	header, err := r.Read()
	if err != nil || len(header) == 0 {
		return nil, false
	}
	if _, err := r.Read(); err != io.EOF {
		return nil, false
	}
	return header, true
}

// emptyTable builds a zero-row table with one string column per name.
func emptyTable(names []string) dataframe.DataFrame {
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

// RawListings converts the listings table into raw records, one per row.
func (d *Dataset) RawListings() []*models.RawListing {
	ids := d.Listings.Col(ColListingID)
	locs := d.Listings.Col(ColHostLocation)
	rooms := d.Listings.Col(ColRoomType)
	prices := d.Listings.Col(ColPrice)

	out := make([]*models.RawListing, 0, d.Listings.Nrow())
	for i := 0; i < d.Listings.Nrow(); i++ {
		out = append(out, &models.RawListing{
			ID:           key(ids, i),
			HostLocation: Cell(locs, i),
			RoomType:     Cell(rooms, i),
			RawPrice:     Cell(prices, i),
		})
	}
	return out
}

// RawReviews converts the reviews table into raw records, one per row.
func (d *Dataset) RawReviews() []*models.RawReview {
	listingIDs := d.Reviews.Col(ColListingID)
	reviewers := d.Reviews.Col(ColReviewerID)
	dates := d.Reviews.Col(ColDate)
	comments := d.Reviews.Col(ColComment)

	var reviewIDs *series.Series
	for _, name := range d.Reviews.Names() {
		if name == ColReviewID || name == ColID {
			s := d.Reviews.Col(name)
			reviewIDs = &s
			break
		}
	}

	out := make([]*models.RawReview, 0, d.Reviews.Nrow())
	for i := 0; i < d.Reviews.Nrow(); i++ {
		r := &models.RawReview{
			ListingID:  key(listingIDs, i),
			ReviewerID: Cell(reviewers, i),
			RawDate:    Cell(dates, i),
			Comment:    Cell(comments, i),
		}
		if reviewIDs != nil {
			r.ID = Cell(*reviewIDs, i)
		}
		out = append(out, r)
	}
	return out
}

// Cell returns the i-th value of s as text, or nil when it is null. Float
// cells are printed in their shortest form so "42" stays "42".
func Cell(s series.Series, i int) *string {
	el := s.Elem(i)
	if el.IsNA() {
		return nil
	}
	v := ElemText(el)
	return &v
}

// ElemText renders a non-null element as text.
func ElemText(el series.Element) string {
	if el.Type() == series.Float {
		return strconv.FormatFloat(el.Float(), 'f', -1, 64)
	}
	return el.String()
}

func key(s series.Series, i int) string {
	if v := Cell(s, i); v != nil {
		return *v
	}
	return ""
}
