package storage

import (
	"strconv"

	"rental-analytics/models"
)

// table is one aggregate flattened into named columns. Null cells are nil.
type table struct {
	name    string
	columns []string
	rows    [][]any
}

// reportTables flattens every aggregate of r. Table names match the HTTP
// paths that serve the same data.
func reportTables(r *models.Report) []table {
	price := table{
		name:    "location_yearly_listings_price",
		columns: []string{"year", "host_location", "num_listings", "avg_price"},
	}
	for _, row := range r.ListingsPrice {
		price.rows = append(price.rows, []any{row.Year, row.HostLocation, row.NumListings, nullFloat(row.AvgPrice)})
	}

	reviews := table{
		name:    "location_yearly_reviews",
		columns: []string{"year", "host_location", "num_reviews"},
	}
	for _, row := range r.Reviews {
		reviews.rows = append(reviews.rows, []any{row.Year, row.HostLocation, row.NumReviews})
	}

	sentiment := table{
		name:    "location_yearly_sentiment",
		columns: []string{"year", "host_location", "avg_sentiment"},
	}
	for _, row := range r.Sentiment {
		sentiment.rows = append(sentiment.rows, []any{row.Year, row.HostLocation, nullFloat(row.AvgSentiment)})
	}

	roomTypes := table{
		name:    "year_room_type",
		columns: []string{"year", "room_type", "num_listings"},
	}
	for _, row := range r.RoomTypes {
		roomTypes.rows = append(roomTypes.rows, []any{row.Year, nullString(row.RoomType), row.NumListings})
	}

	sampled := table{
		name:    "sampled_locations",
		columns: []string{"position", "host_location"},
	}
	for i, loc := range r.SampledLocations {
		sampled.rows = append(sampled.rows, []any{i + 1, nullString(loc)})
	}

	return []table{price, reviews, sentiment, roomTypes, sampled}
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// formatCell renders a table cell for text output; nil becomes "".
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
