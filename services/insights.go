package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rental-analytics/models"
	"rental-analytics/utils"
)

// InsightService builds the location-scoped aggregates and prints a console
// summary of a finished report.
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates an InsightService.
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate runs the four aggregators over the location-scoped records.
// scored must be the full date-filtered review set.
func (s *InsightService) Generate(scoped []*models.JoinedRecord, scored []*models.ScoredReview) *models.Report {
	report := &models.Report{
		ListingsPrice: LocationYearPrices(scoped),
		Reviews:       LocationYearReviewCounts(scoped),
		Sentiment:     LocationYearSentiments(scoped, scored),
		RoomTypes:     RoomTypeYearListingCounts(scoped),
		GeneratedAt:   time.Now(),
	}

	s.logger.Info("[insights] %d listing/price rows, %d review rows, %d sentiment rows, %d room type rows",
		len(report.ListingsPrice), len(report.Reviews), len(report.Sentiment), len(report.RoomTypes))
	return report
}

type locationYear struct {
	year     int
	location string
}

func (k locationYear) less(o locationYear) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	return k.location < o.location
}

// roomYear keeps null room types apart from the empty string.
type roomYear struct {
	year     int
	null     bool
	roomType string
}

// less orders by year, then room type with null first.
func (k roomYear) less(o roomYear) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	if k.null != o.null {
		return k.null
	}
	return k.roomType < o.roomType
}

// mean accumulates a null-ignoring average.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v != nil {
		m.sum += *v
		m.n++
	}
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

// groupByLocationYear returns the distinct (year, host_location) keys of
// scoped, sorted, and the index of each record's key.
func groupByLocationYear(scoped []*models.JoinedRecord) ([]locationYear, map[locationYear]int) {
	var keys []locationYear
	seen := make(map[locationYear]struct{})
	for _, r := range scoped {
		k := locationYear{year: r.Year(), location: *r.Listing.HostLocation}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	index := make(map[locationYear]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return keys, index
}

// LocationYearPrices counts listing ids and averages price per
// (year, host_location).
func LocationYearPrices(scoped []*models.JoinedRecord) []models.LocationYearPrice {
	keys, index := groupByLocationYear(scoped)
	counts := make([]int, len(keys))
	prices := make([]mean, len(keys))

	for _, r := range scoped {
		i := index[locationYear{year: r.Year(), location: *r.Listing.HostLocation}]
		counts[i]++
		prices[i].add(r.Listing.Price)
	}

	rows := make([]models.LocationYearPrice, len(keys))
	for i, k := range keys {
		rows[i] = models.LocationYearPrice{
			Year:         k.year,
			HostLocation: k.location,
			NumListings:  counts[i],
			AvgPrice:     prices[i].value(),
		}
	}
	return rows
}

// LocationYearReviewCounts counts non-null reviewer ids per
// (year, host_location).
func LocationYearReviewCounts(scoped []*models.JoinedRecord) []models.LocationYearReviews {
	keys, index := groupByLocationYear(scoped)
	counts := make([]int, len(keys))

	for _, r := range scoped {
		i := index[locationYear{year: r.Year(), location: *r.Listing.HostLocation}]
		if r.Review.ReviewerID != nil {
			counts[i]++
		}
	}

	rows := make([]models.LocationYearReviews, len(keys))
	for i, k := range keys {
		rows[i] = models.LocationYearReviews{
			Year:         k.year,
			HostLocation: k.location,
			NumReviews:   counts[i],
		}
	}
	return rows
}

// LocationYearSentiments pairs every scoped record with every scored review
// of the same listing and averages the review sentiment per
// (year, host_location) of the scoped record.
func LocationYearSentiments(scoped []*models.JoinedRecord, scored []*models.ScoredReview) []models.LocationYearSentiment {
	perListing := make(map[string]*mean)
	for _, sr := range scored {
		m, ok := perListing[sr.ListingID]
		if !ok {
			m = &mean{}
			perListing[sr.ListingID] = m
		}
		m.add(sr.Sentiment)
	}

	keys, index := groupByLocationYear(scoped)
	acc := make([]mean, len(keys))
	for _, r := range scoped {
		i := index[locationYear{year: r.Year(), location: *r.Listing.HostLocation}]
		if m, ok := perListing[r.Listing.ID]; ok {
			acc[i].sum += m.sum
			acc[i].n += m.n
		}
	}

	rows := make([]models.LocationYearSentiment, len(keys))
	for i, k := range keys {
		rows[i] = models.LocationYearSentiment{
			Year:         k.year,
			HostLocation: k.location,
			AvgSentiment: acc[i].value(),
		}
	}
	return rows
}

// RoomTypeYearListingCounts counts listing ids per (year, room_type). Null
// room types form their own group.
func RoomTypeYearListingCounts(scoped []*models.JoinedRecord) []models.RoomTypeYearListings {
	counts := make(map[roomYear]int)
	var keys []roomYear
	for _, r := range scoped {
		k := roomYear{year: r.Year(), null: r.Listing.RoomType == nil}
		if !k.null {
			k.roomType = *r.Listing.RoomType
		}
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		counts[k]++
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	rows := make([]models.RoomTypeYearListings, len(keys))
	for i, k := range keys {
		row := models.RoomTypeYearListings{Year: k.year, NumListings: counts[k]}
		if !k.null {
			rt := k.roomType
			row.RoomType = &rt
		}
		rows[i] = row
	}
	return rows
}

// Print writes a human-readable summary of the report to stdout.
func (s *InsightService) Print(r *models.Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 RENTAL ANALYTICS REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Sampled Host Locations\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.SampledLocations) == 0 {
		fmt.Printf("  No locations in the joined dataset\n")
	}
	for i, loc := range r.SampledLocations {
		name := "(null)"
		if loc != nil {
			name = truncate(*loc, 44)
		}
		fmt.Printf("  \033[1m%2d.\033[0m %s\n", i+1, name)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Listings by Location and Year\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsPrice) == 0 {
		fmt.Printf("  No location data\n")
	}
	for _, row := range r.ListingsPrice {
		price := "n/a"
		if row.AvgPrice != nil {
			price = fmt.Sprintf("$%.2f", *row.AvgPrice)
		}
		fmt.Printf("  %d  %-28s %6d  \033[1;32m%s\033[0m\n",
			row.Year, truncate(row.HostLocation, 28), row.NumListings, price)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
