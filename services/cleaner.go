package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rental-analytics/config"
	"rental-analytics/models"
	"rental-analytics/utils"
)

var (
	// priceRegexp captures numeric price values
	priceRegexp = regexp.MustCompile(`-?[\d,]*\.?\d+`)
)

// Cleaner turns raw dataset rows into typed records and applies the review
// date cutoff.
type Cleaner struct {
	logger *utils.Logger
	cutoff time.Time
}

// NewCleaner creates a Cleaner that keeps reviews dated on or after cutoff.
func NewCleaner(logger *utils.Logger, cutoff time.Time) *Cleaner {
	return &Cleaner{logger: logger, cutoff: cutoff}
}

// CleanListings converts raw listings, parsing prices. Rows are never
// dropped; an unparseable price becomes null.
func (c *Cleaner) CleanListings(raw []*models.RawListing) []*models.Listing {
	result := make([]*models.Listing, 0, len(raw))
	unpriced := 0

	for _, r := range raw {
		l := &models.Listing{
			ID:           strings.TrimSpace(r.ID),
			HostLocation: r.HostLocation,
			RoomType:     r.RoomType,
		}
		if r.RawPrice != nil {
			if p, ok := ParsePrice(*r.RawPrice); ok {
				l.Price = &p
			} else {
				unpriced++
			}
		}
		result = append(result, l)
	}

	if unpriced > 0 {
		c.logger.Debug("[cleaner] %d listings had an unparseable price", unpriced)
	}
	c.logger.Info("[cleaner] Cleaned %d listings", len(result))
	return result
}

// CleanReviews parses review dates and keeps the rows dated on or after the
// cutoff. Rows whose date does not parse are dropped without error.
func (c *Cleaner) CleanReviews(raw []*models.RawReview) []*models.Review {
	result := make([]*models.Review, 0, len(raw))
	unparseable, early := 0, 0

	for _, r := range raw {
		date, ok := parseDate(r.RawDate)
		if !ok {
			unparseable++
			continue
		}
		if date.Before(c.cutoff) {
			early++
			continue
		}
		result = append(result, &models.Review{
			ID:         r.ID,
			ListingID:  strings.TrimSpace(r.ListingID),
			ReviewerID: r.ReviewerID,
			Date:       date,
			Comment:    r.Comment,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d reviews (unparseable date: %d, before %s: %d)",
		len(raw), len(result), unparseable, c.cutoff.Format(config.DateLayout), early)
	return result
}

// ParsePrice extracts a price from either a plain number or a currency
// string.
// Examples:
//
//	"150"       → 150
//	"$1,200.00" → 1200
//	"USD 99.5"  → 99.5
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}

	match := priceRegexp.FindString(raw)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	d, err := time.Parse(config.DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
