package services

import (
	"math"
	"testing"
	"time"

	"rental-analytics/models"
)

func floatPtr(f float64) *float64 { return &f }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func record(listing *models.Listing, date time.Time, reviewer *string) *models.JoinedRecord {
	return &models.JoinedRecord{
		Review:  &models.Review{ListingID: listing.ID, ReviewerID: reviewer, Date: date},
		Listing: listing,
	}
}

func sampleScoped() []*models.JoinedRecord {
	home := &models.Listing{ID: "1", HostLocation: strPtr("Boston"), RoomType: strPtr("Entire home"), Price: floatPtr(100)}
	room := &models.Listing{ID: "2", HostLocation: strPtr("Boston"), RoomType: strPtr("Private room"), Price: floatPtr(50)}
	loft := &models.Listing{ID: "3", HostLocation: strPtr("Cambridge"), RoomType: nil, Price: nil}

	return []*models.JoinedRecord{
		record(loft, day(2017, 2, 1), strPtr("4")),
		record(home, day(2016, 5, 1), strPtr("9")),
		record(room, day(2016, 7, 1), nil),
		record(home, day(2017, 1, 3), strPtr("9")),
		record(loft, day(2016, 3, 1), strPtr("5")),
	}
}

func TestLocationYearPrices(t *testing.T) {
	rows := LocationYearPrices(sampleScoped())

	want := []struct {
		year     int
		location string
		count    int
		avg      *float64
	}{
		{2016, "Boston", 2, floatPtr(75)},
		{2016, "Cambridge", 1, nil},
		{2017, "Boston", 1, floatPtr(100)},
		{2017, "Cambridge", 1, nil},
	}

	if len(rows) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		r := rows[i]
		if r.Year != w.year || r.HostLocation != w.location || r.NumListings != w.count {
			t.Errorf("row %d: got (%d, %s, %d), want (%d, %s, %d)",
				i, r.Year, r.HostLocation, r.NumListings, w.year, w.location, w.count)
		}
		switch {
		case w.avg == nil && r.AvgPrice != nil:
			t.Errorf("row %d: avg price should be null, got %v", i, *r.AvgPrice)
		case w.avg != nil && (r.AvgPrice == nil || *r.AvgPrice != *w.avg):
			t.Errorf("row %d: avg price got %v, want %v", i, r.AvgPrice, *w.avg)
		}
	}
}

func TestLocationYearReviewCountsSkipsNullReviewers(t *testing.T) {
	rows := LocationYearReviewCounts(sampleScoped())

	if len(rows) != 4 {
		t.Fatalf("rows: got %d, want 4", len(rows))
	}
	if rows[0].Year != 2016 || rows[0].HostLocation != "Boston" || rows[0].NumReviews != 1 {
		t.Errorf("2016 Boston: got %+v, want 1 review", rows[0])
	}
	if rows[3].Year != 2017 || rows[3].HostLocation != "Cambridge" || rows[3].NumReviews != 1 {
		t.Errorf("2017 Cambridge: got %+v, want 1 review", rows[3])
	}
}

func TestRoomTypeYearListingCountsNullGroupFirst(t *testing.T) {
	rows := RoomTypeYearListingCounts(sampleScoped())

	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want 5", len(rows))
	}
	// 2016: null, Entire home, Private room; 2017: null, Entire home.
	if rows[0].Year != 2016 || rows[0].RoomType != nil || rows[0].NumListings != 1 {
		t.Errorf("row 0: got %+v, want 2016 null room type", rows[0])
	}
	if rows[1].RoomType == nil || *rows[1].RoomType != "Entire home" {
		t.Errorf("row 1: got %+v, want Entire home", rows[1])
	}
	if rows[2].RoomType == nil || *rows[2].RoomType != "Private room" {
		t.Errorf("row 2: got %+v, want Private room", rows[2])
	}
	if rows[3].Year != 2017 || rows[3].RoomType != nil {
		t.Errorf("row 3: got %+v, want 2017 null room type", rows[3])
	}
	if rows[4].Year != 2017 || rows[4].RoomType == nil || *rows[4].RoomType != "Entire home" {
		t.Errorf("row 4: got %+v, want 2017 Entire home", rows[4])
	}
}

func TestLocationYearSentimentsJoinsAllReviewsOfListing(t *testing.T) {
	scoped := sampleScoped()

	scored := []*models.ScoredReview{
		{Review: &models.Review{ListingID: "1"}, Sentiment: floatPtr(0.8)},
		{Review: &models.Review{ListingID: "1"}, Sentiment: floatPtr(0.4)},
		{Review: &models.Review{ListingID: "2"}, Sentiment: floatPtr(-0.2)},
		{Review: &models.Review{ListingID: "3"}, Sentiment: nil},
	}

	rows := LocationYearSentiments(scoped, scored)
	if len(rows) != 4 {
		t.Fatalf("rows: got %d, want 4", len(rows))
	}

	// 2016 Boston: listing 1 contributes (0.8, 0.4), listing 2 contributes (-0.2).
	want := (0.8 + 0.4 - 0.2) / 3
	if rows[0].AvgSentiment == nil || math.Abs(*rows[0].AvgSentiment-want) > 1e-9 {
		t.Errorf("2016 Boston: got %v, want %v", rows[0].AvgSentiment, want)
	}
	if rows[1].HostLocation != "Cambridge" || rows[1].AvgSentiment != nil {
		t.Errorf("2016 Cambridge: got %+v, want null sentiment", rows[1])
	}
	if rows[2].AvgSentiment == nil || math.Abs(*rows[2].AvgSentiment-0.6) > 1e-9 {
		t.Errorf("2017 Boston: got %v, want 0.6", rows[2].AvgSentiment)
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil, nil)

	if r.ListingsPrice == nil || len(r.ListingsPrice) != 0 {
		t.Errorf("expected empty, non-nil listings rows, got %v", r.ListingsPrice)
	}
	if r.RoomTypes == nil || len(r.RoomTypes) != 0 {
		t.Errorf("expected empty, non-nil room type rows, got %v", r.RoomTypes)
	}
}
