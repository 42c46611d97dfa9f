package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const reviewsCSV = `id,listing_id,reviewer_id,date,comment
10,1,9,2016-05-01,Great stay
11,2,,2014-03-02,"Nice, quiet"
12,3,7,not-a-date,
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDatasetReadsBothTables(t *testing.T) {
	dir := t.TempDir()
	listings := writeFile(t, dir, "listings.csv", `listing_id,host_location,room_type,price,name
1,Boston,Entire home/apt,100,Loft
2,Cambridge,Private room,"$1,250.00",Studio
3,,Shared room,,Couch
`)
	reviews := writeFile(t, dir, "reviews.csv", reviewsCSV)

	ds, err := LoadDataset(listings, reviews, ',')
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}

	raw := ds.RawListings()
	if len(raw) != 3 {
		t.Fatalf("listings: got %d, want 3", len(raw))
	}
	if raw[0].ID != "1" || *raw[0].HostLocation != "Boston" {
		t.Errorf("listing[0]: got id=%q loc=%v", raw[0].ID, raw[0].HostLocation)
	}
	if raw[1].RawPrice == nil || *raw[1].RawPrice != "$1,250.00" {
		t.Errorf("listing[1] price: got %v, want $1,250.00", raw[1].RawPrice)
	}
	if raw[2].HostLocation != nil {
		t.Errorf("listing[2] location should be null, got %q", *raw[2].HostLocation)
	}
	if raw[2].RawPrice != nil {
		t.Errorf("listing[2] price should be null, got %q", *raw[2].RawPrice)
	}

	rev := ds.RawReviews()
	if len(rev) != 3 {
		t.Fatalf("reviews: got %d, want 3", len(rev))
	}
	if rev[0].ID == nil || *rev[0].ID != "10" {
		t.Errorf("review[0] id: got %v, want 10", rev[0].ID)
	}
	if rev[1].ReviewerID != nil {
		t.Errorf("review[1] reviewer should be null, got %q", *rev[1].ReviewerID)
	}
	if rev[1].Comment == nil || *rev[1].Comment != "Nice, quiet" {
		t.Errorf("review[1] comment: got %v", rev[1].Comment)
	}
	if rev[2].Comment != nil {
		t.Errorf("review[2] comment should be null, got %q", *rev[2].Comment)
	}
}

func TestLoadDatasetMissingFile(t *testing.T) {
	dir := t.TempDir()
	reviews := writeFile(t, dir, "reviews.csv", reviewsCSV)

	if _, err := LoadDataset(filepath.Join(dir, "nope.csv"), reviews, ','); err == nil {
		t.Error("expected error for missing listings file")
	}
}

func TestLoadDatasetMissingColumn(t *testing.T) {
	dir := t.TempDir()
	listings := writeFile(t, dir, "listings.csv", "listing_id,host_location,price\n1,Boston,100\n")
	reviews := writeFile(t, dir, "reviews.csv", reviewsCSV)

	_, err := LoadDataset(listings, reviews, ',')
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadTableMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "listing_id,host_location\n1,Boston,extra,fields\n")

	if _, err := LoadTable(path, ',', nil); err == nil {
		t.Error("expected error for row with wrong field count")
	}
}

func TestLoadTableCustomDelimiter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "listings.tsv",
		"listing_id\thost_location\troom_type\tprice\n1\tBoston\tPrivate room\t80\n")

	df, err := LoadTable(path, '\t', listingColumns)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if df.Nrow() != 1 {
		t.Errorf("rows: got %d, want 1", df.Nrow())
	}
}

func TestLoadDatasetHeaderOnlyIsEmpty(t *testing.T) {
	dir := t.TempDir()
	listings := writeFile(t, dir, "listings.csv", "listing_id,host_location,room_type,price\n1,Boston,Entire home,100\n")
	reviews := writeFile(t, dir, "reviews.csv", "id,listing_id,reviewer_id,date,comment\n")

	ds, err := LoadDataset(listings, reviews, ',')
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if ds.Reviews.Nrow() != 0 {
		t.Errorf("reviews rows: got %d, want 0", ds.Reviews.Nrow())
	}
	if got := ds.RawReviews(); len(got) != 0 {
		t.Errorf("raw reviews: got %d, want 0", len(got))
	}
	if got := ds.RawListings(); len(got) != 1 {
		t.Errorf("raw listings: got %d, want 1", len(got))
	}
}

func TestLoadTableHeaderOnlyStillChecksColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "listings.csv", "listing_id,price\n")

	_, err := LoadTable(path, ',', listingColumns)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadTableEmptyFileFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.csv", "")

	if _, err := LoadTable(path, ',', nil); err == nil {
		t.Error("expected error for a file without a header")
	}
}

func TestLiteralNAIsKept(t *testing.T) {
	dir := t.TempDir()
	listings := writeFile(t, dir, "listings.csv", `listing_id,host_location,room_type,price
1,NA,null,100
2,,Private room,80
`)
	reviews := writeFile(t, dir, "reviews.csv", reviewsCSV)

	ds, err := LoadDataset(listings, reviews, ',')
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	raw := ds.RawListings()
	if raw[0].HostLocation == nil || *raw[0].HostLocation != "NA" {
		t.Errorf("listing[0] location: got %v, want NA", raw[0].HostLocation)
	}
	if raw[0].RoomType == nil || *raw[0].RoomType != "null" {
		t.Errorf("listing[0] room type: got %v, want null text", raw[0].RoomType)
	}
	if raw[1].HostLocation != nil {
		t.Errorf("listing[1] location should be null, got %q", *raw[1].HostLocation)
	}
}
