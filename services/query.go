package services

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"rental-analytics/storage"
	"rental-analytics/utils"
)

// QueryService answers on-demand questions against the full, unscoped
// listings table. The table is never modified, so calls may run concurrently.
type QueryService struct {
	listings dataframe.DataFrame
}

// NewQueryService wraps a loaded listings table.
func NewQueryService(listings dataframe.DataFrame) *QueryService {
	return &QueryService{listings: listings}
}

// AveragePrice averages price over listings whose room type and host
// location equal the given values exactly. A nil argument matches only rows
// where that field is null. found is false when no row matched; avg is nil
// when rows matched but none had a price.
func (q *QueryService) AveragePrice(roomType, location *string) (avg *float64, found bool, err error) {
	filtered := q.listings.
		Filter(dataframe.F{Colname: storage.ColRoomType, Comparator: series.CompFunc, Comparando: equals(roomType)}).
		Filter(dataframe.F{Colname: storage.ColHostLocation, Comparator: series.CompFunc, Comparando: equals(location)})
	if filtered.Err != nil {
		return nil, false, fmt.Errorf("query: filter listings: %w", filtered.Err)
	}
	if filtered.Nrow() == 0 {
		return nil, false, nil
	}

	var m mean
	prices := filtered.Col(storage.ColPrice)
	for i := 0; i < prices.Len(); i++ {
		el := prices.Elem(i)
		if el.IsNA() {
			continue
		}
		if p, ok := ParsePrice(storage.ElemText(el)); ok {
			m.add(&p)
		}
	}
	return m.value(), true, nil
}

// Locations returns every distinct host location in the listings table.
func (q *QueryService) Locations() ([]*string, error) {
	return q.distinct(storage.ColHostLocation)
}

// RoomTypes returns every distinct room type in the listings table.
func (q *QueryService) RoomTypes() ([]*string, error) {
	return q.distinct(storage.ColRoomType)
}

func (q *QueryService) distinct(col string) ([]*string, error) {
	s := q.listings.Col(col)
	if s.Err != nil {
		return nil, fmt.Errorf("query: column %q: %w", col, s.Err)
	}
	set := utils.NewDistinctSet()
	for i := 0; i < s.Len(); i++ {
		set.Add(storage.Cell(s, i))
	}
	return set.Values(), nil
}

func equals(want *string) func(series.Element) bool {
	if want == nil {
		return func(el series.Element) bool { return el.IsNA() }
	}
	w := *want
	return func(el series.Element) bool {
		return !el.IsNA() && storage.ElemText(el) == w
	}
}
