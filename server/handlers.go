package server

import (
	"net/http"

	"github.com/go-chi/render"

	"rental-analytics/models"
	"rental-analytics/utils"
)

// NoPriceDataMessage is returned, with status 200, when no listing matches
// an average-price query.
const NoPriceDataMessage = "No data found for the given room type and location."

// ListingQuerier answers the on-demand listing queries.
type ListingQuerier interface {
	AveragePrice(roomType, location *string) (avg *float64, found bool, err error)
	Locations() ([]*string, error)
	RoomTypes() ([]*string, error)
}

// ReportHandler serves the precomputed report and the on-demand queries.
// It only reads its fields, so one instance serves all requests.
type ReportHandler struct {
	report  *models.Report
	queries ListingQuerier
	logger  *utils.Logger
}

// NewReportHandler creates a handler over a finished report.
func NewReportHandler(report *models.Report, queries ListingQuerier, logger *utils.Logger) *ReportHandler {
	return &ReportHandler{report: report, queries: queries, logger: logger}
}

type averagePriceResponse struct {
	AveragePrice *float64 `json:"average_price"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetYearRoomType handles GET /api/year-room-type
func (h *ReportHandler) GetYearRoomType(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.report.RoomTypes)
}

// GetLocationYearlyListingsPrice handles GET /api/location-yearly-listings-price
func (h *ReportHandler) GetLocationYearlyListingsPrice(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.report.ListingsPrice)
}

// GetLocationYearlyReviews handles GET /api/location-yearly-reviews
func (h *ReportHandler) GetLocationYearlyReviews(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.report.Reviews)
}

// GetLocationYearlySentiment handles GET /api/location-yearly-sentiment
func (h *ReportHandler) GetLocationYearlySentiment(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.report.Sentiment)
}

// GetSampledLocations handles GET /api/sampled-locations
func (h *ReportHandler) GetSampledLocations(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, nonNil(h.report.SampledLocations))
}

// GetAveragePrice handles GET /api/average-price?room_type=&location=
//
// An absent parameter is passed on as nil rather than rejected.
func (h *ReportHandler) GetAveragePrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomType := optionalParam(q, "room_type")
	location := optionalParam(q, "location")

	avg, found, err := h.queries.AveragePrice(roomType, location)
	if err != nil {
		h.fail(w, r, "average price query failed", err)
		return
	}
	if !found {
		render.JSON(w, r, errorResponse{Error: NoPriceDataMessage})
		return
	}
	render.JSON(w, r, averagePriceResponse{AveragePrice: avg})
}

// GetLocations handles GET /api/locations
func (h *ReportHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.queries.Locations()
	if err != nil {
		h.fail(w, r, "locations query failed", err)
		return
	}
	render.JSON(w, r, nonNil(locs))
}

// GetRoomTypes handles GET /api/room-types
func (h *ReportHandler) GetRoomTypes(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.queries.RoomTypes()
	if err != nil {
		h.fail(w, r, "room types query failed", err)
		return
	}
	render.JSON(w, r, nonNil(rooms))
}

func (h *ReportHandler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.Error("[http] %s %s: %s: %v", r.Method, r.URL.Path, message, err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, errorResponse{Error: message})
}

func optionalParam(q map[string][]string, name string) *string {
	vals, ok := q[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

func nonNil(v []*string) []*string {
	if v == nil {
		return []*string{}
	}
	return v
}
