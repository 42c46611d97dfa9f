package services

import (
	"context"
	"fmt"
	"time"

	"rental-analytics/models"
	"rental-analytics/utils"
)

// PipelineConfig holds the tunables of the startup computation.
type PipelineConfig struct {
	Cutoff     time.Time
	SampleSize int
}

// Pipeline builds the Report once at startup: clean, join, sample, score,
// aggregate.
type Pipeline struct {
	logger    *utils.Logger
	cleaner   *Cleaner
	sentiment *SentimentService
	insights  *InsightService
	cfg       PipelineConfig
}

// NewPipeline wires the pipeline stages together.
func NewPipeline(logger *utils.Logger, sentiment *SentimentService, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		logger:    logger,
		cleaner:   NewCleaner(logger, cfg.Cutoff),
		sentiment: sentiment,
		insights:  NewInsightService(logger),
		cfg:       cfg,
	}
}

// Run computes every startup aggregate from the raw tables.
func (p *Pipeline) Run(ctx context.Context, rawListings []*models.RawListing, rawReviews []*models.RawReview) (*models.Report, error) {
	listings := p.cleaner.CleanListings(rawListings)
	reviews := p.cleaner.CleanReviews(rawReviews)

	joined := Join(reviews, listings)
	sample := SampleLocations(joined, p.cfg.SampleSize)
	scoped := ScopeToLocations(joined, sample)
	p.logger.Info("[pipeline] Joined %d reviewed stays; %d fall in the %d sampled locations",
		len(joined), len(scoped), len(sample))

	scored, err := p.sentiment.Score(ctx, reviews)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	report := p.insights.Generate(scoped, scored)
	report.SampledLocations = sample
	return report, nil
}

// Join matches every review to the listings sharing its listing_id. Reviews
// with no matching listing, and rows with an empty id, are dropped.
func Join(reviews []*models.Review, listings []*models.Listing) []*models.JoinedRecord {
	byID := make(map[string][]*models.Listing, len(listings))
	for _, l := range listings {
		if l.ID == "" {
			continue
		}
		byID[l.ID] = append(byID[l.ID], l)
	}

	joined := make([]*models.JoinedRecord, 0, len(reviews))
	for _, r := range reviews {
		if r.ListingID == "" {
			continue
		}
		for _, l := range byID[r.ListingID] {
			joined = append(joined, &models.JoinedRecord{Review: r, Listing: l})
		}
	}
	return joined
}

// SampleLocations returns the first n distinct host locations in record
// order. A null location counts as a distinct value.
func SampleLocations(records []*models.JoinedRecord, n int) []*string {
	set := utils.NewDistinctSet()
	for _, r := range records {
		if set.Size() >= n {
			break
		}
		set.Add(r.Listing.HostLocation)
	}
	return set.Values()
}

// ScopeToLocations keeps the records whose host location is one of the
// sampled values. Null never matches, even when the sample contains it.
func ScopeToLocations(records []*models.JoinedRecord, sample []*string) []*models.JoinedRecord {
	allowed := utils.NewDistinctSet()
	for _, loc := range sample {
		allowed.Add(loc)
	}

	scoped := make([]*models.JoinedRecord, 0, len(records))
	for _, r := range records {
		loc := r.Listing.HostLocation
		if loc != nil && allowed.Contains(loc) {
			scoped = append(scoped, r)
		}
	}
	return scoped
}
