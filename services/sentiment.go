package services

import (
	"context"
	"fmt"
	"sync"

	"rental-analytics/models"
	"rental-analytics/sentiment"
	"rental-analytics/utils"
)

const scoreBatchSize = 256

// SentimentService scores review comments on a bounded worker pool.
type SentimentService struct {
	logger  *utils.Logger
	scorer  sentiment.Scorer
	workers int
}

// NewSentimentService creates a SentimentService running up to workers
// scoring jobs at once.
func NewSentimentService(logger *utils.Logger, scorer sentiment.Scorer, workers int) *SentimentService {
	return &SentimentService{logger: logger, scorer: scorer, workers: workers}
}

// Score returns one ScoredReview per review, in input order. A review with no
// comment gets a null sentiment. A panic inside the scorer fails the whole call.
func (s *SentimentService) Score(ctx context.Context, reviews []*models.Review) ([]*models.ScoredReview, error) {
	out := make([]*models.ScoredReview, len(reviews))
	pool := utils.NewWorkerPool(s.workers)

	var (
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for start := 0; start < len(reviews); start += scoreBatchSize {
		end := start + scoreBatchSize
		if end > len(reviews) {
			end = len(reviews)
		}
		lo, hi := start, end

		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("sentiment: scoring reviews %d-%d: %v", lo, hi-1, r))
				}
			}()
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			for i := lo; i < hi; i++ {
				out[i] = s.scoreOne(reviews[i])
			}
		})
	}
	pool.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	s.logger.Info("[sentiment] Scored %d reviews with %d workers", len(out), s.workers)
	return out, nil
}

func (s *SentimentService) scoreOne(r *models.Review) *models.ScoredReview {
	scored := &models.ScoredReview{Review: r}
	if r.Comment != nil {
		p := s.scorer.Polarity(*r.Comment)
		scored.Sentiment = &p
	}
	return scored
}
