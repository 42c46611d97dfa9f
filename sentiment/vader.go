// Package sentiment scores free text on a polarity scale from -1 (negative)
// to 1 (positive).
package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
	"golang.org/x/text/unicode/norm"
)

// Scorer computes a polarity for a piece of text.
type Scorer interface {
	Polarity(text string) float64
}

// apostrophes maps typographic quotes onto the ASCII apostrophe so
// contractions like "didn’t" are seen as negations.
var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// Vader scores text with the VADER rule-based model. The compound score is
// already normalised to [-1, 1]. It only reads its lexicon, so one Vader can
// be shared by all scoring workers.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader loads the VADER lexicon.
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the compound VADER score of text. Blank text scores 0.
func (v *Vader) Polarity(text string) float64 {
	text = apostrophes.Replace(norm.NFKC.String(text))
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return clamp(v.analyzer.PolarityScores(text).Compound)
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
