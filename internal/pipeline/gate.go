package pipeline

import "github.com/akash-deepak-varma/AI-PADMD/internal/ocr"

// DefaultMinConfidence is the single source of truth for the abort cutoff.
const DefaultMinConfidence = 0.3

const abortReason = "confidence too low to proceed further"

// Gate decides whether OCR output is trustworthy enough to spend model calls
// on. It inspects the observation and nothing else; it never mutates it.
type Gate struct {
	MinConfidence float64
}

// Admit reports whether the pipeline should run for this observation.
func (g Gate) Admit(obs ocr.Observation) bool {
	min := g.MinConfidence
	if min <= 0 {
		min = DefaultMinConfidence
	}
	return obs.Confidence >= min
}
