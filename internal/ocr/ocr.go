package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akash-deepak-varma/AI-PADMD/internal/currency"
)

// Line is one detected text line with its detection confidence in [0,1].
type Line struct {
	Text       string
	Confidence float64
}

// Engine is the boundary to the text-detection backend.
type Engine interface {
	Detect(ctx context.Context, image []byte) ([]Line, error)
	Close() error
}

// Observation is the raw OCR output handed to the pipeline: non-empty text
// lines in reading order, the arithmetic mean of their confidences (0.0 when
// nothing was detected), and an optional currency hint.
type Observation struct {
	Lines        []string
	Confidence   float64
	CurrencyHint string // empty when undetermined
}

// Adapter converts engine output into an Observation.
type Adapter struct {
	engine Engine
	logger *slog.Logger
}

func NewAdapter(engine Engine, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{engine: engine, logger: logger}
}

// Observe runs detection on the image, drops blank-only lines, and averages
// the confidences of the lines that were kept.
func (a *Adapter) Observe(ctx context.Context, image []byte) (Observation, error) {
	detected, err := a.engine.Detect(ctx, image)
	if err != nil {
		return Observation{}, fmt.Errorf("detect: %w", err)
	}

	kept := make([]string, 0, len(detected))
	var sum float64
	for _, ln := range detected {
		text := strings.TrimSpace(ln.Text)
		if text == "" {
			continue
		}
		kept = append(kept, text)
		sum += ln.Confidence
	}

	var conf float64
	if len(kept) > 0 {
		conf = sum / float64(len(kept))
	}
	hint, _ := currency.Guess(strings.Join(kept, " "))

	a.logger.Debug("ocr.observe",
		"detected", len(detected),
		"kept", len(kept),
		"confidence", conf,
		"currency_hint", hint,
	)
	return Observation{Lines: kept, Confidence: conf, CurrencyHint: hint}, nil
}
