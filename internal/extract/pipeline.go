package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akash-deepak-varma/AI-PADMD/internal/llm"
)

// defaultSource is attached to amounts the model classified but failed to
// cite a snippet for.
const defaultSource = "image_ocr"

// Pipeline runs the three sequential stages. One completion call is attempted
// per stage per request, no retries; each stage's prompt embeds the parsed
// output of the stage before it.
type Pipeline struct {
	completer llm.Completer
	logger    *slog.Logger
}

func NewPipeline(completer llm.Completer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{completer: completer, logger: logger}
}

// Run transforms OCR lines into a Result. It never returns an error: a
// completion transport failure empties all three payloads and sets Err, while
// a per-stage decode or validation failure empties that stage and lets the
// remaining stages run on the empty upstream defaults.
func (p *Pipeline) Run(ctx context.Context, lines []string) Result {
	rid := uuid.New().String()
	start := time.Now()
	var out Result

	fail := func(stage string, err error) {
		p.logger.Warn("extract."+stage+".failed", "req_id", rid, "error", err)
		if out.Err == "" {
			out.Err = stage + ": " + err.Error()
		}
	}

	// Stage 1: normalization.
	text, err := p.complete(ctx, rid, "normalization", buildNormalizationPrompt(lines))
	if err != nil {
		return transportFailure("normalization", err)
	}
	if norm, err := decodeNormalization(text); err != nil {
		fail("normalization", err)
	} else {
		out.Normalization = norm
	}

	// Stage 2: classification.
	text, err = p.complete(ctx, rid, "classification", buildClassificationPrompt(lines, out.Normalization.NormalizedAmounts))
	if err != nil {
		return transportFailure("classification", err)
	}
	if class, err := decodeClassification(text); err != nil {
		fail("classification", err)
	} else {
		out.Classification = class
	}

	// Stage 3: finalization.
	text, err = p.complete(ctx, rid, "final", buildFinalPrompt(lines, out.Classification.Amounts))
	if err != nil {
		return transportFailure("final", err)
	}
	if fin, err := decodeFinal(text); err != nil {
		fail("final", err)
	} else {
		out.Final = ensureProvenance(fin, out.Classification.Amounts)
	}

	p.logger.Info("extract.pipeline.done",
		"req_id", rid,
		"amounts", len(out.Classification.Amounts),
		"error", out.Err,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}

// transportFailure is the shape for unexpected failures of a model call
// itself: all three payloads empty, error carried as data.
func transportFailure(stage string, err error) Result {
	return Result{Err: stage + ": " + err.Error()}
}

func (p *Pipeline) complete(ctx context.Context, rid, stage, prompt string) (string, error) {
	start := time.Now()
	text, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		p.logger.Error("extract."+stage+".complete_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	p.logger.Debug("extract."+stage+".complete", "req_id", rid, "response_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}

var errNoPayload = errors.New("no json payload in model response")

func decodeNormalization(text string) (Normalization, error) {
	payload, ok := llm.ExtractPayload(text)
	if !ok {
		return Normalization{}, errNoPayload
	}
	cleaned, _, err := sanitizeNormalization(payload)
	if err != nil {
		return Normalization{}, err
	}
	if err := llm.ValidateAgainstSchema(normalizationSchema(), cleaned); err != nil {
		return Normalization{}, err
	}
	var n Normalization
	if err := json.Unmarshal(cleaned, &n); err != nil {
		return Normalization{}, fmt.Errorf("unmarshal normalization: %w", err)
	}
	return n, nil
}

func decodeClassification(text string) (Classification, error) {
	payload, ok := llm.ExtractPayload(text)
	if !ok {
		return Classification{}, errNoPayload
	}
	cleaned, _, err := sanitizeClassification(payload)
	if err != nil {
		return Classification{}, err
	}
	if err := llm.ValidateAgainstSchema(classificationSchema(), cleaned); err != nil {
		return Classification{}, err
	}
	var c Classification
	if err := json.Unmarshal(cleaned, &c); err != nil {
		return Classification{}, fmt.Errorf("unmarshal classification: %w", err)
	}
	return c, nil
}

func decodeFinal(text string) (Final, error) {
	payload, ok := llm.ExtractPayload(text)
	if !ok {
		return Final{}, errNoPayload
	}
	cleaned, _, err := sanitizeFinal(payload)
	if err != nil {
		return Final{}, err
	}
	if err := llm.ValidateAgainstSchema(finalSchema(), cleaned); err != nil {
		return Final{}, err
	}
	var f Final
	if err := json.Unmarshal(cleaned, &f); err != nil {
		return Final{}, fmt.Errorf("unmarshal final: %w", err)
	}
	return f, nil
}

// ensureProvenance enforces the no-silent-loss invariant: every classified
// amount shows up in the final list with a source string, even if the model
// dropped it or omitted the citation.
func ensureProvenance(f Final, classified []ClassifiedAmount) Final {
	for i := range f.Amounts {
		if f.Amounts[i].Source == "" {
			f.Amounts[i].Source = defaultSource
		}
	}
	for _, c := range classified {
		found := false
		for _, a := range f.Amounts {
			if a.Type == c.Type && a.Value == c.Value {
				found = true
				break
			}
		}
		if !found {
			f.Amounts = append(f.Amounts, SourcedAmount{Type: c.Type, Value: c.Value, Source: defaultSource})
		}
	}
	return f
}
