package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akash-deepak-varma/AI-PADMD/internal/extract"
	"github.com/akash-deepak-varma/AI-PADMD/internal/ocr"
)

// Orchestrator is the single entry point for one request: OCR, gate,
// extraction pipeline, trace assembly.
type Orchestrator struct {
	adapter  *ocr.Adapter
	pipeline *extract.Pipeline
	gate     Gate
	logger   *slog.Logger
}

func NewOrchestrator(adapter *ocr.Adapter, pipeline *extract.Pipeline, gate Gate, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{adapter: adapter, pipeline: pipeline, gate: gate, logger: logger}
}

// Extract runs the full chain on one image. Failures never escape as errors:
// an OCR failure or a gate abort yields a single-record trace with a problem
// string, and extraction failures surface through Trace.Err. The four-record
// order on the happy path is fixed: ocr, normalization, classification, final.
func (o *Orchestrator) Extract(ctx context.Context, image []byte) Trace {
	rid := uuid.New().String()
	start := time.Now()

	obs, err := o.adapter.Observe(ctx, image)
	if err != nil {
		o.logger.Error("pipeline.ocr.failed", "req_id", rid, "error", err)
		return Trace{
			Records: []StageRecord{newOCRRecord(ocr.Observation{})},
			Problem: "ocr failed: " + err.Error(),
		}
	}

	trace := Trace{Records: make([]StageRecord, 0, 4)}
	trace.Records = append(trace.Records, newOCRRecord(obs))

	if !o.gate.Admit(obs) {
		o.logger.Info("pipeline.gate.abort",
			"req_id", rid,
			"confidence", obs.Confidence,
			"lines", len(obs.Lines),
		)
		trace.Problem = abortReason
		return trace
	}

	res := o.pipeline.Run(ctx, obs.Lines)
	trace.Err = res.Err
	trace.Records = append(trace.Records,
		newNormalizationRecord(res.Normalization),
		newClassificationRecord(res.Classification),
		newFinalRecord(res.Final, obs.CurrencyHint),
	)

	o.logger.Info("pipeline.extract.done",
		"req_id", rid,
		"records", len(trace.Records),
		"confidence", obs.Confidence,
		"error", trace.Err,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return trace
}
