package ocr

import (
	"context"
	"errors"
	"math"
	"testing"
)

type stubEngine struct {
	lines []Line
	err   error
}

func (s *stubEngine) Detect(context.Context, []byte) ([]Line, error) { return s.lines, s.err }
func (s *stubEngine) Close() error                                   { return nil }

func TestObserveDropsBlankLinesAndAverages(t *testing.T) {
	a := NewAdapter(&stubEngine{lines: []Line{
		{Text: "Total: INR 1200", Confidence: 0.9},
		{Text: "   ", Confidence: 0.1},
		{Text: "Paid: 1000", Confidence: 0.7},
		{Text: "", Confidence: 0.2},
	}}, nil)

	obs, err := a.Observe(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(obs.Lines), obs.Lines)
	}
	if math.Abs(obs.Confidence-0.8) > 1e-9 {
		t.Fatalf("expected confidence 0.8, got %v", obs.Confidence)
	}
	if obs.CurrencyHint != "INR" {
		t.Fatalf("expected INR hint, got %q", obs.CurrencyHint)
	}
}

func TestObserveEmptyDetection(t *testing.T) {
	a := NewAdapter(&stubEngine{}, nil)
	obs, err := a.Observe(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs.Lines) != 0 || obs.Confidence != 0 || obs.CurrencyHint != "" {
		t.Fatalf("expected empty observation, got %+v", obs)
	}
}

func TestObserveEngineError(t *testing.T) {
	a := NewAdapter(&stubEngine{err: errors.New("boom")}, nil)
	if _, err := a.Observe(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected error from engine")
	}
}
