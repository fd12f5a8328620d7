// Package pipeline composes the OCR adapter, the confidence gate, and the
// extraction pipeline into one end-to-end operation that always produces a
// uniform trace of per-stage records.
package pipeline

import (
	"github.com/akash-deepak-varma/AI-PADMD/internal/extract"
	"github.com/akash-deepak-varma/AI-PADMD/internal/ocr"
)

// Stage names, in the order they appear in a full trace.
const (
	StageOCR            = "ocr"
	StageNormalization  = "normalization"
	StageClassification = "classification"
	StageFinal          = "final"
)

// Fallbacks substituted when a stage produced no payload, so the response
// shape stays uniform under partial failure.
const (
	defaultConfidence = 0.9
	defaultCurrency   = "INR"
	defaultStatus     = "ok"
)

// StageRecord is one tagged entry in the response trace.
type StageRecord interface {
	stage() string
}

type OCRRecord struct {
	Stage        string   `json:"stage"`
	RawTokens    []string `json:"raw_tokens"`
	CurrencyHint *string  `json:"currency_hint"`
	Confidence   float64  `json:"confidence"`
}

func (OCRRecord) stage() string { return StageOCR }

type NormalizationRecord struct {
	Stage             string    `json:"stage"`
	NormalizedAmounts []float64 `json:"normalized_amounts"`
	Confidence        float64   `json:"normalization_confidence"`
}

func (NormalizationRecord) stage() string { return StageNormalization }

type ClassificationRecord struct {
	Stage      string                     `json:"stage"`
	Amounts    []extract.ClassifiedAmount `json:"amounts"`
	Confidence float64                    `json:"confidence"`
}

func (ClassificationRecord) stage() string { return StageClassification }

type FinalRecord struct {
	Stage    string                  `json:"stage"`
	Currency string                  `json:"currency"`
	Amounts  []extract.SourcedAmount `json:"amounts"`
	Summary  string                  `json:"summary"`
	Status   string                  `json:"status"`
}

func (FinalRecord) stage() string { return StageFinal }

// Trace is the ordered record of how far processing got, plus the problem or
// error text that explains an early stop or partial failure.
type Trace struct {
	Records []StageRecord
	Problem string // set when the gate aborted or OCR itself failed
	Err     string // first extraction failure, empty on clean runs
}

func newOCRRecord(obs ocr.Observation) OCRRecord {
	tokens := obs.Lines
	if tokens == nil {
		tokens = []string{}
	}
	var hint *string
	if obs.CurrencyHint != "" {
		h := obs.CurrencyHint
		hint = &h
	}
	return OCRRecord{
		Stage:        StageOCR,
		RawTokens:    tokens,
		CurrencyHint: hint,
		Confidence:   obs.Confidence,
	}
}

func newNormalizationRecord(n extract.Normalization) NormalizationRecord {
	amounts := n.NormalizedAmounts
	if amounts == nil {
		amounts = []float64{}
	}
	conf := n.Confidence
	if conf == 0 {
		conf = defaultConfidence
	}
	return NormalizationRecord{
		Stage:             StageNormalization,
		NormalizedAmounts: amounts,
		Confidence:        conf,
	}
}

func newClassificationRecord(c extract.Classification) ClassificationRecord {
	amounts := c.Amounts
	if amounts == nil {
		amounts = []extract.ClassifiedAmount{}
	}
	conf := c.Confidence
	if conf == 0 {
		conf = defaultConfidence
	}
	return ClassificationRecord{
		Stage:      StageClassification,
		Amounts:    amounts,
		Confidence: conf,
	}
}

func newFinalRecord(f extract.Final, currencyHint string) FinalRecord {
	currency := f.Currency
	if currency == "" {
		currency = currencyHint
	}
	if currency == "" {
		currency = defaultCurrency
	}
	amounts := f.Amounts
	if amounts == nil {
		amounts = []extract.SourcedAmount{}
	}
	status := f.Status
	if status == "" {
		status = defaultStatus
	}
	return FinalRecord{
		Stage:    StageFinal,
		Currency: currency,
		Amounts:  amounts,
		Summary:  f.Summary,
		Status:   status,
	}
}
