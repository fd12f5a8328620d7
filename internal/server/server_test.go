package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/akash-deepak-varma/AI-PADMD/internal/extract"
	"github.com/akash-deepak-varma/AI-PADMD/internal/ocr"
	"github.com/akash-deepak-varma/AI-PADMD/internal/pipeline"
)

type stubExtractor struct {
	trace pipeline.Trace
	calls int
}

func (s *stubExtractor) Extract(context.Context, []byte) pipeline.Trace {
	s.calls++
	return s.trace
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, "receipt.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func TestLiveness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(&stubExtractor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProcessImageStepwise(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hint := "INR"
	stub := &stubExtractor{trace: pipeline.Trace{Records: []pipeline.StageRecord{
		pipeline.OCRRecord{Stage: pipeline.StageOCR, RawTokens: []string{"Total: INR 1200"}, CurrencyHint: &hint, Confidence: 0.95},
		pipeline.NormalizationRecord{Stage: pipeline.StageNormalization, NormalizedAmounts: []float64{1200}, Confidence: 0.9},
		pipeline.ClassificationRecord{Stage: pipeline.StageClassification, Amounts: []extract.ClassifiedAmount{{Type: extract.RoleTotalBill, Value: 1200}}, Confidence: 0.9},
		pipeline.FinalRecord{Stage: pipeline.StageFinal, Currency: "INR", Amounts: []extract.SourcedAmount{{Type: extract.RoleTotalBill, Value: 1200, Source: "text: 'Total: INR 1200'"}}, Summary: "ok", Status: "ok"},
	}}}
	r := New(stub, nil)

	body, contentType := multipartBody(t, "file", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/process_image_stepwise", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Pipeline []map[string]any `json:"pipeline"`
		Problem  string           `json:"problem"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Pipeline) != 4 {
		t.Fatalf("expected 4 stage records, got %d", len(resp.Pipeline))
	}
	wantStages := []string{"ocr", "normalization", "classification", "final"}
	for i, rec := range resp.Pipeline {
		if rec["stage"] != wantStages[i] {
			t.Fatalf("stage[%d] = %v, want %s", i, rec["stage"], wantStages[i])
		}
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 extract call, got %d", stub.calls)
	}
}

func TestProcessImageStepwiseAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubExtractor{trace: pipeline.Trace{
		Records: []pipeline.StageRecord{pipeline.OCRRecord{Stage: pipeline.StageOCR, RawTokens: []string{}, Confidence: 0.1}},
		Problem: "confidence too low to proceed further",
	}}
	r := New(stub, nil)

	body, contentType := multipartBody(t, "file", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/process_image_stepwise", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("low confidence is not an HTTP error, got %d", w.Code)
	}
	var resp struct {
		Pipeline []map[string]any `json:"pipeline"`
		Problem  string           `json:"problem"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Pipeline) != 1 || resp.Problem == "" {
		t.Fatalf("expected single-stage abort response, got %s", w.Body.String())
	}
}

func TestProcessImageStepwiseRejectsMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubExtractor{}
	r := New(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/process_image_stepwise", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if stub.calls != 0 {
		t.Fatal("extractor must not run for invalid input")
	}
}

func TestProcessImageStepwiseRejectsCorruptImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubExtractor{}
	r := New(stub, nil)

	body, contentType := multipartBody(t, "file", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/process_image_stepwise", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if stub.calls != 0 {
		t.Fatal("extractor must not run for corrupt input")
	}
}
