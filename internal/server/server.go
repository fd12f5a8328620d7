// Package server exposes the thin HTTP surface over the orchestrator.
package server

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akash-deepak-varma/AI-PADMD/internal/pipeline"
)

// Extractor is what the handlers need from the orchestrator.
type Extractor interface {
	Extract(ctx context.Context, image []byte) pipeline.Trace
}

type stepwiseResponse struct {
	Pipeline []pipeline.StageRecord `json:"pipeline"`
	Problem  string                 `json:"problem,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// New builds the router. Everything past input validation answers 200 with a
// structured trace; failures inside the pipeline arrive as data, not status
// codes, so callers only ever read the problem/error fields.
func New(extractor Extractor, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "amount extractor API running"})
	})

	r.POST("/process_image_stepwise", processImageStepwise(extractor, logger))

	return r
}

func processImageStepwise(extractor Extractor, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil || !readableImage(data) {
			logger.Warn("server.upload.unreadable", "filename", header.Filename, "size", header.Size)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
			return
		}

		trace := extractor.Extract(c.Request.Context(), data)
		c.JSON(http.StatusOK, stepwiseResponse{
			Pipeline: trace.Records,
			Problem:  trace.Problem,
			Error:    trace.Err,
		})
	}
}

// readableImage rejects corrupt uploads before any OCR or model work begins.
func readableImage(data []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil
}
