package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/akash-deepak-varma/AI-PADMD/internal/common"
	"github.com/akash-deepak-varma/AI-PADMD/internal/extract"
	"github.com/akash-deepak-varma/AI-PADMD/internal/llm"
	"github.com/akash-deepak-varma/AI-PADMD/internal/ocr"
	"github.com/akash-deepak-varma/AI-PADMD/internal/pipeline"
	"github.com/akash-deepak-varma/AI-PADMD/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	fs := ff.NewFlagSet("amountd")
	var (
		addr       = fs.StringLong("addr", cfg.Server.Addr, "HTTP listen address")
		ocrLang    = fs.StringLong("ocr-lang", cfg.OCR.Language, "tesseract language code")
		ocrTimeout = fs.DurationLong("ocr-timeout", cfg.OCR.Timeout, "per-call OCR timeout")
		provider   = fs.StringLong("llm", cfg.LLM.Provider, "model provider: 'ollama' or 'openai'")
		baseURL    = fs.StringLong("llm-url", cfg.LLM.BaseURL, "model API base URL")
		model      = fs.StringLong("llm-model", cfg.LLM.Model, "model name")
		llmTimeout = fs.DurationLong("llm-timeout", cfg.LLM.Timeout, "per-call model timeout")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("AMOUNTD")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg.Server.Addr = *addr
	cfg.OCR.Language = *ocrLang
	cfg.OCR.Timeout = *ocrTimeout
	cfg.LLM.Provider = *provider
	cfg.LLM.BaseURL = *baseURL
	cfg.LLM.Model = *model
	cfg.LLM.Timeout = *llmTimeout

	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "error", err)
		os.Exit(1)
	}

	completer, err := llm.New(llm.Config{
		Provider:    cfg.LLM.Provider,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Error("llm.init", "error", err)
		os.Exit(1)
	}

	engine := ocr.NewTesseract(ocr.TesseractConfig{
		Language: cfg.OCR.Language,
		Timeout:  cfg.OCR.Timeout,
	}, logger)
	defer engine.Close()

	orchestrator := pipeline.NewOrchestrator(
		ocr.NewAdapter(engine, logger),
		extract.NewPipeline(completer, logger),
		pipeline.Gate{MinConfidence: cfg.Pipeline.MinOCRConfidence},
		logger,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(orchestrator, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server.start", "addr", cfg.Server.Addr, "llm_provider", cfg.LLM.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server.listen", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server.shutdown", "error", err)
	}
	logger.Info("server.stop")
}
