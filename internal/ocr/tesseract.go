package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"
)

type TesseractConfig struct {
	Language string        // tesseract language code; "en" is accepted as an alias for "eng"
	Timeout  time.Duration // bound per Detect call, default 30s
}

// Tesseract detects text lines using a gosseract client. The client is
// created lazily on first use; a tesseract client is not safe for concurrent
// use, so Detect serializes callers.
type Tesseract struct {
	cfg    TesseractConfig
	logger *slog.Logger

	once sync.Once
	mu   sync.Mutex
	cli  *gosseract.Client
	err  error
}

func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{cfg: cfg, logger: logger}
}

func (t *Tesseract) Detect(ctx context.Context, image []byte) ([]Line, error) {
	t.once.Do(func() {
		cli := gosseract.NewClient()
		if err := cli.SetLanguage(tesseractLang(t.cfg.Language)); err != nil {
			_ = cli.Close()
			t.err = fmt.Errorf("set language %q: %w", t.cfg.Language, err)
			return
		}
		t.cli = cli
		t.logger.Info("ocr.engine.ready", "language", tesseractLang(t.cfg.Language))
	})
	if t.err != nil {
		return nil, t.err
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	type outcome struct {
		lines []Line
		err   error
	}
	ch := make(chan outcome, 1)
	go func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		lines, err := t.detect(image)
		ch <- outcome{lines: lines, err: err}
	}()

	// The tesseract call itself cannot be interrupted; on timeout the caller
	// unblocks and the detection result is discarded.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-ch:
		return o.lines, o.err
	}
}

func (t *Tesseract) detect(image []byte) ([]Line, error) {
	start := time.Now()
	if err := t.cli.SetImageFromBytes(normalizeImage(image)); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := t.cli.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}
	lines := make([]Line, 0, len(boxes))
	for _, b := range boxes {
		lines = append(lines, Line{Text: b.Word, Confidence: b.Confidence / 100})
	}
	t.logger.Debug("ocr.engine.detect", "lines", len(lines), "elapsed_ms", time.Since(start).Milliseconds())
	return lines, nil
}

func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cli == nil {
		return nil
	}
	err := t.cli.Close()
	t.cli = nil
	return err
}

func tesseractLang(lang string) string {
	if lang == "en" {
		return "eng"
	}
	return lang
}
