// Package app assembles a scan loop from configuration. It holds everything
// between the command line and the device-bound backends, so it builds and
// tests without cgo.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/barscan/internal/barcode"
	"github.com/MeKo-Tech/barscan/internal/config"
	"github.com/MeKo-Tech/barscan/internal/metrics"
	"github.com/MeKo-Tech/barscan/internal/scanner"
)

// Exit codes returned by Run.
const (
	ExitOK   = 0
	ExitInit = 1
)

// Deps are the device-bound parts supplied by the caller.
type Deps struct {
	Open      scanner.OpenFunc
	Presenter scanner.Presenter
	// Stdout receives the console lines; os.Stdout when nil.
	Stdout io.Writer
	Logger *slog.Logger
}

// ScannerOptions converts a validated configuration into loop options.
func ScannerOptions(cfg *config.Config) (scanner.Options, error) {
	hints, err := cfg.Hints()
	if err != nil {
		return scanner.Options{}, err
	}
	style, err := cfg.Style()
	if err != nil {
		return scanner.Options{}, err
	}
	return scanner.Options{
		WindowTitle:    cfg.Display.WindowTitle,
		QuitKey:        cfg.QuitRune(),
		Wait:           cfg.Wait(),
		AdaptivePacing: cfg.Display.AdaptivePacing,
		Hints:          hints,
		Origin:         cfg.Origin(),
		Style:          style,
		AnchorOverlay:  cfg.Overlay.Anchor,
	}, nil
}

// NewLogger builds the diagnostic logger. Verbose forces debug level.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	if cfg.Verbose {
		opts.Level = slog.LevelDebug
	}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a configured level name to slog, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Run scans until the loop stops and returns the process exit code.
func Run(ctx context.Context, cfg *config.Config, deps Deps) int {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := ScannerOptions(cfg)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return ExitInit
	}

	loopOpts := []scanner.Option{
		scanner.WithLogger(logger),
		scanner.WithConsole(scanner.NewConsole(deps.Stdout)),
	}

	if cfg.Metrics.Addr != "" {
		m := metrics.New()
		loopOpts = append(loopOpts, scanner.WithRecorder(m))

		mctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := m.Serve(mctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Warn("metrics listener stopped", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
	}

	loop := scanner.New(deps.Open, barcode.NewDecoder(logger), deps.Presenter, opts, loopOpts...)
	if err := loop.Run(ctx); err != nil {
		logger.Error("scanner failed to start", "error", err)
		return ExitInit
	}
	return ExitOK
}
