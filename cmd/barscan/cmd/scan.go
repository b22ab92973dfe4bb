package cmd

import (
	"context"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/barscan/internal/app"
	"github.com/MeKo-Tech/barscan/internal/camera"
	"github.com/MeKo-Tech/barscan/internal/config"
	"github.com/MeKo-Tech/barscan/internal/display"
	"github.com/MeKo-Tech/barscan/internal/display/fyneui"
	"github.com/MeKo-Tech/barscan/internal/display/highgui"
	"github.com/MeKo-Tech/barscan/internal/scanner"
)

func addScanFlags(c *cobra.Command) {
	f := c.Flags()
	def := config.DefaultConfig()

	f.Int("device", def.Camera.Device, "camera device index")
	f.Int("width", 0, "requested frame width (0 keeps the device default)")
	f.Int("height", 0, "requested frame height (0 keeps the device default)")
	f.Float64("fps", 0, "requested frame rate (0 keeps the device default)")
	f.StringSlice("formats", def.Decoder.Formats, "symbologies to decode (qr, ean13, ean8, upca, upce, code128, code39, itf, codabar, datamatrix, aztec)")
	f.Bool("no-try-harder", false, "disable rotated, re-thresholded and pure-barcode retries")
	f.Bool("pure-barcode", false, "assume frames hold only a symbol without quiet zone")
	f.String("display", def.Display.Backend, "presenter backend (highgui, fyne, headless)")
	f.String("window-title", def.Display.WindowTitle, "video window title")
	f.String("quit-key", def.Display.QuitKey, "key that stops scanning")
	f.Int("wait-ms", def.Display.WaitMS, "per-frame key wait in milliseconds")
	f.Bool("adaptive-pacing", false, "subtract processing time from the per-frame wait")
	f.Bool("anchor-overlay", false, "also draw the payload at the symbol position")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address (disabled when empty)")

	for key, name := range map[string]string{
		"camera.device":           "device",
		"camera.width":            "width",
		"camera.height":           "height",
		"camera.fps":              "fps",
		"decoder.formats":         "formats",
		"decoder.pure_barcode":    "pure-barcode",
		"display.backend":         "display",
		"display.window_title":    "window-title",
		"display.quit_key":        "quit-key",
		"display.wait_ms":         "wait-ms",
		"display.adaptive_pacing": "adaptive-pacing",
		"overlay.anchor":          "anchor-overlay",
		"metrics.addr":            "metrics-addr",
	} {
		_ = viper.BindPFlag(key, f.Lookup(name))
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg := *globalConfig
	if noTry, _ := cmd.Flags().GetBool("no-try-harder"); noTry {
		cfg.Decoder.TryHarder = false
	}

	logger := app.NewLogger(&cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := app.Deps{
		Open:   cameraOpener(&cfg, logger),
		Stdout: cmd.OutOrStdout(),
		Logger: logger,
	}

	var code int
	backend, _ := display.ParseBackend(cfg.Display.Backend)
	switch backend {
	case display.BackendFyne:
		code = runFyne(ctx, &cfg, deps)
	case display.BackendHeadless:
		deps.Presenter = display.NewHeadless(logger)
		code = app.Run(ctx, &cfg, deps)
	default:
		deps.Presenter = highgui.New(logger)
		code = app.Run(ctx, &cfg, deps)
	}
	if code != app.ExitOK {
		return errScanFailed
	}
	return nil
}

// runFyne keeps the Fyne event loop on the calling goroutine and scans on
// another. Closing the presenter quits the event loop.
func runFyne(ctx context.Context, cfg *config.Config, deps app.Deps) int {
	size := image.Pt(cfg.Camera.Width, cfg.Camera.Height)
	p := fyneui.New(cfg.Display.WindowTitle, size, deps.Logger)
	deps.Presenter = p

	done := make(chan int, 1)
	go func() {
		code := app.Run(ctx, cfg, deps)
		_ = p.Close()
		done <- code
	}()
	p.Run()
	return <-done
}

func cameraOpener(cfg *config.Config, logger *slog.Logger) scanner.OpenFunc {
	opts := camera.Options{
		Device:          cfg.Camera.Device,
		Width:           cfg.Camera.Width,
		Height:          cfg.Camera.Height,
		FPS:             cfg.Camera.FPS,
		MaxReadFailures: cfg.Camera.MaxReadFailures,
	}
	return func(context.Context) (scanner.FrameSource, error) {
		src, err := camera.Open(opts, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}
