package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MeKo-Tech/barscan/internal/barcode"
	"github.com/MeKo-Tech/barscan/internal/display"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

// DefaultConfig reproduces the classic scanner: device 0, QR and EAN-13 with
// try-harder, window "Barcode Scanner", quit on q, 30 ms per frame and red
// text at (10, 50).
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Camera: CameraConfig{
			Device:          0,
			MaxReadFailures: 100,
		},
		Decoder: DecoderConfig{
			Formats:   []string{"qr", "ean13"},
			TryHarder: true,
		},
		Display: DisplayConfig{
			Backend:     display.BackendHighGUI,
			WindowTitle: "Barcode Scanner",
			QuitKey:     "q",
			WaitMS:      30,
		},
		Overlay: OverlayConfig{
			OriginX:   overlay.DefaultOrigin.X,
			OriginY:   overlay.DefaultOrigin.Y,
			Color:     "#FF0000",
			Scale:     1.0,
			Thickness: 2,
		},
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	validLogFormats := []string{"text", "json"}
	if c.LogFormat != "" && !contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}

	if c.Camera.Device < 0 {
		return fmt.Errorf("invalid camera device: %d (must not be negative)", c.Camera.Device)
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 || c.Camera.FPS < 0 {
		return fmt.Errorf("invalid camera mode %dx%d@%g (must not be negative)", c.Camera.Width, c.Camera.Height, c.Camera.FPS)
	}

	if _, err := c.Hints(); err != nil {
		return err
	}

	if _, err := display.ParseBackend(c.Display.Backend); err != nil {
		return err
	}
	if c.Display.WaitMS < 1 {
		return fmt.Errorf("invalid wait: %d ms (must be at least 1)", c.Display.WaitMS)
	}
	if utf8.RuneCountInString(c.Display.QuitKey) != 1 {
		return fmt.Errorf("invalid quit key %q (must be exactly one character)", c.Display.QuitKey)
	}

	if _, err := c.Style(); err != nil {
		return err
	}
	return nil
}

// Hints converts the decoder section into decode hints.
func (c *Config) Hints() (barcode.Hints, error) {
	formats, err := barcode.ParseFormats(c.Decoder.Formats)
	if err != nil {
		return barcode.Hints{}, fmt.Errorf("invalid decoder formats: %w", err)
	}
	if len(formats) == 0 {
		return barcode.Hints{}, fmt.Errorf("invalid decoder formats: %w", barcode.ErrNoFormats)
	}
	return barcode.Hints{
		TryHarder:       c.Decoder.TryHarder,
		PossibleFormats: formats,
		PureBarcode:     c.Decoder.PureBarcode,
	}, nil
}

// Style converts the overlay section into a text style.
func (c *Config) Style() (overlay.Style, error) {
	col, err := parseHexColor(c.Overlay.Color)
	if err != nil {
		return overlay.Style{}, fmt.Errorf("invalid overlay color: %w", err)
	}
	if c.Overlay.Scale <= 0 {
		return overlay.Style{}, fmt.Errorf("invalid overlay scale: %g (must be positive)", c.Overlay.Scale)
	}
	if c.Overlay.Thickness < 1 {
		return overlay.Style{}, fmt.Errorf("invalid overlay thickness: %d (must be at least 1)", c.Overlay.Thickness)
	}
	style := overlay.DefaultStyle()
	style.Color = col
	style.Scale = c.Overlay.Scale
	style.Thickness = c.Overlay.Thickness
	return style, nil
}

// Origin is the overlay text baseline start.
func (c *Config) Origin() image.Point {
	return image.Pt(c.Overlay.OriginX, c.Overlay.OriginY)
}

// QuitRune returns the quit key, or 'q' when unset.
func (c *Config) QuitRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Display.QuitKey)
	if r == utf8.RuneError {
		return 'q'
	}
	return r
}

// Wait is the per-frame key wait.
func (c *Config) Wait() time.Duration {
	return time.Duration(c.Display.WaitMS) * time.Millisecond
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

var errBadColor = errors.New("want #RRGGBB")

// parseHexColor accepts #RRGGBB with or without the leading hash.
func parseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
