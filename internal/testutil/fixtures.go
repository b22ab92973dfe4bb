package testutil

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/barscan/internal/frame"
)

// FrameFixture describes a synthetic frame and the console lines the scanner
// prints for it with default settings.
type FrameFixture struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	InputFile   string   `json:"input_file"`
	Expected    []string `json:"expected_lines"`

	render func() (*frame.Frame, error) `json:"-"`
}

// Render builds the fixture frame.
func (f FrameFixture) Render() (*frame.Frame, error) { return f.render() }

// SeedFixtures lists the frames used by the end-to-end scenarios.
func SeedFixtures() []FrameFixture {
	return []FrameFixture{
		{
			Name:        "blank_white",
			Description: "Uniform white frame without any symbol",
			InputFile:   "frames/blank_white.png",
			render:      func() (*frame.Frame, error) { return WhiteFrame(), nil },
		},
		{
			Name:        "qr_example",
			Description: "QR code for " + QRPayload,
			InputFile:   "frames/qr_example.png",
			Expected:    []string{"Barcode Data: " + QRPayload + " | Type: QR_CODE"},
			render:      func() (*frame.Frame, error) { return QRFrame(QRPayload) },
		},
		{
			Name:        "qr_rotated_180",
			Description: "QR code turned upside down",
			InputFile:   "frames/qr_rotated_180.png",
			Expected:    []string{"Barcode Data: " + QRPayload + " | Type: QR_CODE"},
			render:      func() (*frame.Frame, error) { return RotatedQRFrame(QRPayload) },
		},
		{
			Name:        "ean13",
			Description: "EAN-13 retail barcode",
			InputFile:   "frames/ean13.png",
			Expected:    []string{"Barcode Data: " + EAN13Payload + " | Type: EAN_13"},
			render:      func() (*frame.Frame, error) { return EAN13Frame(EAN13Payload) },
		},
		{
			Name:        "code128_filtered",
			Description: "Code-128 symbol, not decoded with the default formats",
			InputFile:   "frames/code128_filtered.png",
			render:      func() (*frame.Frame, error) { return Code128Frame(Code128Payload) },
		},
		{
			Name:        "mixed_qr_ean13",
			Description: "QR code and an EAN-13 symbol in one frame; the QR code covers the larger area",
			InputFile:   "frames/mixed_qr_ean13.png",
			Expected:    []string{"Barcode Data: " + QRPayload + " | Type: QR_CODE"},
			render:      func() (*frame.Frame, error) { return MixedFrame(QRPayload, EAN13Payload) },
		},
	}
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o750)
}

// SaveFramePNG writes a frame as PNG, creating parent directories.
func SaveFramePNG(f *frame.Frame, path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	file, err := os.Create(path) //nolint:gosec // G304: fixture paths are chosen by the caller
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(file, f.ToRGBA()); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
