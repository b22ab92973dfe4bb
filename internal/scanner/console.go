package scanner

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/MeKo-Tech/barscan/internal/barcode"
)

// Console writes the user facing lines on standard output. Diagnostics go
// through slog instead.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole writes to w, or to os.Stdout when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

func (c *Console) println(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, format+"\n", args...)
}

// Decoded prints the decode line for r.
func (c *Console) Decoded(r *barcode.Result) {
	c.println("Barcode Data: %s | Type: %s", r.Text, r.Format)
}

// OpenFailed reports a device that could not be opened.
func (c *Console) OpenFailed() {
	c.println("Error opening video stream or file")
}

// EmptyFrame reports a frame without pixels.
func (c *Console) EmptyFrame() {
	c.println("Captured empty frame.")
}

// ConvertFailed reports a frame that could not be turned into luminance.
func (c *Console) ConvertFailed(err error) {
	c.println("Error converting frame: %v", err)
}

// DecodeFailed reports a decoder fault.
func (c *Console) DecodeFailed(err error) {
	c.println("Error scanning barcode: %v", err)
}

// Error reports any other failure inside an iteration.
func (c *Console) Error(err error) {
	c.println("An error occurred: %v", err)
}
