// Package camera reads frames from a capture device through OpenCV.
package camera

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/MeKo-Tech/barscan/internal/frame"
)

// Re-exported so callers need not import frame for error checks.
var (
	ErrDeviceUnavailable = frame.ErrDeviceUnavailable
	ErrEndOfStream       = frame.ErrEndOfStream
)

// Options selects and configures the capture device. Zero sizes and rates
// keep the device defaults.
type Options struct {
	Device int
	Width  int
	Height int
	FPS    float64
	// MaxReadFailures is the number of consecutive failed reads on an open
	// device after which the stream is treated as ended.
	MaxReadFailures int
}

// DefaultOptions opens device 0 at its native resolution.
func DefaultOptions() Options {
	return Options{Device: 0, MaxReadFailures: 100}
}

// Source is a frame source backed by a gocv VideoCapture. The returned frame
// is reused and overwritten by the next Read.
type Source struct {
	opts    Options
	logger  *slog.Logger
	capture *gocv.VideoCapture
	mat     gocv.Mat
	frame   frame.Frame

	failures int
	closed   bool
}

// Open acquires the capture device.
func Open(opts Options, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Device < 0 {
		return nil, fmt.Errorf("%w: invalid device index %d", ErrDeviceUnavailable, opts.Device)
	}
	capture, err := gocv.VideoCaptureDevice(opts.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %w", ErrDeviceUnavailable, opts.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: device %d did not open", ErrDeviceUnavailable, opts.Device)
	}

	if opts.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
	}
	if opts.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	}
	if opts.FPS > 0 {
		capture.Set(gocv.VideoCaptureFPS, opts.FPS)
	}
	if opts.MaxReadFailures <= 0 {
		opts.MaxReadFailures = DefaultOptions().MaxReadFailures
	}

	logger.Info("camera opened",
		"device", opts.Device,
		"width", capture.Get(gocv.VideoCaptureFrameWidth),
		"height", capture.Get(gocv.VideoCaptureFrameHeight),
		"fps", capture.Get(gocv.VideoCaptureFPS))

	return &Source{opts: opts, logger: logger, capture: capture, mat: gocv.NewMat()}, nil
}

// Read blocks for the next frame. A transient failure yields an empty frame;
// a closed device yields ErrEndOfStream.
func (s *Source) Read() (*frame.Frame, error) {
	if s.closed {
		return nil, ErrEndOfStream
	}
	if ok := s.capture.Read(&s.mat); !ok {
		if !s.capture.IsOpened() {
			return nil, ErrEndOfStream
		}
		s.failures++
		if s.failures > s.opts.MaxReadFailures {
			s.logger.Warn("camera stopped delivering frames", "failures", s.failures)
			return nil, ErrEndOfStream
		}
		s.frame.Reset(0, 0, 0, frame.OrderUnknown)
		return &s.frame, nil
	}
	s.failures = 0

	if s.mat.Empty() {
		s.frame.Reset(0, 0, 0, frame.OrderUnknown)
		return &s.frame, nil
	}
	ch := s.mat.Channels()
	s.frame.Reset(s.mat.Cols(), s.mat.Rows(), ch, frame.OrderForChannels(ch))
	copy(s.frame.Pix, s.mat.ToBytes())
	return &s.frame, nil
}

// Close releases the device. It is safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.mat.Close()
	s.capture.Close()
	s.logger.Info("camera released", "device", s.opts.Device)
	return nil
}
