package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/barscan/internal/barcode"
	"github.com/MeKo-Tech/barscan/internal/binarizer"
	"github.com/MeKo-Tech/barscan/internal/common"
	"github.com/MeKo-Tech/barscan/internal/display"
	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/luminance"
)

// Loop is the scan loop. Run it once.
type Loop struct {
	open      OpenFunc
	decoder   Decoder
	presenter Presenter
	console   *Console
	recorder  Recorder
	logger    *slog.Logger
	opts      Options
	pacer     Pacer

	adapter luminance.Adapter

	mu    sync.Mutex
	stats Stats
}

// Option customises a Loop.
type Option func(*Loop)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithConsole sets where decode lines are printed.
func WithConsole(c *Console) Option {
	return func(l *Loop) {
		if c != nil {
			l.console = c
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) {
		if r != nil {
			l.recorder = r
		}
	}
}

// New builds a loop. Zero option fields fall back to DefaultOptions.
func New(open OpenFunc, decoder Decoder, presenter Presenter, opts Options, options ...Option) *Loop {
	def := DefaultOptions()
	if opts.WindowTitle == "" {
		opts.WindowTitle = def.WindowTitle
	}
	if opts.QuitKey == 0 {
		opts.QuitKey = def.QuitKey
	}
	if opts.Wait <= 0 {
		opts.Wait = def.Wait
	}
	if opts.Style.Thickness == 0 && opts.Style.Scale == 0 {
		opts.Style = def.Style
	}

	l := &Loop{
		open:      open,
		decoder:   decoder,
		presenter: presenter,
		console:   NewConsole(nil),
		recorder:  nopRecorder{},
		logger:    slog.Default(),
		opts:      opts,
		pacer:     Pacer{Budget: opts.Wait, Adaptive: opts.AdaptivePacing},
	}
	for _, o := range options {
		o(l)
	}
	return l
}

// Stats returns a snapshot of the loop state.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// State returns the current lifecycle state.
func (l *Loop) State() State { return l.Stats().State }

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.stats.State = s
	l.mu.Unlock()
}

// Run opens the source and the window and scans until the quit key, end of
// stream, a closed window or ctx cancellation. It returns an error only when
// initialisation fails; resources acquired by Run are always released.
func (l *Loop) Run(ctx context.Context) error {
	l.setState(StateInitializing)

	src, err := l.open(ctx)
	if err != nil {
		l.console.OpenFailed()
		l.setState(StateClosed)
		return fmt.Errorf("open frame source: %w", err)
	}
	if err := l.presenter.Open(l.opts.WindowTitle); err != nil {
		l.closeSource(src)
		l.setState(StateClosed)
		return fmt.Errorf("open window: %w", err)
	}

	l.setState(StateRunning)
	l.logger.Info("scanning",
		"window", l.opts.WindowTitle,
		"formats", formatNames(l.opts.Hints.PossibleFormats),
		"try_harder", l.opts.Hints.TryHarder,
		"wait_ms", l.pacer.Budget.Milliseconds(),
		"adaptive", l.pacer.Adaptive)

	defer l.shutdown(src)

	for {
		if err := ctx.Err(); err != nil {
			l.logger.Info("scan cancelled", "reason", err)
			return nil
		}
		if l.iterate(src) {
			return nil
		}
	}
}

func (l *Loop) shutdown(src FrameSource) {
	l.setState(StateTerminating)
	if err := l.presenter.Close(); err != nil {
		l.logger.Warn("closing window", "error", err)
	}
	l.closeSource(src)
	l.adapter.Release()
	l.setState(StateClosed)

	s := l.Stats()
	l.logger.Info("scanner stopped",
		"frames", s.FrameCount,
		"decodes", s.Decodes,
		"errors", s.Errors)
	l.logger.Debug("memory at shutdown", "mem", common.GetMemoryStats())
}

func (l *Loop) closeSource(src FrameSource) {
	if err := src.Close(); err != nil {
		l.logger.Warn("closing frame source", "error", err)
	}
}

// iterate runs one pass and reports whether the loop should stop.
func (l *Loop) iterate(src FrameSource) bool {
	timer := common.NewTimer()

	var f *frame.Frame
	err := safely(func() error {
		var err error
		f, err = src.Read()
		return err
	})
	l.recorder.ObserveStage("read", timer.Mark("read"))

	var outcome string
	switch {
	case errors.Is(err, frame.ErrEndOfStream):
		l.logger.Info("end of stream")
		return true
	case err != nil:
		l.console.Error(err)
		outcome = OutcomeUnexpected
	default:
		if perr := safely(func() error {
			outcome = l.process(f, timer)
			return nil
		}); perr != nil {
			l.console.Error(perr)
			outcome = OutcomeUnexpected
		}
	}

	if f != nil {
		if serr := safely(func() error { return l.presenter.Show(l.opts.WindowTitle, f) }); serr != nil {
			l.logger.Warn("show frame", "error", serr)
		}
		l.recorder.ObserveStage("present", timer.Mark("present"))
	}

	l.finish(outcome)
	l.recorder.ObserveStage("iteration", timer.Elapsed())

	key := display.KeyNone
	wait := l.pacer.Next(timer.Elapsed())
	if werr := safely(func() error {
		key = l.presenter.WaitKey(wait)
		return nil
	}); werr != nil {
		l.logger.Warn("wait key", "error", werr)
	}
	switch {
	case key == display.KeyClosed:
		l.logger.Info("window closed")
		return true
	case l.isQuitKey(key):
		l.logger.Info("quit key pressed")
		return true
	}
	return false
}

// process runs the decode pipeline on a non-nil frame and returns the outcome.
func (l *Loop) process(f *frame.Frame, timer *common.Timer) string {
	if f.Empty() {
		l.console.EmptyFrame()
		return OutcomeEmpty
	}

	lum, err := l.adapter.Convert(f)
	l.recorder.ObserveStage("luminance", timer.Mark("luminance"))
	if err != nil {
		l.console.ConvertFailed(err)
		if errors.Is(err, luminance.ErrUnsupportedFormat) {
			return OutcomeUnsupported
		}
		return OutcomeUnexpected
	}

	bm, err := binarizer.Binarize(lum)
	l.recorder.ObserveStage("binarize", timer.Mark("binarize"))
	if err != nil {
		l.console.Error(err)
		return OutcomeUnexpected
	}

	res, err := l.decoder.Decode(bm, l.opts.Hints)
	l.recorder.ObserveStage("decode", timer.Mark("decode"))
	if err != nil {
		l.logger.Warn("decode failed", "error", err)
		l.console.DecodeFailed(err)
		return OutcomeDecodeError
	}
	if res == nil {
		return OutcomeNotFound
	}

	l.console.Decoded(res)
	l.recorder.ObserveDecode(res.Format.String())
	l.logger.Debug("symbol", "format", res.Format.String(), "points", len(res.Points), "timing", timer.String())

	l.presenter.DrawOverlay(f, res.Text, l.opts.Origin, l.opts.Style)
	if l.opts.AnchorOverlay {
		if p, ok := res.Anchor(); ok {
			l.presenter.DrawOverlay(f, res.Text, image.Pt(int(p.X), int(p.Y)), l.opts.Style)
		}
	}

	l.mu.Lock()
	l.stats.LastResult = res
	l.stats.Decodes++
	l.mu.Unlock()
	return OutcomeDecoded
}

func (l *Loop) finish(outcome string) {
	l.mu.Lock()
	l.stats.FrameCount++
	switch outcome {
	case OutcomeUnsupported, OutcomeDecodeError, OutcomeUnexpected:
		l.stats.Errors++
	}
	l.mu.Unlock()
	l.recorder.ObserveFrame(outcome)
}

func (l *Loop) isQuitKey(key int) bool {
	if key < 0 {
		return false
	}
	q := int(l.opts.QuitKey)
	// some HighGUI builds report modifier state in the upper bits
	return key == q || key&0xff == q
}

// safely runs fn and turns a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func formatNames(formats []barcode.Format) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, f.String())
	}
	return out
}
