// Package support holds the godog step definitions for the scan feature
// suite. Scenarios run the scanner in-process against scripted frames.
package support

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/barscan/internal/app"
	"github.com/MeKo-Tech/barscan/internal/config"
	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/scanner"
	"github.com/MeKo-Tech/barscan/internal/testutil"
)

// TestContext holds the state of one scenario.
type TestContext struct {
	Config    config.Config
	Source    *testutil.FakeSource
	Presenter *testutil.RecordingPresenter
	OpenErr   error

	Stdout   bytes.Buffer
	Logs     bytes.Buffer
	ExitCode int
	Ran      bool
}

// NewTestContext returns a scenario context with the default configuration
// and an empty camera.
func NewTestContext() *TestContext {
	return &TestContext{
		Config:    config.DefaultConfig(),
		Source:    &testutil.FakeSource{},
		Presenter: &testutil.RecordingPresenter{Render: true},
	}
}

func (tc *TestContext) open(context.Context) (scanner.FrameSource, error) {
	if tc.OpenErr != nil {
		return nil, tc.OpenErr
	}
	return tc.Source, nil
}

// Run executes the scanner once with the scenario setup.
func (tc *TestContext) Run(ctx context.Context) error {
	if err := tc.Config.Validate(); err != nil {
		return fmt.Errorf("scenario configuration: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(&tc.Logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tc.ExitCode = app.Run(ctx, &tc.Config, app.Deps{
		Open:      tc.open,
		Presenter: tc.Presenter,
		Stdout:    &tc.Stdout,
		Logger:    logger,
	})
	tc.Ran = true
	return nil
}

func (tc *TestContext) addFrame(f *frame.Frame, err error) error {
	if err != nil {
		return fmt.Errorf("rendering fixture: %w", err)
	}
	tc.Source.Frames = append(tc.Source.Frames, f)
	return nil
}
