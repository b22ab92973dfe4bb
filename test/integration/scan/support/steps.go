package support

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/testutil"
)

// RegisterSteps binds every step of the scan features.
func (tc *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the camera cannot be opened$`, tc.theCameraCannotBeOpened)
	sc.Step(`^the camera yields (\d+) uniform white frames$`, tc.theCameraYieldsWhiteFrames)
	sc.Step(`^the camera yields a frame with a QR code encoding "([^"]*)"$`, tc.theCameraYieldsQR)
	sc.Step(`^the camera yields a frame with a QR code encoding "([^"]*)" rotated 180 degrees$`, tc.theCameraYieldsRotatedQR)
	sc.Step(`^the camera yields a frame with an EAN-13 code "([^"]*)"$`, tc.theCameraYieldsEAN13)
	sc.Step(`^the camera yields a frame with a Code-128 code "([^"]*)"$`, tc.theCameraYieldsCode128)
	sc.Step(`^the decoder formats are "([^"]*)"$`, tc.theDecoderFormatsAre)
	sc.Step(`^try harder is (enabled|disabled)$`, tc.tryHarderIs)
	sc.Step(`^the user presses "(.)" after (\d+) frames$`, tc.theUserPressesAfter)

	sc.Step(`^the scanner runs$`, tc.theScannerRuns)

	sc.Step(`^the exit code is (\d+)$`, tc.theExitCodeIs)
	sc.Step(`^the exit code is not 0$`, tc.theExitCodeIsNotZero)
	sc.Step(`^the output contains "([^"]*)"$`, tc.theOutputContains)
	sc.Step(`^the output is exactly "([^"]*)"$`, tc.theOutputIsExactly)
	sc.Step(`^there are no decode lines$`, tc.thereAreNoDecodeLines)
	sc.Step(`^the window displayed (\d+) frames$`, tc.theWindowDisplayed)
	sc.Step(`^the overlay was drawn at (\d+), (\d+) in red$`, tc.theOverlayWasDrawnInRed)
	sc.Step(`^the camera was released$`, tc.theCameraWasReleased)
}

func (tc *TestContext) theCameraCannotBeOpened() error {
	tc.OpenErr = fmt.Errorf("%w: device 0", frame.ErrDeviceUnavailable)
	return nil
}

func (tc *TestContext) theCameraYieldsWhiteFrames(n int) error {
	for i := 0; i < n; i++ {
		tc.Source.Frames = append(tc.Source.Frames, testutil.WhiteFrame())
	}
	return nil
}

func (tc *TestContext) theCameraYieldsQR(text string) error {
	return tc.addFrame(testutil.QRFrame(text))
}

func (tc *TestContext) theCameraYieldsRotatedQR(text string) error {
	return tc.addFrame(testutil.RotatedQRFrame(text))
}

func (tc *TestContext) theCameraYieldsEAN13(code string) error {
	return tc.addFrame(testutil.EAN13Frame(code))
}

func (tc *TestContext) theCameraYieldsCode128(text string) error {
	return tc.addFrame(testutil.Code128Frame(text))
}

func (tc *TestContext) theDecoderFormatsAre(list string) error {
	tc.Config.Decoder.Formats = strings.Split(list, ",")
	return nil
}

func (tc *TestContext) tryHarderIs(state string) error {
	tc.Config.Decoder.TryHarder = state == "enabled"
	return nil
}

func (tc *TestContext) theUserPressesAfter(key string, n int) error {
	tc.Presenter.QuitKey = int(key[0])
	tc.Presenter.QuitAfter = n
	tc.Source.Endless = true
	return nil
}

func (tc *TestContext) theScannerRuns(ctx context.Context) error {
	return tc.Run(ctx)
}

func (tc *TestContext) requireRan() error {
	if !tc.Ran {
		return fmt.Errorf("the scanner has not run")
	}
	return nil
}

func (tc *TestContext) theExitCodeIs(code int) error {
	if err := tc.requireRan(); err != nil {
		return err
	}
	if tc.ExitCode != code {
		return fmt.Errorf("exit code %d, want %d\nlogs:\n%s", tc.ExitCode, code, tc.Logs.String())
	}
	return nil
}

func (tc *TestContext) theExitCodeIsNotZero() error {
	if err := tc.requireRan(); err != nil {
		return err
	}
	if tc.ExitCode == 0 {
		return fmt.Errorf("exit code 0, want non-zero")
	}
	return nil
}

func (tc *TestContext) theOutputContains(text string) error {
	if !strings.Contains(tc.Stdout.String(), text) {
		return fmt.Errorf("output %q does not contain %q", tc.Stdout.String(), text)
	}
	return nil
}

func (tc *TestContext) theOutputIsExactly(line string) error {
	if got := tc.Stdout.String(); got != line+"\n" {
		return fmt.Errorf("output %q, want exactly %q", got, line)
	}
	return nil
}

func (tc *TestContext) thereAreNoDecodeLines() error {
	if strings.Contains(tc.Stdout.String(), "Barcode Data:") {
		return fmt.Errorf("unexpected decode lines:\n%s", tc.Stdout.String())
	}
	return nil
}

func (tc *TestContext) theWindowDisplayed(n int) error {
	if got := len(tc.Presenter.Shown); got != n {
		return fmt.Errorf("window displayed %d frames, want %d", got, n)
	}
	return nil
}

// theOverlayWasDrawnInRed checks the recorded call and looks for pure red
// pixels in the text cell that starts at the baseline origin.
func (tc *TestContext) theOverlayWasDrawnInRed(x, y int) error {
	if len(tc.Presenter.Overlays) == 0 {
		return fmt.Errorf("no overlay was drawn")
	}
	call := tc.Presenter.Overlays[0]
	if call.Origin.X != x || call.Origin.Y != y {
		return fmt.Errorf("overlay at %v, want (%d, %d)", call.Origin, x, y)
	}
	if c := call.Style.Color; c.R != 0xff || c.G != 0 || c.B != 0 {
		return fmt.Errorf("overlay colour %v is not red", c)
	}

	shown := tc.Presenter.Shown[len(tc.Presenter.Shown)-1]
	for py := y - 14; py <= y+2; py++ {
		for px := x; px < x+24; px++ {
			if r, g, b := shown.RGB(px, py); r == 0xff && g == 0 && b == 0 {
				return nil
			}
		}
	}
	return fmt.Errorf("no red pixels near (%d, %d) in the displayed frame", x, y)
}

func (tc *TestContext) theCameraWasReleased() error {
	if tc.Source.Closes != 1 {
		return fmt.Errorf("camera closed %d times, want 1", tc.Source.Closes)
	}
	if tc.Presenter.Closed != 1 {
		return fmt.Errorf("window closed %d times, want 1", tc.Presenter.Closed)
	}
	return nil
}
