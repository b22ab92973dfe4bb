// Package display holds the presenter backends that show annotated frames and
// report key presses. The highgui and fyneui subpackages need cgo; the
// headless presenter in this package does not.
package display

import (
	"fmt"
	"strings"
)

// Key codes returned by WaitKey besides real key presses.
const (
	// KeyNone means the wait timed out without a key press.
	KeyNone = -1
	// KeyClosed means the window was closed by the user.
	KeyClosed = -2
)

// Backend names accepted by configuration.
const (
	BackendHighGUI  = "highgui"
	BackendFyne     = "fyne"
	BackendHeadless = "headless"
)

// Backends lists the supported presenter backends.
var Backends = []string{BackendHighGUI, BackendFyne, BackendHeadless}

// ParseBackend normalises a backend name.
func ParseBackend(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, b := range Backends {
		if n == b {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown display backend %q (want one of %s)", name, strings.Join(Backends, ", "))
}
