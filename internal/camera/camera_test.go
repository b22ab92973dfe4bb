package camera

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 0, o.Device)
	assert.Positive(t, o.MaxReadFailures)
}

func TestOpenRejectsNegativeDevice(t *testing.T) {
	_, err := Open(Options{Device: -1}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceUnavailable))
}

// Requires a real camera; enable with BARSCAN_CAMERA_TEST=1.
func TestReadFromDevice(t *testing.T) {
	if os.Getenv("BARSCAN_CAMERA_TEST") == "" {
		t.Skip("set BARSCAN_CAMERA_TEST=1 to run against a camera")
	}
	src, err := Open(DefaultOptions(), nil)
	require.NoError(t, err)
	defer src.Close()

	f, err := src.Read()
	require.NoError(t, err)
	if !f.Empty() {
		assert.NoError(t, f.Validate())
	}
	require.NoError(t, src.Close())
	_, err = src.Read()
	assert.ErrorIs(t, err, ErrEndOfStream)
}
