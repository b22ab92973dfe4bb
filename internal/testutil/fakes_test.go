package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

func TestFakeSourceReplays(t *testing.T) {
	boom := errors.New("boom")
	s := &FakeSource{
		Frames: []*frame.Frame{WhiteFrame(), nil, WhiteFrame()},
		Errs:   map[int]error{2: boom},
	}
	f, err := s.Read()
	require.NoError(t, err)
	assert.False(t, f.Empty())

	f, err = s.Read()
	require.NoError(t, err)
	assert.True(t, f.Empty())

	_, err = s.Read()
	assert.ErrorIs(t, err, boom)

	_, err = s.Read()
	assert.ErrorIs(t, err, frame.ErrEndOfStream)
	assert.Equal(t, 4, s.Reads)
}

func TestRecordingPresenterQuit(t *testing.T) {
	p := &RecordingPresenter{QuitAfter: 2, Keys: []int{'x'}}
	require.NoError(t, p.Open("w"))

	f := WhiteFrame()
	require.NoError(t, p.Show("w", f))
	assert.Equal(t, int('x'), p.WaitKey(30))
	require.NoError(t, p.Show("w", f))
	assert.Equal(t, int('q'), p.WaitKey(30))
	assert.Equal(t, []int{30, 30}, p.Waits)
}

func TestRecordingPresenterRender(t *testing.T) {
	p := &RecordingPresenter{Render: true}
	f := WhiteFrame()
	p.DrawOverlay(f, "text", overlay.DefaultOrigin, overlay.DefaultStyle())
	require.Len(t, p.Overlays, 1)
	assert.NotEqual(t, WhiteFrame().Pix, f.Pix)
}
