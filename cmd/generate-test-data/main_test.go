package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/testutil"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	fixtures := testutil.SeedFixtures()

	require.NoError(t, generateImagesTo(dir, fixtures))
	require.NoError(t, generateFixturesTo(filepath.Join(dir, "fixtures"), fixtures))

	for _, fx := range fixtures {
		assert.True(t, testutil.FileExists(filepath.Join(dir, fx.InputFile)), fx.InputFile)

		data, err := os.ReadFile(filepath.Join(dir, "fixtures", fx.Name+".json"))
		require.NoError(t, err)
		var got testutil.FrameFixture
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, fx.Name, got.Name)
		assert.Equal(t, fx.Expected, got.Expected)
	}
}
