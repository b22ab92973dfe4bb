package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/barscan/internal/config"
)

// execute runs the root command. Without an explicit --config it points the
// command at an empty file so earlier tests cannot leak configuration.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if !slices.Contains(args, "--config") {
		args = append(args, "--config", writeConfig(t, ""))
	}
	cmd := GetRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "barscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "barscan", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	for _, name := range []string{"device", "formats", "no-try-harder", "display", "quit-key", "wait-ms", "metrics-addr"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"config", "verbose", "log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCommandHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Barcode Data: <payload> | Type: <symbology>")
	assert.Contains(t, out, "Available Commands:")
}

func TestRootCommandSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "version")
}

func TestRootCommandRejectsArguments(t *testing.T) {
	_, err := execute(t, "image.png")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "barscan dev")
}

func TestConfigShow(t *testing.T) {
	path := writeConfig(t, "display:\n  window_title: Dock Scanner\ndecoder:\n  formats: [qr, code128]\n")

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# loaded from "+path)

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "Dock Scanner", shown.Display.WindowTitle)
	assert.Equal(t, []string{"qr", "code128"}, shown.Decoder.Formats)
	assert.Equal(t, 30, shown.Display.WaitMS)
}

func TestInvalidConfigIsRejectedBeforeScanning(t *testing.T) {
	path := writeConfig(t, "display:\n  wait_ms: 0\n")
	_, err := execute(t, "--config", path, "--display", "headless")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration to "+path)

	cfg, err := config.NewLoaderWithViper(viper.New()).LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), *cfg)

	_, err = execute(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--force", path)
	assert.NoError(t, err)
}
