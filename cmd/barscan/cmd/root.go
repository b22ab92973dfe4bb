package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/barscan/internal/config"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// errScanFailed is returned when the scanner could not start. Details have
// already been logged.
var errScanFailed = errors.New("scanner failed to start")

// rootCmd scans from the camera when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "barscan",
	Short: "Real-time barcode and QR code scanner for a local camera",
	Long: `barscan reads frames from a local camera, decodes QR codes and linear
barcodes in real time and shows the annotated video in a window.

Each decoded symbol is printed on standard output as
  Barcode Data: <payload> | Type: <symbology>
Press q in the video window (or send SIGINT) to stop.

Examples:
  barscan
  barscan --device 1 --formats qr,ean13,code128
  barscan --display headless --metrics-addr :9464`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init and version must work even when the current configuration is broken
		return initConfig(cmd != configInitCmd && cmd != versionCmd)
	},
	RunE: runScan,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is search in ., $HOME, $HOME/.config/barscan, /etc/barscan)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", pf.Lookup("log-format"))

	addScanFlags(rootCmd)
}

// initConfig resolves file, environment and flags into globalConfig.
func initConfig(validate bool) error {
	configLoader = config.NewLoader()

	var err error
	if validate {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.LoadWithFileWithoutValidation(cfgFile)
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	return nil
}
