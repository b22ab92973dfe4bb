//nolint:lll
package config

// Config is the complete barscan configuration. It is loaded from a
// configuration file, BARSCAN_ environment variables and command-line flags.
type Config struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Camera  CameraConfig  `mapstructure:"camera" yaml:"camera" json:"camera"`
	Decoder DecoderConfig `mapstructure:"decoder" yaml:"decoder" json:"decoder"`
	Display DisplayConfig `mapstructure:"display" yaml:"display" json:"display"`
	Overlay OverlayConfig `mapstructure:"overlay" yaml:"overlay" json:"overlay"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// CameraConfig selects the capture device. Zero width, height and fps keep
// the device defaults.
type CameraConfig struct {
	Device          int     `mapstructure:"device" yaml:"device" json:"device"`
	Width           int     `mapstructure:"width" yaml:"width" json:"width"`
	Height          int     `mapstructure:"height" yaml:"height" json:"height"`
	FPS             float64 `mapstructure:"fps" yaml:"fps" json:"fps"`
	MaxReadFailures int     `mapstructure:"max_read_failures" yaml:"max_read_failures" json:"max_read_failures"`
}

// DecoderConfig holds the decode hints.
type DecoderConfig struct {
	Formats     []string `mapstructure:"formats" yaml:"formats" json:"formats"`
	TryHarder   bool     `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	PureBarcode bool     `mapstructure:"pure_barcode" yaml:"pure_barcode" json:"pure_barcode"`
}

// DisplayConfig configures the presenter and loop pacing.
type DisplayConfig struct {
	Backend        string `mapstructure:"backend" yaml:"backend" json:"backend"`
	WindowTitle    string `mapstructure:"window_title" yaml:"window_title" json:"window_title"`
	QuitKey        string `mapstructure:"quit_key" yaml:"quit_key" json:"quit_key"`
	WaitMS         int    `mapstructure:"wait_ms" yaml:"wait_ms" json:"wait_ms"`
	AdaptivePacing bool   `mapstructure:"adaptive_pacing" yaml:"adaptive_pacing" json:"adaptive_pacing"`
}

// OverlayConfig describes the decoded text overlay.
type OverlayConfig struct {
	OriginX   int     `mapstructure:"origin_x" yaml:"origin_x" json:"origin_x"`
	OriginY   int     `mapstructure:"origin_y" yaml:"origin_y" json:"origin_y"`
	Color     string  `mapstructure:"color" yaml:"color" json:"color"`
	Scale     float64 `mapstructure:"scale" yaml:"scale" json:"scale"`
	Thickness int     `mapstructure:"thickness" yaml:"thickness" json:"thickness"`
	Anchor    bool    `mapstructure:"anchor" yaml:"anchor" json:"anchor"`
}

// MetricsConfig enables the Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}
