package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "gazeink/internal/platform/errors"
)

type Screen struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// Cell is the size of one terminal cell in CSS pixels.
type Cell struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

type Pen struct {
	Color     string  `mapstructure:"color"`
	Thickness float64 `mapstructure:"thickness"`
}

// Gaze selects the estimator. An empty Plugin uses the built-in synthetic
// sweep.
type Gaze struct {
	Plugin     string `mapstructure:"plugin"`
	SHA256     string `mapstructure:"sha256"`
	IntervalMS int    `mapstructure:"interval_ms"`
}

type Config struct {
	ParticipantID    string  `mapstructure:"participant_id"`
	OutputDir        string  `mapstructure:"output_dir"`
	DBPath           string  `mapstructure:"db_path"`
	UserAgent        string  `mapstructure:"user_agent"`
	DevicePixelRatio float64 `mapstructure:"device_pixel_ratio"`
	Strict           bool    `mapstructure:"strict"`
	LogLevel         string  `mapstructure:"log_level"`
	Screen           Screen  `mapstructure:"screen"`
	Cell             Cell    `mapstructure:"cell"`
	Pen              Pen     `mapstructure:"pen"`
	Gaze             Gaze    `mapstructure:"gaze"`
}

// Load reads an optional YAML file and GAZEINK_* environment overrides on top
// of built-in defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("gazeink")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("participant_id", "")
	v.SetDefault("output_dir", "sessions")
	v.SetDefault("db_path", "")
	v.SetDefault("user_agent", "gazeink-terminal")
	v.SetDefault("device_pixel_ratio", 2.0)
	v.SetDefault("strict", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("screen.width", 1280.0)
	v.SetDefault("screen.height", 800.0)
	v.SetDefault("cell.width", 8.0)
	v.SetDefault("cell.height", 16.0)
	v.SetDefault("pen.color", "#000000")
	v.SetDefault("pen.thickness", 3.0)
	v.SetDefault("gaze.plugin", "")
	v.SetDefault("gaze.sha256", "")
	v.SetDefault("gaze.interval_ms", 33)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output dir is required", apperrors.ErrInvalidInput)
	}
	if c.DevicePixelRatio <= 0 {
		return fmt.Errorf("%w: device pixel ratio must be positive", apperrors.ErrInvalidInput)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen size must be positive", apperrors.ErrInvalidInput)
	}
	if c.Cell.Width <= 0 || c.Cell.Height <= 0 {
		return fmt.Errorf("%w: cell size must be positive", apperrors.ErrInvalidInput)
	}
	if c.Pen.Thickness <= 0 {
		return fmt.Errorf("%w: pen thickness must be positive", apperrors.ErrInvalidInput)
	}
	if c.Gaze.IntervalMS <= 0 {
		return fmt.Errorf("%w: gaze interval must be positive", apperrors.ErrInvalidInput)
	}
	return nil
}

// ArchivePath resolves the SQLite archive location, defaulting to a file in
// the output directory.
func (c Config) ArchivePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.OutputDir, "gazeink.db")
}
