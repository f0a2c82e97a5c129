// Package config loads daybook settings from config.yaml, DAYBOOK_* environment
// variables and built-in defaults, in increasing order of precedence: defaults, file, env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. DAYBOOK_LOG_LEVEL.
const EnvPrefix = "DAYBOOK"

// DefaultReviewIntervals are the day offsets of the five-step review ladder.
var DefaultReviewIntervals = []int{1, 3, 7, 14, 30}

// Config is the resolved configuration.
type Config struct {
	DataDir string       `mapstructure:"data_dir"`
	Log     LogConfig    `mapstructure:"log"`
	Agenda  AgendaConfig `mapstructure:"agenda"`
	Focus   FocusConfig  `mapstructure:"focus"`
	Notify  NotifyConfig `mapstructure:"notify"`
	MCP     MCPConfig    `mapstructure:"mcp"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AgendaConfig struct {
	OverdueScope    string `mapstructure:"overdue_scope"`
	ReviewIntervals []int  `mapstructure:"review_intervals"`
}

type FocusConfig struct {
	DefaultMinutes int `mapstructure:"default_minutes"`
}

type NotifyConfig struct {
	SummaryCron string         `mapstructure:"summary_cron"`
	Telegram    TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Enabled reports whether both token and chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type MCPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Options tweak Load. Empty fields fall back to the usual search.
type Options struct {
	// ConfigFile points at an explicit config file.
	ConfigFile string
	// DataDir overrides data_dir from every other source.
	DataDir string
}

// Load reads configuration. A missing config file is not an error.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("data_dir", EnvPrefix+"_DIR"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	if opts.ConfigFile != "" {
		path, err := homedir.Expand(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if override := os.Getenv(EnvPrefix + "_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	dir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("expanding data_dir: %w", err)
	}
	cfg.DataDir = filepath.Clean(dir)

	if len(cfg.Agenda.ReviewIntervals) == 0 {
		cfg.Agenda.ReviewIntervals = DefaultReviewIntervals
	}
	if cfg.Focus.DefaultMinutes <= 0 {
		cfg.Focus.DefaultMinutes = 25
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("agenda.overdue_scope", "agenda")
	v.SetDefault("agenda.review_intervals", DefaultReviewIntervals)
	v.SetDefault("focus.default_minutes", 25)
	v.SetDefault("notify.summary_cron", "0 21 * * *")
	v.SetDefault("notify.telegram.token", "")
	v.SetDefault("notify.telegram.chat_id", 0)
	v.SetDefault("mcp.addr", "127.0.0.1:8080")
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "logs", "daybook.log")
}
