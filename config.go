package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"splashgate/internal/startup"
)

const (
	KeyLogLevel          = "logLevel"
	KeySplashMinDuration = "splash.minDuration"
	KeySplashTitle       = "splash.title"
	KeySplashText        = "splash.text"
	KeyReadyEvent        = "events.ready"
	KeyWindowWidth       = "window.width"
	KeyWindowHeight      = "window.height"
	KeyHistoryEnabled    = "history.enabled"
	KeyHistoryKeep       = "history.keep"

	envPrefix = "SPLASHGATE"
)

const (
	defaultWindowWidth  = 1000
	defaultWindowHeight = 700
	defaultHistoryKeep  = 50
)

// AppConfig holds all persistent user settings.
type AppConfig struct {
	LogLevel          string
	SplashMinDuration time.Duration
	SplashTitle       string
	SplashText        string
	ReadyEvent        string
	WindowWidth       int
	WindowHeight      int
	HistoryEnabled    bool
	HistoryKeep       int
}

var (
	appDataDir     string
	appDataDirOnce sync.Once
)

// DefaultConfig returns config with default values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		LogLevel:          "error",
		SplashMinDuration: startup.DefaultMinDuration,
		SplashTitle:       AppTitle,
		SplashText:        "正在启动...",
		ReadyEvent:        EventFrontendReady,
		WindowWidth:       defaultWindowWidth,
		WindowHeight:      defaultWindowHeight,
		HistoryEnabled:    true,
		HistoryKeep:       defaultHistoryKeep,
	}
}

// AppDataDir returns the path to ~/.splashgate/, creating it if needed.
func AppDataDir() string {
	appDataDirOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			// Fallback to exe directory
			if exe, err2 := os.Executable(); err2 == nil {
				appDataDir = filepath.Dir(exe)
			} else {
				appDataDir = "."
			}
			return
		}
		appDataDir = filepath.Join(home, ".splashgate")
		os.MkdirAll(appDataDir, 0755)
	})
	return appDataDir
}

// DataPath returns the full path for a file inside the data directory.
func DataPath(elem ...string) string {
	parts := append([]string{AppDataDir()}, elem...)
	return filepath.Join(parts...)
}

// configPath returns the config file path.
func configPath() string {
	return DataPath("config.json")
}

func newConfigViper(path string) *viper.Viper {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeySplashMinDuration, def.SplashMinDuration.String())
	v.SetDefault(KeySplashTitle, def.SplashTitle)
	v.SetDefault(KeySplashText, def.SplashText)
	v.SetDefault(KeyReadyEvent, def.ReadyEvent)
	v.SetDefault(KeyWindowWidth, def.WindowWidth)
	v.SetDefault(KeyWindowHeight, def.WindowHeight)
	v.SetDefault(KeyHistoryEnabled, def.HistoryEnabled)
	v.SetDefault(KeyHistoryKeep, def.HistoryKeep)
	return v
}

// LoadConfig reads config from ~/.splashgate/config.json, with SPLASHGATE_*
// environment overrides. Returns defaults if the file doesn't exist.
func LoadConfig() *AppConfig {
	return loadConfigFile(configPath())
}

func loadConfigFile(path string) *AppConfig {
	v := newConfigViper(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			Log.Error("配置文件解析失败，使用默认配置", "path", path, "error", err)
			v = newConfigViper(path)
		}
	}
	return configFromViper(v)
}

func configFromViper(v *viper.Viper) *AppConfig {
	def := DefaultConfig()
	cfg := &AppConfig{
		LogLevel:       v.GetString(KeyLogLevel),
		SplashTitle:    v.GetString(KeySplashTitle),
		SplashText:     v.GetString(KeySplashText),
		ReadyEvent:     strings.TrimSpace(v.GetString(KeyReadyEvent)),
		WindowWidth:    v.GetInt(KeyWindowWidth),
		WindowHeight:   v.GetInt(KeyWindowHeight),
		HistoryEnabled: v.GetBool(KeyHistoryEnabled),
		HistoryKeep:    v.GetInt(KeyHistoryKeep),
	}

	d, err := parseMinDuration(v.GetString(KeySplashMinDuration))
	if err != nil {
		Log.Error("splash.minDuration 无效，使用默认值", "value", v.GetString(KeySplashMinDuration), "error", err)
		d = def.SplashMinDuration
	}
	cfg.SplashMinDuration = d

	if cfg.ReadyEvent == "" {
		cfg.ReadyEvent = def.ReadyEvent
	}
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = def.WindowWidth
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = def.WindowHeight
	}
	if cfg.HistoryKeep <= 0 {
		cfg.HistoryKeep = def.HistoryKeep
	}
	return cfg
}

// parseMinDuration accepts a Go duration ("2.5s") or a bare number of
// milliseconds. Negative values clamp to zero.
func parseMinDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	d, err := time.ParseDuration(s)
	if err != nil {
		ms, convErr := strconv.ParseInt(s, 10, 64)
		if convErr != nil {
			return 0, err
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if d < 0 {
		d = 0
	}
	return d, nil
}

// SaveConfig writes the config to ~/.splashgate/config.json.
func SaveConfig(cfg *AppConfig) error {
	return saveConfigFile(configPath(), cfg)
}

func saveConfigFile(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.Set(KeyLogLevel, cfg.LogLevel)
	v.Set(KeySplashMinDuration, cfg.SplashMinDuration.String())
	v.Set(KeySplashTitle, cfg.SplashTitle)
	v.Set(KeySplashText, cfg.SplashText)
	v.Set(KeyReadyEvent, cfg.ReadyEvent)
	v.Set(KeyWindowWidth, cfg.WindowWidth)
	v.Set(KeyWindowHeight, cfg.WindowHeight)
	v.Set(KeyHistoryEnabled, cfg.HistoryEnabled)
	v.Set(KeyHistoryKeep, cfg.HistoryKeep)
	return v.WriteConfigAs(path)
}
