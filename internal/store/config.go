package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyCurrentDir    = "currentDir"
	KeyTUIProfile    = "tui.profile"
	KeyTUIDateFormat = "tui.dateFormat"
	KeyTUIDebugLog   = "tui.debugLog"
)

// DefaultDateFormat renders picker values as d/m/y H:i.
const DefaultDateFormat = "02/01/06 15:04"

var configKeys = []string{KeyCurrentDir, KeyTUIProfile, KeyTUIDateFormat, KeyTUIDebugLog}

type GlobalConfig struct {
	// CurrentDir is the trip directory used when none is discovered from the working directory.
	CurrentDir string `mapstructure:"currentDir" json:"currentDir,omitempty"`

	TUI TUIConfig `mapstructure:"tui" json:"tui"`
}

type TUIConfig struct {
	// Profile is the appearance profile id (e.g. "default", "mono").
	Profile string `mapstructure:"profile" json:"profile,omitempty"`
	// DateFormat is a Go time layout for the date fields.
	DateFormat string `mapstructure:"dateFormat" json:"dateFormat,omitempty"`
	// DebugLog is a file path the TUI logs to. Empty disables logging.
	DebugLog string `mapstructure:"debugLog" json:"debugLog,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.waypoint).
	if v := strings.TrimSpace(os.Getenv("WAYPOINT_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".waypoint"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// newViper reads config.json. With env set, WAYPOINT_* variables override file values
// (tui.dateFormat => WAYPOINT_TUI_DATEFORMAT).
func newViper(env bool) (*viper.Viper, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault(KeyTUIProfile, "default")
	v.SetDefault(KeyTUIDateFormat, DefaultDateFormat)
	if env {
		v.SetEnvPrefix("WAYPOINT")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		_ = v.BindEnv(KeyTUIDebugLog, "WAYPOINT_TUI_DEBUGLOG", "WAYPOINT_DEBUG_LOG")
	}
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}
	return v, nil
}

func LoadConfig() (*GlobalConfig, error) {
	v, err := newViper(true)
	if err != nil {
		return nil, err
	}
	var cfg GlobalConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.TUI.DateFormat) == "" {
		cfg.TUI.DateFormat = DefaultDateFormat
	}
	return &cfg, nil
}

// ConfigValues returns every known key with its effective value.
func ConfigValues() (map[string]string, error) {
	v, err := newViper(true)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, k := range configKeys {
		out[k] = v.GetString(k)
	}
	return out, nil
}

func ConfigKeys() []string {
	out := append([]string(nil), configKeys...)
	sort.Strings(out)
	return out
}

// SetConfigValue writes one key to config.json. Environment overrides are not persisted.
func SetConfigValue(key, value string) error {
	key = strings.TrimSpace(key)
	known := false
	for _, k := range configKeys {
		if strings.EqualFold(k, key) {
			key = k
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown config key: %s (known: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	v, err := newViper(false)
	if err != nil {
		return err
	}
	v.Set(key, strings.TrimSpace(value))

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return v.WriteConfigAs(path)
}
