package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("WAYPOINT_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TUI.DateFormat != DefaultDateFormat {
		t.Fatalf("date format = %q", cfg.TUI.DateFormat)
	}
	if cfg.TUI.Profile != "default" {
		t.Fatalf("profile = %q", cfg.TUI.Profile)
	}
}

func TestConfig_SetThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WAYPOINT_CONFIG_DIR", dir)

	if err := SetConfigValue("tui.dateFormat", "2006-01-02 15:04"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}
	if err := SetConfigValue("currentdir", "/tmp/trip"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatalf("config.json not written: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TUI.DateFormat != "2006-01-02 15:04" {
		t.Fatalf("date format = %q", cfg.TUI.DateFormat)
	}
	if cfg.CurrentDir != "/tmp/trip" {
		t.Fatalf("current dir = %q", cfg.CurrentDir)
	}
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("WAYPOINT_CONFIG_DIR", t.TempDir())
	if err := SetConfigValue(KeyTUIProfile, "default"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}
	t.Setenv("WAYPOINT_TUI_PROFILE", "mono")
	t.Setenv("WAYPOINT_DEBUG_LOG", "/tmp/waypoint.log")

	vals, err := ConfigValues()
	if err != nil {
		t.Fatalf("ConfigValues: %v", err)
	}
	if vals[KeyTUIProfile] != "mono" {
		t.Fatalf("profile = %q, want env override", vals[KeyTUIProfile])
	}
	if vals[KeyTUIDebugLog] != "/tmp/waypoint.log" {
		t.Fatalf("debug log = %q", vals[KeyTUIDebugLog])
	}
}

func TestConfig_UnknownKey(t *testing.T) {
	t.Setenv("WAYPOINT_CONFIG_DIR", t.TempDir())

	err := SetConfigValue("tui.colour", "x")
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}
