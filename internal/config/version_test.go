package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetVersionFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		envVersion string
	}{
		{name: "plain semver", envVersion: "1.2.3"},
		{name: "pre-release", envVersion: "2.0.0-beta.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_VERSION", tt.envVersion)

			if got := GetVersion(); got != tt.envVersion {
				t.Errorf("Expected version '%s', got '%s'", tt.envVersion, got)
			}
		})
	}
}

func TestGetVersionWithoutEnv(t *testing.T) {
	t.Setenv("APP_VERSION", "")

	version := GetVersion()
	if !strings.Contains(version, ".") {
		t.Errorf("Expected version to contain '.', got '%s'", version)
	}
	if version[0] < '0' || version[0] > '9' {
		t.Errorf("Expected version to start with a digit, got '%s'", version)
	}
}

func TestReadVersionFile(t *testing.T) {
	empty := t.TempDir()
	withFile := t.TempDir()
	if err := os.WriteFile(filepath.Join(withFile, "VERSION"), []byte("1.5.0\n"), 0644); err != nil {
		t.Fatalf("Failed to create VERSION file: %v", err)
	}
	blank := t.TempDir()
	if err := os.WriteFile(filepath.Join(blank, "VERSION"), []byte("  \n"), 0644); err != nil {
		t.Fatalf("Failed to create VERSION file: %v", err)
	}

	tests := []struct {
		name string
		dirs []string
		want string
	}{
		{name: "first match wins", dirs: []string{empty, withFile}, want: "1.5.0"},
		{name: "blank file is skipped", dirs: []string{blank, withFile}, want: "1.5.0"},
		{name: "fallback", dirs: []string{empty}, want: fallbackVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := readVersionFile(tt.dirs...); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}
