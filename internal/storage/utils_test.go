package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"laborviz/internal/config"
)

func TestGenerateDatedPath(t *testing.T) {
	ts := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	if got := GenerateDatedPath(ts, "chart_1.png"); got != "2024/03/07/chart_1.png" {
		t.Errorf("Unexpected path: %s", got)
	}
}

func TestGetContentType(t *testing.T) {
	tests := map[string]string{
		"combined_dataset.json": "application/json",
		"chart.svg":             "image/svg+xml",
		"chart.PNG":             "image/png",
		"index.html":            "text/html",
		"blob":                  "application/octet-stream",
	}
	for name, want := range tests {
		if got := GetContentType(name); got != want {
			t.Errorf("GetContentType(%s) = %s, want %s", name, got, want)
		}
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"./data":   "data",
		"data/":    "data",
		"/exports": "exports",
		"a/b/../c": "a/c",
	}
	for in, want := range tests {
		if got := normalizePrefix(in); got != want {
			t.Errorf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewStorageClient(t *testing.T) {
	cfg := &config.Config{StorageMode: config.StorageLocal}
	client, err := NewStorageClient(context.Background(), cfg, filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("Failed to create local storage client: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*LocalStorageClient); !ok {
		t.Errorf("Expected LocalStorageClient, got %T", client)
	}

	cfg.StorageMode = "s3"
	if _, err := NewStorageClient(context.Background(), cfg, "data"); err == nil {
		t.Error("Expected error for unsupported mode")
	}
}
