package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// GenerateDatedPath places filename in a YYYY/MM/DD folder for timestamp
func GenerateDatedPath(timestamp time.Time, filename string) string {
	return fmt.Sprintf("%04d/%02d/%02d/%s",
		timestamp.Year(), timestamp.Month(), timestamp.Day(), filename)
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
