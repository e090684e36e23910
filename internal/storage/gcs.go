package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"laborviz/internal/logger"
)

// GCSClient stores files as objects in a Google Cloud Storage bucket,
// optionally below a fixed prefix.
type GCSClient struct {
	client *storage.Client
	bucket string
	prefix string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName, prefix string) (*GCSClient, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("GCS bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{
		client: client,
		bucket: bucketName,
		prefix: normalizePrefix(prefix),
		log:    logger.Component("storage.gcs"),
	}, nil
}

// normalizePrefix strips "./" and slashes so "./data/" becomes "data"
func normalizePrefix(prefix string) string {
	p := path.Clean("/" + strings.TrimPrefix(prefix, "."))
	return strings.Trim(p, "/")
}

func (g *GCSClient) objectName(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if g.prefix == "" {
		return p
	}
	if p == "" {
		return g.prefix
	}
	return g.prefix + "/" + p
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// CreateDir is a no-op: GCS has no directories, only object name prefixes
func (g *GCSClient) CreateDir(ctx context.Context, dirPath string) error {
	return nil
}

// StoreFile uploads fileData as an object
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	objectName := g.objectName(filePath)
	g.log.Debug("Storing file to GCS", map[string]interface{}{
		"object": fmt.Sprintf("gs://%s/%s", g.bucket, objectName),
		"bytes":  len(fileData),
	})

	writer := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = GetContentType(filePath)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
		"filename":     path.Base(filePath),
	}

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}
	return nil
}

// GetFile downloads an object
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	objectName := g.objectName(filePath)
	reader, err := g.client.Bucket(g.bucket).Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", g.bucket, objectName, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %s: %w", objectName, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", objectName, err)
	}
	return fileData, nil
}

// ListDir lists object paths (relative to the client prefix) under dirPath
func (g *GCSClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	prefix := g.objectName(dirPath)
	if prefix != "" {
		prefix += "/"
	}
	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, query)
	var files []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		// synthetic directory entries when a delimiter is set
		if attrs.Name == "" {
			continue
		}
		name := attrs.Name
		if g.prefix != "" {
			name = strings.TrimPrefix(name, g.prefix+"/")
		}
		files = append(files, name)
	}

	sort.Strings(files)
	return files, nil
}

// FileExists checks whether an object exists
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(g.objectName(filePath)).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}
