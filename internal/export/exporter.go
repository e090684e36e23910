package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru"

	"laborviz/internal/canvas"
	"laborviz/internal/charts"
	"laborviz/internal/logger"
	"laborviz/internal/storage"
)

// exportsRoot is the storage folder exported images are written under
const exportsRoot = "exports"

var (
	// ErrChartNotFound is returned when no chart is mounted under an id
	ErrChartNotFound = errors.New("chart not found")
	// ErrNotRendered is returned for a chart that has never been drawn
	ErrNotRendered = errors.New("chart has not been rendered")
	// ErrNoStorage is returned by Store when the exporter has no sink
	ErrNoStorage = errors.New("no export storage configured")
)

// Registry resolves chart container ids to their renderers
type Registry interface {
	Lookup(chartID string) (*charts.Renderer, bool)
}

// Image is one encoded chart
type Image struct {
	ChartID  string
	Format   canvas.Format
	Filename string
	Data     []byte
}

// cacheKey identifies one drawing of one chart in one format
type cacheKey struct {
	renderer *charts.Renderer
	format   canvas.Format
	revision uint64
}

// Exporter encodes rendered charts as PNG or SVG images
type Exporter struct {
	registry Registry
	store    storage.StorageClient
	cache    *lru.Cache
	now      func() time.Time
	log      *logger.Logger
}

// NewExporter creates an exporter. store may be nil, in which case Store
// fails with ErrNoStorage.
func NewExporter(registry Registry, store storage.StorageClient, cacheSize int) (*Exporter, error) {
	if cacheSize <= 0 {
		cacheSize = 32
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create export cache: %w", err)
	}
	return &Exporter{
		registry: registry,
		store:    store,
		cache:    cache,
		now:      time.Now,
		log:      logger.Component("export"),
	}, nil
}

// Filename is the default download name for an image exported now
func (e *Exporter) Filename(format canvas.Format) string {
	return fmt.Sprintf("chart_%d.%s", e.now().UnixMilli(), format)
}

// Image encodes the chart mounted under chartID. Repeated calls for an
// unchanged drawing are served from the cache.
func (e *Exporter) Image(chartID, formatName string) (*Image, error) {
	format, err := canvas.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	r, ok := e.registry.Lookup(chartID)
	if !ok || r == nil {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, chartID)
	}
	if r.State() != charts.StateReady {
		return nil, fmt.Errorf("%w: %s", ErrNotRendered, chartID)
	}

	img := &Image{ChartID: chartID, Format: format, Filename: e.Filename(format)}

	key := cacheKey{renderer: r, format: format, revision: r.Revision()}
	if v, ok := e.cache.Get(key); ok {
		img.Data = v.([]byte)
		return img, nil
	}

	var buf bytes.Buffer
	if err := r.Encode(format, &buf); err != nil {
		return nil, fmt.Errorf("failed to encode %s as %s: %w", chartID, format, err)
	}
	img.Data = buf.Bytes()

	// a hover between reading the revision and encoding makes the bytes
	// belong to a later drawing
	if r.Revision() == key.revision {
		e.cache.Add(key, img.Data)
	}
	e.log.Debug("Chart encoded", map[string]interface{}{
		"chart":  chartID,
		"format": string(format),
		"size":   humanize.Bytes(uint64(len(img.Data))),
	})
	return img, nil
}

// Export writes the chart mounted under chartID to w. A missing chart or
// an unsupported format is logged and nothing is written.
func (e *Exporter) Export(w io.Writer, chartID, format string) bool {
	img, err := e.Image(chartID, format)
	if err != nil {
		e.log.Warn("Export skipped", map[string]interface{}{
			"chart":  chartID,
			"format": format,
			"error":  err.Error(),
		})
		return false
	}
	if _, err := w.Write(img.Data); err != nil {
		e.log.Error("Failed to write exported chart", err, map[string]interface{}{"chart": chartID})
		return false
	}
	return true
}

// Store encodes the chart and saves it under exports/YYYY/MM/DD. It
// returns the storage path of the new file.
func (e *Exporter) Store(ctx context.Context, chartID, format string) (string, error) {
	if e.store == nil {
		return "", ErrNoStorage
	}
	img, err := e.Image(chartID, format)
	if err != nil {
		return "", err
	}

	filePath := path.Join(exportsRoot, storage.GenerateDatedPath(e.now().UTC(), img.Filename))
	if err := e.store.StoreFile(ctx, filePath, img.Data); err != nil {
		return "", fmt.Errorf("failed to store export %s: %w", filePath, err)
	}

	e.log.Info("Chart exported", map[string]interface{}{
		"chart": chartID,
		"path":  filePath,
		"size":  humanize.Bytes(uint64(len(img.Data))),
	})
	return filePath, nil
}

// CacheLen reports how many encoded images are held
func (e *Exporter) CacheLen() int {
	return e.cache.Len()
}
