package fetchers

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"laborviz/internal/models"
)

// Resource names, used as cache keys and in FetchError
const (
	ResourceDataset      = "dataset"
	ResourceCorrelations = "correlations"
	ResourceMetadata     = "metadata"
	ResourceTimeSeries   = "timeseries"
)

// Source is a transport that can retrieve each resource in full.
// Sources do not cache; DataAccess does.
type Source interface {
	Name() string
	FetchDataset(ctx context.Context) (models.Dataset, error)
	FetchCorrelations(ctx context.Context) (models.Correlations, error)
	FetchMetadata(ctx context.Context) (models.Metadata, error)
	FetchTimeSeries(ctx context.Context) (json.RawMessage, error)
}

// DefaultLocalAPI is the development backend address
const DefaultLocalAPI = "http://localhost:5001/api"

// ResolveBaseURL picks the API base: an explicit override wins, a
// localhost origin maps to the development backend, and anything else
// uses the same origin's /api path.
func ResolveBaseURL(override, origin string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return DefaultLocalAPI
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return DefaultLocalAPI
	}
	return u.Scheme + "://" + u.Host + "/api"
}
