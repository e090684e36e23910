package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"laborviz/internal/logger"
	"laborviz/internal/models"
)

// RESTSource reads resources from the dashboard REST API
type RESTSource struct {
	client  *resty.Client
	baseURL string
	log     *logger.Logger
}

// NewRESTSource creates a REST source. A zero timeout means requests may
// wait indefinitely. Requests are never retried.
func NewRESTSource(baseURL string, timeout time.Duration) *RESTSource {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")

	return &RESTSource{
		client:  client,
		baseURL: baseURL,
		log:     logger.Component("fetchers.rest"),
	}
}

// Name identifies the source in logs
func (s *RESTSource) Name() string {
	return "rest:" + s.baseURL
}

// get issues a GET and decodes a 200 response into target
func (s *RESTSource) get(ctx context.Context, resource, path string, target interface{}) error {
	url := s.baseURL + path
	start := time.Now()

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return newFetchError(resource, url, 0, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return newFetchError(resource, url, resp.StatusCode(), errors.New(http.StatusText(resp.StatusCode())))
	}
	if err := json.Unmarshal(resp.Body(), target); err != nil {
		return newFetchError(resource, url, resp.StatusCode(), err)
	}

	s.log.Debug("Fetched resource", map[string]interface{}{
		"resource": resource,
		"url":      url,
		"bytes":    len(resp.Body()),
		"elapsed":  time.Since(start).String(),
	})
	return nil
}

// FetchDataset retrieves the unfiltered dataset from /data
func (s *RESTSource) FetchDataset(ctx context.Context) (models.Dataset, error) {
	var payload struct {
		Data *models.Dataset `json:"data"`
	}
	if err := s.get(ctx, ResourceDataset, "/data", &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, newFetchError(ResourceDataset, s.baseURL+"/data", http.StatusOK, errors.New(`response has no "data" field`))
	}
	if err := payload.Data.Validate(); err != nil {
		return nil, newFetchError(ResourceDataset, s.baseURL+"/data", http.StatusOK, err)
	}
	return *payload.Data, nil
}

// FetchCorrelations retrieves every indicator's correlation from /correlation
func (s *RESTSource) FetchCorrelations(ctx context.Context) (models.Correlations, error) {
	var out models.Correlations
	if err := s.get(ctx, ResourceCorrelations, "/correlation", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchMetadata retrieves dataset descriptions from /metadata
func (s *RESTSource) FetchMetadata(ctx context.Context) (models.Metadata, error) {
	var out models.Metadata
	if err := s.get(ctx, ResourceMetadata, "/metadata", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchTimeSeries retrieves the time series analysis document from /timeseries
func (s *RESTSource) FetchTimeSeries(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.get(ctx, ResourceTimeSeries, "/timeseries", &out); err != nil {
		return nil, err
	}
	return out, nil
}
