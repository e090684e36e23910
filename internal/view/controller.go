package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"laborviz/internal/charts"
	"laborviz/internal/logger"
	"laborviz/internal/models"
)

// DefaultBannerTTL is how long an error banner stays up unless dismissed
const DefaultBannerTTL = 5 * time.Second

var (
	// ErrSuperseded is returned when a newer request replaced this one
	// while it was waiting on data; its result was dropped
	ErrSuperseded = errors.New("request superseded by a newer one")
	// ErrInvalidIndicator is returned for an empty or non-indicator column
	ErrInvalidIndicator = errors.New("invalid indicator")
	// ErrInvalidFilter is returned when start is after end
	ErrInvalidFilter = errors.New("start year is after end year")
)

// DataProvider is the slice of DataAccess the view reads from
type DataProvider interface {
	FetchDataset(ctx context.Context, filter models.YearFilter) (models.Dataset, error)
	FetchYearRange(ctx context.Context) (models.YearRange, bool, error)
	FetchCorrelation(ctx context.Context, indicator string) (*models.CorrelationResult, error)
}

// Banner is a dismissable error message
type Banner struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Options configures a Controller
type Options struct {
	Layout    charts.Layout
	BannerTTL time.Duration
}

// Controller decides which chart is active and redraws it whenever the
// tab, indicator or year filter changes. All methods are safe for
// concurrent use.
type Controller struct {
	mu        sync.Mutex
	data      DataProvider
	renderers map[charts.Kind]*charts.Renderer
	bannerTTL time.Duration
	log       *logger.Logger

	tab            charts.Kind
	indicator      string
	filter         models.YearFilter
	yearRange      *models.YearRange
	dataset        models.Dataset
	correlation    *models.CorrelationResult
	correlationFor string

	banner      *Banner
	bannerTimer *time.Timer
	bannerSeq   uint64

	// latest issued token per resource; a response only applies while its
	// token is still the latest
	datasetToken     uint64
	correlationToken uint64
}

// NewController creates a controller with one renderer per chart kind.
// Nothing is fetched until Init.
func NewController(data DataProvider, opts Options) (*Controller, error) {
	if opts.BannerTTL <= 0 {
		opts.BannerTTL = DefaultBannerTTL
	}
	renderers := make(map[charts.Kind]*charts.Renderer)
	for _, kind := range charts.Kinds() {
		r, err := charts.NewRenderer(kind, opts.Layout)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s renderer: %w", kind, err)
		}
		renderers[kind] = r
	}
	return &Controller{
		data:      data,
		renderers: renderers,
		bannerTTL: opts.BannerTTL,
		log:       logger.Component("view"),
		tab:       charts.KindTimeSeries,
		indicator: models.DefaultIndicator,
	}, nil
}

// Init loads the year range, which seeds the filter, then the dataset,
// and draws the active chart
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	c.datasetToken++
	token := c.datasetToken
	c.mu.Unlock()

	yr, ok, err := c.data.FetchYearRange(ctx)
	if err != nil {
		return c.fail(token, "Failed to load year range", err)
	}

	c.mu.Lock()
	if token != c.datasetToken {
		c.mu.Unlock()
		return ErrSuperseded
	}
	filter := c.filter
	if ok {
		c.yearRange = &yr
		if filter.IsZero() {
			filter = models.Between(yr.Min, yr.Max)
			c.filter = filter
		}
	}
	c.mu.Unlock()

	if err := c.loadDataset(ctx, token, filter); err != nil {
		return err
	}

	c.mu.Lock()
	onCorrelation := c.tab == charts.KindCorrelation
	c.mu.Unlock()
	if onCorrelation {
		return c.refreshCorrelation(ctx)
	}
	return nil
}

// SwitchTab makes kind the active chart and redraws it with the held
// data. Entering the correlation tab re-fetches the correlation.
func (c *Controller) SwitchTab(ctx context.Context, kind charts.Kind) error {
	if _, ok := c.renderers[kind]; !ok {
		return fmt.Errorf("unknown tab %q", kind)
	}

	c.mu.Lock()
	entering := kind == charts.KindCorrelation && c.tab != charts.KindCorrelation
	c.tab = kind
	c.renderActiveLocked()
	c.mu.Unlock()

	c.log.Debug("Tab switched", map[string]interface{}{"tab": string(kind)})
	if entering {
		return c.refreshCorrelation(ctx)
	}
	return nil
}

// SetIndicator selects the indicator plotted against working hours. On
// the correlation tab the indicator's correlation is fetched as well.
func (c *Controller) SetIndicator(ctx context.Context, indicator string) error {
	if indicator == "" || indicator == models.FieldYear || indicator == models.FieldHoursPerYear {
		return fmt.Errorf("%w: %q", ErrInvalidIndicator, indicator)
	}

	c.mu.Lock()
	c.indicator = indicator
	// any correlation still in flight belongs to the previous indicator
	c.correlationToken++
	c.renderActiveLocked()
	onCorrelation := c.tab == charts.KindCorrelation
	c.mu.Unlock()

	if onCorrelation {
		return c.refreshCorrelation(ctx)
	}
	return nil
}

// ApplyFilter re-fetches the dataset with new bounds and redraws
func (c *Controller) ApplyFilter(ctx context.Context, filter models.YearFilter) error {
	if filter.Start != nil && filter.End != nil && *filter.Start > *filter.End {
		return fmt.Errorf("%w: %d > %d", ErrInvalidFilter, *filter.Start, *filter.End)
	}

	c.mu.Lock()
	c.datasetToken++
	token := c.datasetToken
	c.filter = filter
	c.mu.Unlock()

	return c.loadDataset(ctx, token, filter)
}

// DismissBanner hides the current banner, if any
func (c *Controller) DismissBanner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearBannerLocked()
}

// Banner returns the banner currently shown
func (c *Controller) Banner() (Banner, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.banner == nil {
		return Banner{}, false
	}
	return *c.banner, true
}

// Tab returns the active chart kind
func (c *Controller) Tab() charts.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// Active returns the renderer of the active tab
func (c *Controller) Active() *charts.Renderer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderers[c.tab]
}

// Renderer returns the renderer for kind
func (c *Controller) Renderer(kind charts.Kind) (*charts.Renderer, bool) {
	r, ok := c.renderers[kind]
	return r, ok
}

// Lookup resolves a chart container id such as "timeseries-chart"
func (c *Controller) Lookup(chartID string) (*charts.Renderer, bool) {
	kind, ok := charts.KindForContainer(chartID)
	if !ok {
		return nil, false
	}
	return c.Renderer(kind)
}

// Hover forwards a pointer position to the active chart
func (c *Controller) Hover(x, y float64) (charts.Tooltip, bool) {
	return c.Active().Hover(x, y)
}

// Leave clears hover state on the active chart
func (c *Controller) Leave() {
	c.Active().Leave()
}

// Close stops the banner timer
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
		c.bannerTimer = nil
	}
}

func (c *Controller) loadDataset(ctx context.Context, token uint64, filter models.YearFilter) error {
	data, err := c.data.FetchDataset(ctx, filter)
	if err != nil {
		return c.fail(token, "Failed to load data", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.datasetToken {
		c.log.Debug("Dropping stale dataset response", map[string]interface{}{"token": token})
		return ErrSuperseded
	}
	c.dataset = data
	c.renderActiveLocked()
	return nil
}

// refreshCorrelation fetches the correlation of the current indicator
// and redraws the correlation chart if it is still showing
func (c *Controller) refreshCorrelation(ctx context.Context) error {
	c.mu.Lock()
	c.correlationToken++
	token := c.correlationToken
	indicator := c.indicator
	c.mu.Unlock()

	result, err := c.data.FetchCorrelation(ctx, indicator)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.correlationToken {
		c.log.Debug("Dropping stale correlation response", map[string]interface{}{
			"indicator": indicator,
			"token":     token,
		})
		return ErrSuperseded
	}
	if err != nil {
		c.correlation = nil
		c.correlationFor = ""
		c.setBannerLocked(fmt.Sprintf("Failed to load correlation for %s: %v", indicator, err))
		c.log.Error("Correlation fetch failed", err, map[string]interface{}{"indicator": indicator})
		c.renderActiveLocked()
		return fmt.Errorf("failed to fetch correlation for %s: %w", indicator, err)
	}
	c.correlation = result
	c.correlationFor = indicator
	if c.tab == charts.KindCorrelation {
		c.renderActiveLocked()
	}
	return nil
}

// fail shows a banner for a dataset-side failure unless a newer request
// has already taken over
func (c *Controller) fail(token uint64, message string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.datasetToken {
		return ErrSuperseded
	}
	c.setBannerLocked(fmt.Sprintf("%s: %v", message, err))
	c.log.Error(message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func (c *Controller) renderActiveLocked() {
	opts := charts.Options{Indicator: c.indicator}
	if c.tab == charts.KindCorrelation && c.correlationFor == c.indicator {
		opts.Correlation = c.correlation
	}
	c.renderers[c.tab].Render(c.dataset, opts)
}

func (c *Controller) setBannerLocked(message string) {
	c.clearBannerLocked()
	c.bannerSeq++
	id := c.bannerSeq
	c.banner = &Banner{ID: id, Message: message, CreatedAt: time.Now()}
	c.bannerTimer = time.AfterFunc(c.bannerTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.banner != nil && c.banner.ID == id {
			c.banner = nil
			c.bannerTimer = nil
		}
	})
}

func (c *Controller) clearBannerLocked() {
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
		c.bannerTimer = nil
	}
	c.banner = nil
}
