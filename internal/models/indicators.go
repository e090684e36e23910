package models

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed indicators.yaml
var indicatorsYAML []byte

// DefaultIndicator is the indicator selected when none is given
const DefaultIndicator = FieldGDPGrowthRate

// Explanation is the pros/cons panel shown next to a selectable indicator
type Explanation struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Pros        []string `yaml:"pros" json:"pros"`
	Cons        []string `yaml:"cons" json:"cons"`
}

// IndicatorInfo carries the display properties of one column
type IndicatorInfo struct {
	Key         string       `yaml:"key" json:"key"`
	Label       string       `yaml:"label" json:"label"`
	ShortLabel  string       `yaml:"short_label" json:"short_label"`
	Unit        string       `yaml:"unit" json:"unit"`
	Color       string       `yaml:"color" json:"color"`
	Selectable  bool         `yaml:"selectable" json:"selectable"`
	Explanation *Explanation `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// Catalog indexes indicator display info by key
type Catalog struct {
	ordered []IndicatorInfo
	byKey   map[string]IndicatorInfo
}

// ParseCatalog decodes a YAML indicator catalogue
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Indicators []IndicatorInfo `yaml:"indicators"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse indicator catalogue: %w", err)
	}

	c := &Catalog{byKey: make(map[string]IndicatorInfo, len(doc.Indicators))}
	for _, info := range doc.Indicators {
		if info.Key == "" {
			return nil, fmt.Errorf("indicator catalogue entry without key")
		}
		if _, dup := c.byKey[info.Key]; dup {
			return nil, fmt.Errorf("duplicate indicator %q in catalogue", info.Key)
		}
		c.ordered = append(c.ordered, info)
		c.byKey[info.Key] = info
	}
	return c, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalogue embedded in the binary
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := ParseCatalog(indicatorsYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the info for key
func (c *Catalog) Lookup(key string) (IndicatorInfo, bool) {
	info, ok := c.byKey[key]
	return info, ok
}

// Label returns the axis label for key, falling back to the key itself
func (c *Catalog) Label(key string) string {
	if info, ok := c.byKey[key]; ok && info.Label != "" {
		return info.Label
	}
	return key
}

// ShortLabel returns the legend label for key, falling back to the key itself
func (c *Catalog) ShortLabel(key string) string {
	if info, ok := c.byKey[key]; ok && info.ShortLabel != "" {
		return info.ShortLabel
	}
	return key
}

// Selectable returns the indicators offered in the indicator picker
func (c *Catalog) Selectable() []IndicatorInfo {
	var out []IndicatorInfo
	for _, info := range c.ordered {
		if info.Selectable {
			out = append(out, info)
		}
	}
	return out
}
