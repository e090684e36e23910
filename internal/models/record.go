package models

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Field names as they appear in the combined dataset JSON
const (
	FieldYear                 = "year"
	FieldHoursPerYear         = "hours_per_year"
	FieldGDPGrowthRate        = "gdp_growth_rate"
	FieldGDPPerCapitaUSD      = "gdp_per_capita_usd"
	FieldReadingMinutesPerDay = "reading_minutes_per_day"
)

// knownFields lists the typed record columns in their canonical order
var knownFields = []string{
	FieldHoursPerYear,
	FieldGDPGrowthRate,
	FieldGDPPerCapitaUSD,
	FieldReadingMinutesPerDay,
}

// Record is one year of the combined labor/economy/reading dataset.
// Every measurement is nullable because the historical series have gaps.
type Record struct {
	Year                 int
	HoursPerYear         *float64
	GDPGrowthRate        *float64
	GDPPerCapitaUSD      *float64
	ReadingMinutesPerDay *float64

	// Extra holds numeric columns the dataset carries beyond the typed ones
	// (e.g. labor_productivity).
	Extra map[string]*float64
}

// Float returns a pointer to v, for building records with literal values
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}

// Value looks up a measurement by its JSON field name.
// The second result is false when the field is unknown or null.
func (r Record) Value(field string) (float64, bool) {
	var p *float64
	switch field {
	case FieldYear:
		return float64(r.Year), true
	case FieldHoursPerYear:
		p = r.HoursPerYear
	case FieldGDPGrowthRate:
		p = r.GDPGrowthRate
	case FieldGDPPerCapitaUSD:
		p = r.GDPPerCapitaUSD
	case FieldReadingMinutesPerDay:
		p = r.ReadingMinutesPerDay
	default:
		p = r.Extra[field]
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Clone returns a copy that shares no pointers or maps with r
func (r Record) Clone() Record {
	out := Record{Year: r.Year}
	for _, field := range knownFields {
		if v, ok := r.Value(field); ok {
			*out.fieldPtr(field) = Float(v)
		}
	}
	if r.Extra != nil {
		out.Extra = make(map[string]*float64, len(r.Extra))
		for k, p := range r.Extra {
			if p == nil {
				out.Extra[k] = nil
			} else {
				out.Extra[k] = Float(*p)
			}
		}
	}
	return out
}

// Has reports whether every named field is present and non-null
func (r Record) Has(fields ...string) bool {
	for _, f := range fields {
		if _, ok := r.Value(f); !ok {
			return false
		}
	}
	return true
}

// fieldPtr returns the storage slot of a typed field, or nil for extras
func (r *Record) fieldPtr(field string) **float64 {
	switch field {
	case FieldHoursPerYear:
		return &r.HoursPerYear
	case FieldGDPGrowthRate:
		return &r.GDPGrowthRate
	case FieldGDPPerCapitaUSD:
		return &r.GDPPerCapitaUSD
	case FieldReadingMinutesPerDay:
		return &r.ReadingMinutesPerDay
	}
	return nil
}

// UnmarshalJSON decodes a record, keeping unknown numeric columns in Extra.
// Non-numeric columns are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	yearVal, ok := raw[FieldYear].(float64)
	if !ok {
		return fmt.Errorf("record is missing a numeric %q field", FieldYear)
	}
	if yearVal != math.Trunc(yearVal) || math.Abs(yearVal) > math.MaxInt32 {
		return fmt.Errorf("record %q must be a whole number, got %v", FieldYear, yearVal)
	}

	*r = Record{Year: int(yearVal)}
	for key, v := range raw {
		if key == FieldYear {
			continue
		}
		var p *float64
		switch num := v.(type) {
		case float64:
			p = Float(num)
		case nil:
		default:
			continue
		}
		if slot := r.fieldPtr(key); slot != nil {
			*slot = p
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]*float64)
		}
		r.Extra[key] = p
	}
	return nil
}

// MarshalJSON encodes the record as a flat object with explicit nulls
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields(nil))
}

// Fields flattens the record into a JSON-ready map. When keep is non-empty
// only those columns (plus year) are included.
func (r Record) Fields(keep []string) map[string]interface{} {
	out := map[string]interface{}{FieldYear: r.Year}
	include := func(name string) bool {
		if len(keep) == 0 {
			return true
		}
		for _, k := range keep {
			if k == name {
				return true
			}
		}
		return false
	}

	for _, name := range knownFields {
		if !include(name) {
			continue
		}
		if v, ok := r.Value(name); ok {
			out[name] = v
		} else {
			out[name] = nil
		}
	}
	for name, p := range r.Extra {
		if !include(name) {
			continue
		}
		if p == nil {
			out[name] = nil
		} else {
			out[name] = *p
		}
	}
	return out
}

// extraKeys returns the sorted names of the extra columns
func (r Record) extraKeys() []string {
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
