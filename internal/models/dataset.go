package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateYear is returned by Validate when two records share a year
var ErrDuplicateYear = errors.New("duplicate year in dataset")

// Dataset is an ordered sequence of yearly records.
// A cached Dataset is never mutated; narrowing it always yields a fresh slice.
type Dataset []Record

// YearFilter bounds a dataset to an inclusive year range. Nil bounds are open.
type YearFilter struct {
	Start *int `json:"start_year,omitempty"`
	End   *int `json:"end_year,omitempty"`
}

// Between builds a filter with both bounds set
func Between(start, end int) YearFilter {
	return YearFilter{Start: Int(start), End: Int(end)}
}

// IsZero reports whether the filter has no bounds at all
func (f YearFilter) IsZero() bool {
	return f.Start == nil && f.End == nil
}

// Contains reports whether year falls inside the filter
func (f YearFilter) Contains(year int) bool {
	if f.Start != nil && year < *f.Start {
		return false
	}
	if f.End != nil && year > *f.End {
		return false
	}
	return true
}

// YearRange is the min/max year across a dataset
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Validate checks that every year appears at most once
func (d Dataset) Validate() error {
	seen := make(map[int]struct{}, len(d))
	for _, r := range d {
		if _, dup := seen[r.Year]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateYear, r.Year)
		}
		seen[r.Year] = struct{}{}
	}
	return nil
}

// Filter returns deep copies of the records inside f, preserving their
// relative order. Nothing in the result aliases the receiver.
func (d Dataset) Filter(f YearFilter) Dataset {
	out := make(Dataset, 0, len(d))
	for _, r := range d {
		if f.Contains(r.Year) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Where returns the records for which every field is non-null
func (d Dataset) Where(fields ...string) Dataset {
	out := make(Dataset, 0, len(d))
	for _, r := range d {
		if r.Has(fields...) {
			out = append(out, r)
		}
	}
	return out
}

// YearRange returns the min and max year. ok is false for an empty dataset.
func (d Dataset) YearRange() (yr YearRange, ok bool) {
	if len(d) == 0 {
		return YearRange{}, false
	}
	yr = YearRange{Min: d[0].Year, Max: d[0].Year}
	for _, r := range d[1:] {
		if r.Year < yr.Min {
			yr.Min = r.Year
		}
		if r.Year > yr.Max {
			yr.Max = r.Year
		}
	}
	return yr, true
}

// Indicators lists the column names other than year.
// Typed columns come first, followed by any extra columns in sorted order.
func (d Dataset) Indicators() []string {
	if len(d) == 0 {
		return []string{}
	}
	names := append([]string(nil), knownFields...)
	seen := make(map[string]bool)
	var extras []string
	for _, r := range d {
		for _, k := range r.extraKeys() {
			if !seen[k] {
				seen[k] = true
				extras = append(extras, k)
			}
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

// SortedByYear returns a copy ordered by ascending year
func (d Dataset) SortedByYear() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}

// Project flattens each record, keeping only the listed columns plus year
func (d Dataset) Project(keep []string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(d))
	for _, r := range d {
		out = append(out, r.Fields(keep))
	}
	return out
}
