package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDataset() Dataset {
	return Dataset{
		{Year: 1998, HoursPerYear: Float(1879), GDPGrowthRate: Float(-1.1)},
		{Year: 2000, HoursPerYear: Float(1853), GDPGrowthRate: Float(2.8)},
		{Year: 1999, HoursPerYear: Float(1842), GDPGrowthRate: nil},
		{Year: 2001, HoursPerYear: Float(1837), GDPGrowthRate: Float(0.4)},
		{Year: 2002, HoursPerYear: nil, GDPGrowthRate: Float(0.1)},
	}
}

func years(d Dataset) []int {
	out := make([]int, len(d))
	for i, r := range d {
		out[i] = r.Year
	}
	return out
}

func TestDatasetFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter YearFilter
		want   []int
	}{
		{name: "no bounds", filter: YearFilter{}, want: []int{1998, 2000, 1999, 2001, 2002}},
		{name: "both bounds inclusive", filter: Between(1999, 2001), want: []int{2000, 1999, 2001}},
		{name: "start only", filter: YearFilter{Start: Int(2001)}, want: []int{2001, 2002}},
		{name: "end only", filter: YearFilter{End: Int(1998)}, want: []int{1998}},
		{name: "empty window", filter: Between(2010, 2020), want: []int{}},
		{name: "inverted window", filter: Between(2001, 1999), want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDataset()
			got := d.Filter(tt.filter)
			if diff := cmp.Diff(tt.want, years(got)); diff != "" {
				t.Errorf("Filter() years mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDatasetFilterDoesNotAlias(t *testing.T) {
	d := sampleDataset()
	before := years(d)

	got := d.Filter(YearFilter{})
	if len(got) == 0 {
		t.Fatal("Expected records from unbounded filter")
	}
	got[0].Year = 1800

	if diff := cmp.Diff(before, years(d)); diff != "" {
		t.Errorf("Original dataset was mutated (-want +got):\n%s", diff)
	}
}

func TestDatasetWhere(t *testing.T) {
	d := sampleDataset()
	got := d.Where(FieldHoursPerYear, FieldGDPGrowthRate)
	if diff := cmp.Diff([]int{1998, 2000, 2001}, years(got)); diff != "" {
		t.Errorf("Where() mismatch (-want +got):\n%s", diff)
	}
}

func TestDatasetYearRange(t *testing.T) {
	yr, ok := sampleDataset().YearRange()
	if !ok {
		t.Fatal("Expected year range to be available")
	}
	if yr.Min != 1998 || yr.Max != 2002 {
		t.Errorf("Expected range 1998-2002, got %d-%d", yr.Min, yr.Max)
	}

	if _, ok := (Dataset{}).YearRange(); ok {
		t.Error("Expected empty dataset to report unavailable year range")
	}
}

func TestDatasetSortedByYear(t *testing.T) {
	d := sampleDataset()
	sorted := d.SortedByYear()
	if diff := cmp.Diff([]int{1998, 1999, 2000, 2001, 2002}, years(sorted)); diff != "" {
		t.Errorf("SortedByYear() mismatch (-want +got):\n%s", diff)
	}
	if d[1].Year != 2000 {
		t.Error("SortedByYear() must not reorder the receiver")
	}
}

func TestRecordUnmarshalKeepsExtras(t *testing.T) {
	input := `{"year": 2005, "hours_per_year": 1775.5, "gdp_growth_rate": null, "labor_productivity": 41.2, "source": "mhlw"}`

	var r Record
	if err := json.Unmarshal([]byte(input), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if r.Year != 2005 {
		t.Errorf("Expected year 2005, got %d", r.Year)
	}
	if v, ok := r.Value(FieldHoursPerYear); !ok || v != 1775.5 {
		t.Errorf("Expected hours 1775.5, got %v (ok=%v)", v, ok)
	}
	if _, ok := r.Value(FieldGDPGrowthRate); ok {
		t.Error("Expected null gdp_growth_rate to be absent")
	}
	if v, ok := r.Value("labor_productivity"); !ok || v != 41.2 {
		t.Errorf("Expected labor_productivity 41.2, got %v (ok=%v)", v, ok)
	}
	if _, ok := r.Extra["source"]; ok {
		t.Error("Non-numeric columns should be ignored")
	}
}

func TestRecordUnmarshalRequiresYear(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"hours_per_year": 1800}`), &r); err == nil {
		t.Error("Expected error for record without year")
	}
}

func TestRecordFieldsProjection(t *testing.T) {
	r := Record{Year: 2000, HoursPerYear: Float(1853), GDPGrowthRate: Float(2.8)}

	got := r.Fields([]string{FieldHoursPerYear})
	want := map[string]interface{}{"year": 2000, "hours_per_year": 1853.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}

	all := r.Fields(nil)
	if v, ok := all[FieldReadingMinutesPerDay]; !ok || v != nil {
		t.Errorf("Expected explicit null for reading minutes, got %v (present=%v)", v, ok)
	}
}

func TestDatasetIndicators(t *testing.T) {
	d := Dataset{
		{Year: 2000, Extra: map[string]*float64{"labor_productivity": Float(1)}},
		{Year: 2001, Extra: map[string]*float64{"employment_rate": nil}},
	}
	want := []string{
		FieldHoursPerYear, FieldGDPGrowthRate, FieldGDPPerCapitaUSD, FieldReadingMinutesPerDay,
		"employment_rate", "labor_productivity",
	}
	if diff := cmp.Diff(want, d.Indicators()); diff != "" {
		t.Errorf("Indicators() mismatch (-want +got):\n%s", diff)
	}
	if got := (Dataset{}).Indicators(); len(got) != 0 {
		t.Errorf("Expected no indicators for empty dataset, got %v", got)
	}
}

func TestDatasetFilterCopiesValues(t *testing.T) {
	d := Dataset{
		{Year: 2000, HoursPerYear: Float(1853), Extra: map[string]*float64{"labor_productivity": Float(40)}},
	}

	got := d.Filter(YearFilter{})
	*got[0].HoursPerYear = 0
	*got[0].Extra["labor_productivity"] = 0
	got[0].Extra["employment_rate"] = Float(1)

	if v, _ := d[0].Value(FieldHoursPerYear); v != 1853 {
		t.Errorf("Expected original hours 1853, got %v", v)
	}
	if v, _ := d[0].Value("labor_productivity"); v != 40 {
		t.Errorf("Expected original labor_productivity 40, got %v", v)
	}
	if _, ok := d[0].Extra["employment_rate"]; ok {
		t.Error("Adding an extra column to a filtered record leaked into the original")
	}
}

func TestDatasetValidate(t *testing.T) {
	if err := sampleDataset().Validate(); err != nil {
		t.Errorf("Expected sample dataset to be valid, got %v", err)
	}
	if err := (Dataset{}).Validate(); err != nil {
		t.Errorf("Expected empty dataset to be valid, got %v", err)
	}

	d := append(sampleDataset(), Record{Year: 1999, HoursPerYear: Float(1900)})
	err := d.Validate()
	if !errors.Is(err, ErrDuplicateYear) {
		t.Fatalf("Expected ErrDuplicateYear, got %v", err)
	}
	if !strings.Contains(err.Error(), "1999") {
		t.Errorf("Expected error to name the duplicate year, got %q", err)
	}
}

func TestRecordUnmarshalRejectsFractionalYear(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "whole number", input: `{"year": 2001}`},
		{name: "whole number with decimal point", input: `{"year": 2001.0}`},
		{name: "fractional", input: `{"year": 2001.9}`, wantErr: true},
		{name: "out of range", input: `{"year": 1e20}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			err := json.Unmarshal([]byte(tt.input), &r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && r.Year != 2001 {
				t.Errorf("Expected year 2001, got %d", r.Year)
			}
		})
	}
}
