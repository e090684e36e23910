package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"laborviz/internal/fetchers"
	"laborviz/internal/logger"
	"laborviz/internal/models"
)

// writeJSON encodes body with status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Component("server").Error("Failed to encode response", err)
	}
}

// writeError sends {"error": message}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps a data error to an HTTP status: upstream failures are
// 502, everything else 500
func statusFor(err error) int {
	var fe *fetchers.FetchError
	if errors.As(err, &fe) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// parseYearFilter reads start_year and end_year
func parseYearFilter(q url.Values) (models.YearFilter, error) {
	var f models.YearFilter
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"start_year", &f.Start},
		{"end_year", &f.End},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return models.YearFilter{}, fmt.Errorf("invalid %s %q", p.name, raw)
		}
		*p.dst = models.Int(v)
	}
	return f, nil
}

// parseIndicators splits a comma separated column list. The hours column
// is always kept.
func parseIndicators(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	keep := []string{models.FieldHoursPerYear}
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" || name == models.FieldHoursPerYear || name == models.FieldYear {
			continue
		}
		keep = append(keep, name)
	}
	return keep
}

// wantsHTML reports whether the client is a browser form post that
// should be sent back to the page
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
