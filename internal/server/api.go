package server

import (
	"net/http"
	"strings"
)

// HandleData serves the filtered dataset as {data, count}
func (s *Server) HandleData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseYearFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.Data.FetchDataset(r.Context(), filter)
	if err != nil {
		s.log.Error("Dataset fetch failed", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	rows := data.Project(parseIndicators(q.Get("indicators")))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  rows,
		"count": len(rows),
	})
}

// HandleYearRange serves {min, max}
func (s *Server) HandleYearRange(w http.ResponseWriter, r *http.Request) {
	yr, ok, err := s.Data.FetchYearRange(r.Context())
	if err != nil {
		s.log.Error("Year range fetch failed", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "No data available")
		return
	}
	writeJSON(w, http.StatusOK, yr)
}

// HandleCorrelation serves one indicator's result, or all of them when
// no indicator is given
func (s *Server) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	indicator := strings.TrimSpace(r.URL.Query().Get("indicator"))
	if indicator == "" {
		all, err := s.Data.FetchCorrelations(r.Context())
		if err != nil {
			s.log.Error("Correlation fetch failed", err)
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, all)
		return
	}

	result, err := s.Data.FetchCorrelation(r.Context(), indicator)
	if err != nil {
		s.log.Error("Correlation fetch failed", err, map[string]interface{}{"indicator": indicator})
		writeError(w, statusFor(err), err.Error())
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "Correlation data not found for "+indicator)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleMetadata serves the dataset descriptions
func (s *Server) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := s.Data.FetchMetadata(r.Context())
	if err != nil {
		s.log.Error("Metadata fetch failed", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	if len(meta) == 0 {
		writeError(w, http.StatusNotFound, "Metadata not found")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// HandleIndicators serves {indicators: [...]}
func (s *Server) HandleIndicators(w http.ResponseWriter, r *http.Request) {
	names, err := s.Data.FetchIndicators(r.Context())
	if err != nil {
		s.log.Error("Indicator fetch failed", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	if len(names) == 0 {
		writeError(w, http.StatusNotFound, "No data available")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"indicators": names})
}

// HandleTimeSeries serves the time series analysis document as stored
func (s *Server) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	raw, err := s.Data.FetchTimeSeriesAnalysis(r.Context())
	if err != nil {
		s.log.Error("Time series fetch failed", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusNotFound, "Time series analysis not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}
