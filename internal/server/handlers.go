package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"laborviz/internal/canvas"
	"laborviz/internal/charts"
	"laborviz/internal/config"
	"laborviz/internal/dashboard"
	"laborviz/internal/export"
	"laborviz/internal/models"
	"laborviz/internal/view"
)

// HandleRoot serves the dashboard page
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	meta, err := s.Data.FetchMetadata(r.Context())
	if err != nil {
		s.log.Warn("Metadata unavailable for dashboard", map[string]interface{}{"error": err.Error()})
	}

	var buf bytes.Buffer
	err = s.Dashboard.Render(&buf, dashboard.PageInput{
		Snapshot: s.View.Snapshot(),
		Metadata: meta,
		Version:  config.GetVersion(),
	})
	if err != nil {
		s.log.Error("Dashboard render failed", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
		"source":    s.Data.SourceName(),
		"checks": map[string]string{
			"view":   s.View.Active().State().String(),
			"config": "ok",
		},
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleViewState serves the view snapshot
func (s *Server) HandleViewState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.View.Snapshot())
}

// HandleSwitchTab activates the tab named by the "tab" form value
func (s *Server) HandleSwitchTab(w http.ResponseWriter, r *http.Request) {
	kind, err := charts.ParseKind(r.FormValue("tab"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondView(w, r, s.View.SwitchTab(r.Context(), kind))
}

// HandleSetIndicator selects the indicator named by the "indicator" form value
func (s *Server) HandleSetIndicator(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.View.SetIndicator(r.Context(), strings.TrimSpace(r.FormValue("indicator"))))
}

// HandleApplyFilter applies start_year and end_year
func (s *Server) HandleApplyFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter, err := parseYearFilter(r.Form)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondView(w, r, s.View.ApplyFilter(r.Context(), filter))
}

// HandleDismissBanner hides the error banner
func (s *Server) HandleDismissBanner(w http.ResponseWriter, r *http.Request) {
	s.View.DismissBanner()
	s.respondView(w, r, nil)
}

// respondView sends a browser back to the page, and anything else the new
// snapshot. A failed fetch still answers with the snapshot, whose banner
// carries the message.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, view.ErrInvalidIndicator), errors.Is(err, view.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, view.ErrSuperseded):
		status = http.StatusConflict
	default:
		status = statusFor(err)
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, status, s.View.Snapshot())
}

// HandleViewChart encodes the active chart in the format of the URL suffix
func (s *Server) HandleViewChart(w http.ResponseWriter, r *http.Request) {
	format, err := canvas.ParseFormat(strings.TrimPrefix(path.Ext(r.URL.Path), "."))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := s.View.Active().Encode(format, &buf); err != nil {
		s.log.Error("Chart encode failed", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// HandleHover answers the tooltip for a pointer position
func (s *Server) HandleHover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}
	tip, ok := s.View.Hover(x, y)
	body := map[string]interface{}{"hit": ok}
	if ok {
		body["tooltip"] = tip
		body["text"] = tip.Text()
	}
	writeJSON(w, http.StatusOK, body)
}

// HandleLeave restores any hovered point
func (s *Server) HandleLeave(w http.ResponseWriter, r *http.Request) {
	s.View.Leave()
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport downloads the active chart as png or svg
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	chartID := s.View.Tab().ContainerID()
	img, err := s.Exporter.Image(chartID, r.URL.Query().Get("format"))
	if err != nil {
		s.log.Warn("Export skipped", map[string]interface{}{"chart": chartID, "error": err.Error()})
		writeError(w, exportStatus(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", img.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", img.Filename))
	w.Write(img.Data)
}

// HandleStoreExport saves the active chart to export storage
func (s *Server) HandleStoreExport(w http.ResponseWriter, r *http.Request) {
	chartID := s.View.Tab().ContainerID()
	filePath, err := s.Exporter.Store(r.Context(), chartID, r.FormValue("format"))
	if err != nil {
		s.log.Warn("Export not stored", map[string]interface{}{"chart": chartID, "error": err.Error()})
		writeError(w, exportStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"path": filePath,
		"url":  "/" + filePath,
	})
}

func exportStatus(err error) int {
	switch {
	case errors.Is(err, canvas.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrChartNotFound), errors.Is(err, export.ErrNotRendered):
		return http.StatusNotFound
	case errors.Is(err, export.ErrNoStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleChart renders one chart statelessly: /charts/{kind}.{svg|png}
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := path.Ext(file)
	kind, err := charts.ParseKind(strings.TrimSuffix(file, ext))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	format, err := canvas.ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	filter, err := parseYearFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	indicator := strings.TrimSpace(q.Get("indicator"))
	if indicator == "" {
		indicator = models.DefaultIndicator
	}

	ctx := r.Context()
	data, err := s.Data.FetchDataset(ctx, filter)
	if err != nil {
		s.log.Error("Dataset fetch failed", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	opts := charts.Options{Indicator: indicator}
	if kind == charts.KindCorrelation {
		result, err := s.Data.FetchCorrelation(ctx, indicator)
		if err != nil {
			s.log.Warn("Drawing correlation without overlay", map[string]interface{}{"error": err.Error()})
		}
		opts.Correlation = result
	}

	renderer, err := charts.NewRenderer(kind, s.layout)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	renderer.Render(data, opts)

	var buf bytes.Buffer
	if err := renderer.Encode(format, &buf); err != nil {
		s.log.Error("Chart encode failed", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}

// HandleInteractive serves the ECharts page for the current view
func (s *Server) HandleInteractive(w http.ResponseWriter, r *http.Request) {
	snap := s.View.Snapshot()
	data, err := s.Data.FetchDataset(r.Context(), snap.Filter)
	if err != nil {
		s.log.Error("Dataset fetch failed", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	in := dashboard.InteractiveInput{Data: data, Indicator: snap.Indicator}
	if result, err := s.Data.FetchCorrelation(r.Context(), snap.Indicator); err == nil {
		in.Correlation = result
	}

	var buf bytes.Buffer
	if err := dashboard.RenderInteractive(&buf, in, s.catalog); err != nil {
		s.log.Error("Interactive page failed", err)
		http.Error(w, "Failed to render interactive page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
