// Package api - HTTP handlers for the dashboard
// Handlers only parse selections and serialize results; all data work is
// delegated to the core packages.
package api

import (
	"bytes"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gapminder/core/chart"
	"gapminder/core/types"
	"gapminder/core/view"
	"gapminder/internal/errors"
)

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"built":   s.handle.Built(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /api/version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "gapminder",
		"api_version": "v1",
	}, http.StatusOK)
}

// handleDataset handles GET /api/dataset
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r)
	if !ok {
		return
	}

	minYear, maxYear, _ := ds.YearRange()
	rows := make(map[string]int, len(ds.SourceRows))
	for m, n := range ds.SourceRows {
		rows[m.String()] = n
	}
	s.writeJSON(w, DatasetInfo{
		BuildID:    ds.ID.String(),
		BuiltAt:    ds.BuiltAt.Format(time.RFC3339),
		Records:    ds.Len(),
		Countries:  len(ds.Countries()),
		MinYear:    minYear,
		MaxYear:    maxYear,
		SourceRows: rows,
	}, http.StatusOK)
}

// handleControls handles GET /api/controls
func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, view.ControlsFor(ds), http.StatusOK)
}

// handleRecords handles GET /api/records?year=Y&country=A&country=B
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ds, sel, ok := s.selection(w, r)
	if !ok {
		return
	}

	records := view.Filter(ds, sel)
	s.writeJSON(w, RecordsResponse{
		Year:      sel.Year,
		Countries: sel.Countries,
		Count:     len(records),
		Records:   records,
	}, http.StatusOK)
}

// handleChart handles GET /api/chart.{png|svg}
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format, err := chart.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	ds, sel, ok := s.selection(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err = s.renderer.Render(&buf, format, sel.Year, view.Filter(ds, sel))
	if stderrors.Is(err, chart.ErrEmptyView) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// dataset fetches the process dataset, writing an error response on failure
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (*types.Dataset, bool) {
	ds, err := s.handle.Get(r.Context())
	if err != nil {
		s.logger.Error("dataset build failed", zap.Error(err))
		s.writeFailure(w, err)
		return nil, false
	}
	return ds, true
}

// selection parses year and country query parameters against the controls
func (s *Server) selection(w http.ResponseWriter, r *http.Request) (*types.Dataset, view.Selection, bool) {
	ds, ok := s.dataset(w, r)
	if !ok {
		return nil, view.Selection{}, false
	}

	q := r.URL.Query()
	sel, err := view.ControlsFor(ds).ParseSelection(q.Get("year"), q["country"])
	if err != nil {
		s.writeFailure(w, err)
		return nil, view.Selection{}, false
	}
	return ds, sel, true
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	t := errors.TypeOf(err)
	status := http.StatusInternalServerError
	switch t {
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	}
	s.writeError(w, string(t), err.Error(), status)
}
