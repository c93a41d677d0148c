package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campus-atlas/internal/analysis"
	"github.com/sells-group/campus-atlas/internal/export"
	"github.com/sells-group/campus-atlas/internal/model"
)

type registerSiteRequest struct {
	Address string `json:"address"`
}

type areaRequest struct {
	Coordinates []model.Coordinate `json:"coordinates"`
	Category    string             `json:"category"`
	Floors      *int               `json:"floors,omitempty"`
}

type floorsRequest struct {
	Floors int `json:"floors"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type siteResponse struct {
	Analysis model.SiteAnalysis `json:"analysis"`
	Totals   model.Totals       `json:"totals"`
}

type areaResponse struct {
	Area   model.AreaRecord `json:"area"`
	Totals model.Totals     `json:"totals"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddresses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"addresses": s.addresses})
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"legend": s.legend})
}

func (s *Server) handleRegisterSite(w http.ResponseWriter, r *http.Request) {
	var req registerSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Address == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "address is required"})
		return
	}

	a, err := s.store.RegisterSite(r.Context(), req.Address)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address": a.Address,
		"lat":     a.Lat,
		"lng":     a.Lng,
	})
}

// siteParam returns the decoded site key from the {address} path
// segment. chi hands back the raw escaped segment when the request URL
// carries its own encoding (commas in street addresses, typically), so
// the key must be unescaped before it can match what RegisterSite
// stored.
func siteParam(r *http.Request) string {
	raw := chi.URLParam(r, "address")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteKey := siteParam(r)

	a, err := s.store.Analysis(siteKey)
	if err != nil {
		s.writeError(w, err)
		return
	}
	totals, err := s.store.Totals(siteKey)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, siteResponse{Analysis: a, Totals: totals})
}

func (s *Server) handleGetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.store.Totals(siteParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := s.store.SetNotes(siteParam(r), req.Notes); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddArea(w http.ResponseWriter, r *http.Request) {
	req, category, ok := s.decodeArea(w, r)
	if !ok {
		return
	}

	rec, totals, err := s.store.AddRecord(siteParam(r), req.Coordinates, category, req.Floors)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, areaResponse{Area: rec, Totals: totals})
}

func (s *Server) handleUpdateArea(w http.ResponseWriter, r *http.Request) {
	index, ok := s.decodeIndex(w, r)
	if !ok {
		return
	}
	req, category, ok := s.decodeArea(w, r)
	if !ok {
		return
	}

	rec, totals, err := s.store.UpdateRecord(siteParam(r), index, req.Coordinates, category, req.Floors)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, areaResponse{Area: rec, Totals: totals})
}

func (s *Server) handleUpdateFloors(w http.ResponseWriter, r *http.Request) {
	index, ok := s.decodeIndex(w, r)
	if !ok {
		return
	}

	var req floorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Floors < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "floors must be at least 1"})
		return
	}

	rec, totals, err := s.store.UpdateFloors(siteParam(r), index, req.Floors)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, areaResponse{Area: rec, Totals: totals})
}

func (s *Server) handleDeleteArea(w http.ResponseWriter, r *http.Request) {
	index, ok := s.decodeIndex(w, r)
	if !ok {
		return
	}

	totals, err := s.store.DeleteRecord(siteParam(r), index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totals": totals})
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	rows, err := s.store.ExportRows()
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="campus_analysis_results.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, rows); err != nil {
		zap.L().Error("httpapi: export write failed", zap.Error(err))
	}
}

// decodeArea parses and validates the polygon payload shared by the add
// and update handlers.
func (s *Server) decodeArea(w http.ResponseWriter, r *http.Request) (areaRequest, model.Category, bool) {
	var req areaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return areaRequest{}, "", false
	}

	category, err := model.ParseCategory(req.Category)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category: " + req.Category})
		return areaRequest{}, "", false
	}
	if req.Floors != nil && *req.Floors < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "floors must be at least 1"})
		return areaRequest{}, "", false
	}
	return req, category, true
}

func (s *Server) decodeIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid area index"})
		return 0, false
	}
	return index, true
}

// writeError maps store sentinels onto HTTP statuses. Every failure is
// scoped to the one requested operation.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, analysis.ErrSiteNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no analysis found for this address"})
	case eris.Is(err, analysis.ErrIndexOutOfRange):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid area index"})
	case eris.Is(err, analysis.ErrNothingToExport):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no analyses to export"})
	case eris.Is(err, analysis.ErrUpstreamUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "address could not be resolved"})
	default:
		zap.L().Error("httpapi: unexpected error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("httpapi: encode response", zap.Error(err))
	}
}
