package bridge

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"MolView/internal/chem"
	"MolView/internal/engine"
	"MolView/internal/logger"
	"MolView/internal/pubchem"
	"MolView/internal/scene"

	"go.uber.org/zap"
)

type searchRequest struct {
	Query string `json:"query"`
}

type loadResponse struct {
	Molecule chem.Summary `json:"molecule"`
	Fallback bool         `json:"fallback"`
	Status   string       `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn("Bridge response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": s.viewer.Status()})
}

func (s *Server) handleMolecule(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.viewer.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no molecule loaded")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.viewer.Selected()
	if !ok {
		writeError(w, http.StatusNotFound, "no atom selected")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// handleLoad accepts a search result as produced by the application's own
// search backend.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var result chem.SearchResult
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, "invalid search result: "+err.Error())
		return
	}
	s.load(w, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	if s.searcher == nil {
		s.load(w, chem.SearchResult{Name: req.Query})
		return
	}

	start := time.Now()
	result, err := s.searcher.Search(r.Context(), req.Query)
	switch {
	case err == nil:
		s.metrics.Search("ok", time.Since(start))
	case errors.Is(err, pubchem.ErrNotFound):
		s.metrics.Search("not_found", time.Since(start))
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pubchem.ErrSearchUnavailable):
		s.metrics.Search("unavailable", time.Since(start))
		logger.Log.Warn("Search unavailable, showing fallback", zap.String("query", req.Query), zap.Error(err))
		result = chem.SearchResult{Name: req.Query}
	default:
		s.metrics.Search("error", time.Since(start))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.load(w, result)
}

func (s *Server) load(w http.ResponseWriter, result chem.SearchResult) {
	sum, err := s.viewer.Load(result)
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrQueueFull), errors.Is(err, scene.ErrTornDown):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	default:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, loadResponse{
		Molecule: sum,
		Fallback: sum.Synthetic,
		Status:   s.viewer.Status(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.viewer.ResetView(); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
