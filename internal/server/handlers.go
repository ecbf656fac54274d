package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/pipeline"
	"github.com/sells-group/parking-cli/internal/proximity"
	"github.com/sells-group/parking-cli/internal/report"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type summaryResponse struct {
	RunID      string                 `json:"run_id"`
	FinishedAt time.Time              `json:"finished_at"`
	Summary    proximity.Summary      `json:"summary"`
	Counts     pipeline.Counts        `json:"counts"`
	Phases     []pipeline.PhaseResult `json:"phases"`
}

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeJSON(w, status, "application/problem+json", problem{
		Type: "about:blank", Title: title, Status: status, Detail: detail,
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "application/json", map[string]string{
		"status": "ok",
		"run_id": s.res.RunID,
	})
}

// facilities serves the combined inventory as GeoJSON, optionally filtered
// by source and city.
func (s *Server) facilities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source := model.Source(strings.TrimSpace(q.Get("source")))
	if source != "" && !source.Valid() {
		writeProblem(w, http.StatusBadRequest, "Bad Request",
			`source must be "managed" or "external"`)
		return
	}
	city := strings.TrimSpace(q.Get("city"))

	var out []model.Facility
	for _, f := range s.res.Combined() {
		if source != "" && f.Source != source {
			continue
		}
		if city != "" && f.City != city {
			continue
		}
		out = append(out, f)
	}
	writeJSON(w, http.StatusOK, "application/geo+json", report.FeatureCollection(out))
}

func (s *Server) listStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.res.Stats
	if stats == nil {
		stats = []model.ProximityStats{}
	}
	writeJSON(w, http.StatusOK, "application/json", stats)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := s.res.StatsByID(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no managed facility with id "+id)
		return
	}
	writeJSON(w, http.StatusOK, "application/json", st)
}

func (s *Server) summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "application/json", summaryResponse{
		RunID:      s.res.RunID,
		FinishedAt: s.res.FinishedAt,
		Summary:    s.res.Summary,
		Counts:     s.res.Counts,
		Phases:     s.res.Phases,
	})
}
