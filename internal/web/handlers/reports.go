// Package handlers implements the report API endpoints.
package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rva-directmail/internal/audit"
	"github.com/rva-directmail/internal/region"
	"github.com/rva-directmail/internal/store"
)

// ReportsHandler serves run history and priority distribution reports.
type ReportsHandler struct {
	DB      *sql.DB
	Regions *region.Manager
}

// RegionResponse describes one configured region.
type RegionResponse struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	FIPS       string `json:"fips"`
	MarketType string `json:"market_type"`
}

// RunResponse describes one processing run.
type RunResponse struct {
	ID         string       `json:"id"`
	Region     string       `json:"region"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Counts     audit.Counts `json:"counts"`
}

// ListRegions returns the configured regions.
func (h *ReportsHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	var regions []RegionResponse
	for _, cfg := range h.Regions.List() {
		regions = append(regions, RegionResponse{
			Key:        cfg.Key,
			Name:       cfg.Name,
			Code:       cfg.Code,
			FIPS:       cfg.FIPS,
			MarketType: cfg.MarketType,
		})
	}
	writeJSON(w, regions)
}

// ListRuns returns the most recent processing runs.
func (h *ReportsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	runs, err := audit.NewTracker(h.DB).GetRuns(limit)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, runResponse(run))
	}
	writeJSON(w, resp)
}

// GetRun returns one run by id.
func (h *ReportsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid run id", http.StatusBadRequest)
		return
	}

	run, err := audit.NewTracker(h.DB).GetRun(id)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, runResponse(run))
}

// GetDistribution returns the compound code counts for one region.
func (h *ReportsHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["region"]
	if _, err := h.Regions.Get(key); err != nil {
		http.Error(w, "Unknown region", http.StatusNotFound)
		return
	}

	dist, err := store.New(h.DB).PriorityDistribution(key)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, dist)
}

func runResponse(run audit.Run) RunResponse {
	return RunResponse{
		ID:         run.ID.String(),
		Region:     run.Region,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Counts:     run.Counts,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Encoding error", http.StatusInternalServerError)
	}
}
