package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/asynkron/supermaxrep/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleListRuns lists stored runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "persistence is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list runs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": runs})
}

// handleRunRepeats returns a stored run with its documents and repeats.
func (s *Server) handleRunRepeats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "persistence is not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		jsonError(w, "invalid run id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	run, err := s.store.GetRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load run: "+err.Error(), http.StatusInternalServerError)
		return
	}
	docs, err := s.store.Documents(ctx, id)
	if err != nil {
		jsonError(w, "failed to load documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	matches, err := s.store.Repeats(ctx, id)
	if err != nil {
		jsonError(w, "failed to load repeats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"run":       run,
		"documents": docs,
		"repeats":   matches,
	})
}
