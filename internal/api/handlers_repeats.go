package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/asynkron/supermaxrep"
	"github.com/asynkron/supermaxrep/internal/store"
)

type repeatsRequest struct {
	Docs   []string `json:"docs"`
	Names  []string `json:"names,omitempty"`
	MinLen *int     `json:"min_len,omitempty"`
	MinOcc *int     `json:"min_occ,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	Save   bool     `json:"save,omitempty"`
}

type repeatsResponse struct {
	Repeats []supermaxrep.Match `json:"repeats"`
	Stats   supermaxrep.Stats   `json:"stats"`
	RunID   string              `json:"run_id,omitempty"`
}

// handleRepeats scans the posted documents and returns their supermaximal
// repeats.
func (s *Server) handleRepeats(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req repeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request body exceeds %d bytes", s.cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Docs) > s.cfg.MaxDocs {
		jsonError(w, fmt.Sprintf("too many documents: %d (max %d)", len(req.Docs), s.cfg.MaxDocs), http.StatusBadRequest)
		return
	}
	if len(req.Names) != 0 && len(req.Names) != len(req.Docs) {
		jsonError(w, "names must match docs in length", http.StatusBadRequest)
		return
	}

	mode, err := supermaxrep.ParseMode(req.Mode)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts := supermaxrep.Options{
		MinLen:  s.cfg.DefaultMinLen,
		MinOcc:  s.cfg.DefaultMinOcc,
		Mode:    mode,
		Workers: runtime.NumCPU(),
	}
	if req.MinLen != nil {
		opts.MinLen = *req.MinLen
	}
	if req.MinOcc != nil {
		opts.MinOcc = *req.MinOcc
	}

	start := time.Now()
	matches, stats, err := supermaxrep.Scan(req.Docs, opts)
	if err != nil {
		if errors.Is(err, supermaxrep.ErrInvalidArgument) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "scan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("scan complete",
		"documents", stats.Documents,
		"units", stats.Units,
		"repeats", stats.Reported,
		"mode", string(mode),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	resp := repeatsResponse{Repeats: matches, Stats: stats}
	if req.Save {
		if s.store == nil {
			jsonError(w, "persistence is not configured", http.StatusServiceUnavailable)
			return
		}
		names := req.Names
		if len(names) == 0 {
			names = make([]string, len(req.Docs))
			for i := range names {
				names[i] = fmt.Sprintf("doc_%d", i)
			}
		}
		run, err := s.store.SaveRun(r.Context(), store.RunInput{
			Names:   names,
			Options: opts,
			Stats:   stats,
			Matches: matches,
		})
		if err != nil {
			s.log.Error("save run", "error", err)
			jsonError(w, "failed to save run: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp.RunID = run.ID.String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
