package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/history"
	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePrompt(w, r)
	if !ok {
		return
	}

	sp := spec.New(req.Prompt)
	result, err := s.copilot.Breakdown(r.Context(), sp)
	if err != nil && !errors.Is(err, pipeline.ErrUnparseable) {
		s.log.Error("breakdown failed", zap.String("spec_id", sp.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := BreakdownResponse{SpecID: sp.ID, Breakdown: result}
	if result != nil {
		resp.Band = spec.ComplexityBand(result.Complexity)
		resp.Advanced = spec.NeedsAdvancedModel(result.Complexity)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePrompt(w, r)
	if !ok {
		return
	}

	sp := spec.New(req.Prompt)
	out, err := s.copilot.Run(r.Context(), sp)
	if err != nil {
		s.log.Error("generate failed", zap.String("spec_id", sp.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Outcome: out, DurationMs: out.Duration.Milliseconds()})
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	if s.samples == nil {
		writeError(w, http.StatusServiceUnavailable, "samples are not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.samples.All(r.URL.Query().Get("host")))
}

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	if s.samples == nil {
		writeError(w, http.StatusServiceUnavailable, "samples are not configured")
		return
	}
	sample, ok := s.samples.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "sample not found")
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

func (s *Server) handleSearchSamples(w http.ResponseWriter, r *http.Request) {
	if s.samples == nil {
		writeError(w, http.StatusServiceUnavailable, "samples are not configured")
		return
	}
	var req SampleSearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" || req.Host == "" {
		writeError(w, http.StatusBadRequest, "text and host are required")
		return
	}

	matches, err := s.samples.Relevant(r.Context(), samples.Query{
		Text:           req.Text,
		Host:           spec.NormalizeHost(req.Host),
		CustomFunction: req.CustomFunction,
		Limit:          req.Limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []samples.Match{}
	}
	writeJSON(w, http.StatusOK, SampleSearchResponse{Matches: matches})
}

func (s *Server) handleListTurns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	q := r.URL.Query()
	opts := history.ListOptions{Host: q.Get("host"), Status: q.Get("status")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}

	turns, err := s.history.List(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if turns == nil {
		turns = []history.TurnSummary{}
	}
	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleGetTurn(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	turn, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "turn not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func decodePrompt(w http.ResponseWriter, r *http.Request) (PromptRequest, bool) {
	var req PromptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
