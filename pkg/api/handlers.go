package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const maxQueryBytes = 1 << 20

type handlers struct {
	opts   Options
	logger zerolog.Logger
}

type QueryRequest struct {
	Message string `json:"message"`
}

type QueryResponse struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *handlers) root(w http.ResponseWriter, _ *http.Request) {
	endpoints := map[string]string{"health": "/health"}
	if h.opts.MCP != nil {
		endpoints["mcp"] = "/mcp"
	}
	if h.opts.Agent != nil {
		endpoints["query"] = "/query"
	}
	if h.opts.Metrics != nil {
		endpoints["metrics"] = "/metrics"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Hello World",
		"service":   h.opts.Service,
		"version":   h.opts.Version,
		"endpoints": endpoints,
	})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handlers) query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, QueryResponse{Status: "error", Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, QueryResponse{Status: "error", Error: "message is required"})
		return
	}

	turn, err := h.opts.Agent.Run(r.Context(), req.Message)
	if err != nil {
		h.logger.Error().Err(err).Msg("query failed")
		writeJSON(w, http.StatusBadGateway, QueryResponse{Status: "error", Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Status: "success", Response: turn.Text})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
