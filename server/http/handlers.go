package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/w-h-a/newsagent/article"
	"github.com/w-h-a/newsagent/index"
)

const (
	errQueryRequired = "Field 'query' is required"
)

// Agent is the query surface the handlers expose.
type Agent interface {
	AskAgent(ctx context.Context, query string) article.AgentResponse
	AskAgentStream(ctx context.Context, query string) <-chan article.AgentResponse
	Variant() index.Variant
}

type askRequest struct {
	Query string `json:"query"`
}

type handlers struct {
	agent Agent
}

func (h *handlers) ask(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, h.agent.AskAgent(r.Context(), query))
}

func (h *handlers) askStream(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	for rsp := range h.agent.AskAgentStream(r.Context(), query) {
		data, err := json.Marshal(rsp)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to encode stream event", "error", err)
			return
		}
		w.Write([]byte("event: agentStream\ndata: "))
		w.Write(data)
		w.Write([]byte("\n\n"))
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ok",
		"index":  string(h.agent.Variant()),
	})
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(strings.TrimSpace(req.Query)) == 0 {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": errQueryRequired})
		return "", false
	}
	return req.Query, true
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
