package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"layerlabs.io/support-chat/internal/catalog"
	"layerlabs.io/support-chat/internal/core"
	"layerlabs.io/support-chat/internal/metrics"
	"layerlabs.io/support-chat/internal/store"
)

const maxRequestBodyBytes = 1 << 20

// Replier answers one chat message.
type Replier interface {
	Reply(ctx context.Context, req core.ChatRequest) (*core.ChatResult, error)
}

// InteractionRecorder persists a summary of each answered request.
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, it *store.Interaction) error
}

type APIHandler struct {
	chatService Replier
	recorder    InteractionRecorder
	logger      *zap.Logger
}

// NewAPIHandler wires the handler. recorder may be nil.
func NewAPIHandler(cs Replier, recorder InteractionRecorder, logger *zap.Logger) *APIHandler {
	return &APIHandler{chatService: cs, recorder: recorder, logger: logger.Named("api")}
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req core.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.finish(r, w, nil, "", http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.chatService.Reply(r.Context(), req)
	if err != nil {
		status, body := h.errorResponse(err)
		if status == http.StatusInternalServerError || status == http.StatusBadGateway {
			h.logger.Error("chat request failed", zap.Error(err), zap.Int("status", status))
		}
		h.finish(r, w, result, req.SessionID, status, body)
		return
	}

	h.finish(r, w, result, req.SessionID, http.StatusOK, ChatResponse{Reply: result.Reply})
}

func (h *APIHandler) errorResponse(err error) (int, ErrorResponse) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, ErrorResponse{Error: vErr.Error()}
	}
	var catErr *catalog.Error
	if errors.As(err, &catErr) {
		return http.StatusBadGateway, ErrorResponse{Error: "Shopify API error: " + catErr.Error()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
}

// finish writes the single response body and records the outcome.
func (h *APIHandler) finish(r *http.Request, w http.ResponseWriter, result *core.ChatResult, sessionID string, status int, body any) {
	writeJSON(w, status, body)

	intentLabel, source := "none", ""
	if result != nil {
		intentLabel, source = string(result.Intent.Intent), string(result.Intent.Source)
	}
	metrics.ChatRequests.WithLabelValues(intentLabel, strconv.Itoa(status)).Inc()

	if h.recorder == nil || result == nil {
		return
	}
	it := &store.Interaction{
		SessionID: sessionID,
		Intent:    intentLabel,
		Source:    source,
		Status:    status,
	}
	// the reply has already been written; a logging failure must not change it
	if err := h.recorder.RecordInteraction(context.WithoutCancel(r.Context()), it); err != nil {
		h.logger.Warn("failed to record interaction", zap.Error(err))
	}
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

