package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/witple/witple/internal/handler/dto"
	"github.com/witple/witple/internal/model"
	"github.com/witple/witple/internal/repository"
)

// Listing defaults per the message CRUD contract.
const (
	defaultListOffset = 0
	defaultListLimit  = 100
)

// MessageHandler handles plain CRUD over the message store.
type MessageHandler struct {
	messages MessageStore
	logger   *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages MessageStore, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		logger:   logger,
	}
}

// Create handles POST /api/v1/messages.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	msg := &model.Message{Content: req.Content}
	if err := h.messages.CreateMessage(r.Context(), msg); err != nil {
		h.internalError(w, err)
		return
	}

	h.logger.Info("message_created", "message_id", msg.ID)

	writeJSON(w, http.StatusCreated, msg)
}

// List handles GET /api/v1/messages.
// Returns messages in ascending id order, windowed by offset/limit
// (defaults 0/100).
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	offset := defaultListOffset
	if s := query.Get("offset"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	// limit=0 is honored as-is and yields an empty window.
	limit := defaultListLimit
	if s := query.Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			limit = parsed
		}
	}

	messages, err := h.messages.ListMessages(r.Context(), offset, limit)
	if err != nil {
		h.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// Get handles GET /api/v1/messages/{id}.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	msg, err := h.messages.GetMessageByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

// Update handles PUT /api/v1/messages/{id} with partial-field semantics.
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.messages.UpdateMessage(r.Context(), id, req.ToMessagePatch())
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.logger.Info("message_updated", "message_id", msg.ID)

	writeJSON(w, http.StatusOK, msg)
}

// Delete handles DELETE /api/v1/messages/{id}. 204 on success, 404 if absent.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	deleted, err := h.messages.DeleteMessage(r.Context(), id)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}

	h.logger.Info("message_deleted", "message_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// messageID parses the {id} route parameter. Writes 404 on garbage ids,
// matching the behavior for ids that simply do not exist.
func (h *MessageHandler) messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Message not found")
		return 0, false
	}
	return id, true
}

// handleStoreError maps repository errors to HTTP responses.
func (h *MessageHandler) handleStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrMessageNotFound) {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	h.internalError(w, err)
}

func (h *MessageHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "An internal error occurred")
}
