package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/service"
)

// MessageHandler handles message dispatch HTTP requests
type MessageHandler struct {
	dispatchService service.DispatchService
	logger          *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(dispatchService service.DispatchService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		dispatchService: dispatchService,
		logger:          logger,
	}
}

// Send handles POST /messages/send
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req service.SendMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.dispatchService.Send(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// Preview handles POST /messages/preview
func (h *MessageHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req service.PreviewRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.dispatchService.Preview(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// BulkSend handles POST /messages/bulk-send
func (h *MessageHandler) BulkSend(w http.ResponseWriter, r *http.Request) {
	var req service.SendMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.dispatchService.EnqueueBulk(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondAccepted(w, result)
}

// ListLogs handles GET /messages/logs
func (h *MessageHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	customerID, _ := strconv.ParseInt(query.Get("customer_id"), 10, 64)
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	filter := models.MessageLogFilter{
		CustomerID:  customerID,
		Status:      query.Get("status"),
		MessageType: query.Get("message_type"),
		Page:        page,
		PageSize:    pageSize,
	}

	result, err := h.dispatchService.ListLogs(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}
