package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/momentum-app/momentum-api/internal/application/notification"
	"github.com/momentum-app/momentum-api/internal/domain"
)

// NotificationHandler handles WhatsApp send and scheduling endpoints.
type NotificationHandler struct {
	svc notification.Service
	log zerolog.Logger
}

func NewNotificationHandler(svc notification.Service, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.Message == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "userId, message, and phone are required")
		return
	}

	if err := h.svc.SendImmediate(r.Context(), req); err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("immediate send failed")
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to send WhatsApp message")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "WhatsApp message sent successfully"})
}

func (h *NotificationHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req domain.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.svc.Schedule(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("schedule notification failed")
		writeDomainError(w, err, "User profile not found")
		return
	}
	writeJSON(w, http.StatusCreated, ScheduleEnvelope{Message: "Notification scheduled", NotificationID: n.ID})
}

func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req domain.ClearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deleted, err := h.svc.ClearBefore(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("clear scheduled notifications failed")
		writeDomainError(w, err, "User profile not found")
		return
	}
	writeJSON(w, http.StatusOK, ClearEnvelope{Message: "Old scheduled notifications cleared", DeletedCount: deleted})
}
