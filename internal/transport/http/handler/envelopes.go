package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/momentum-app/momentum-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ScheduleEnvelope wraps schedule-notification responses.
type ScheduleEnvelope struct {
	Message        string `json:"message"`
	NotificationID string `json:"notificationId"`
}

// ClearEnvelope wraps clear-scheduled-notifications responses.
type ClearEnvelope struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// CreateProfileEnvelope wraps profile creation responses.
type CreateProfileEnvelope struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ProfileView is the wire shape the frontend expects for a profile.
type ProfileView struct {
	ID                  string   `json:"id"`
	Username            string   `json:"username"`
	FullName            string   `json:"full_name"`
	WhatsAppNumber      string   `json:"whatsapp_number"`
	NotificationTimes   []string `json:"notification_times"`
	SelectedInterests   []string `json:"selected_interests"`
	AvatarURL           *string  `json:"avatar_url"`
	EnableNotifications bool     `json:"enable_notifications"`
}

func toProfileView(p *domain.Profile) *ProfileView {
	v := &ProfileView{
		ID:                  p.UserID,
		Username:            p.Username,
		FullName:            p.FullName,
		WhatsAppNumber:      p.WhatsAppNumber,
		NotificationTimes:   p.NotificationTimes,
		SelectedInterests:   p.SelectedInterests,
		EnableNotifications: p.EnableNotifications,
	}
	if p.PictureKey != "" {
		url := "/api/profile/picture/" + p.UserID
		v.AvatarURL = &url
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps a service error to an HTTP status. Validation detail
// is user-facing; everything else gets a generic message so internals never
// leak into responses.
func writeDomainError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
