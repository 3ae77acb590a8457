package domain

import "time"

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
)

// ScheduledNotification is a one-shot message queued for an absolute point in
// time. Status only moves forward: pending -> sent or pending -> failed.
type ScheduledNotification struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	Message       string             `json:"message"`
	ScheduledTime time.Time          `json:"scheduled_time"`
	Status        NotificationStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NotificationLog is one row of the append-only dispatch audit trail.
// NotificationID is nil for immediate sends and daily reminders.
type NotificationLog struct {
	ID             int64              `json:"id"`
	NotificationID *string            `json:"notification_id"`
	SentAt         time.Time          `json:"sent_at"`
	Status         NotificationStatus `json:"status"`
	Response       string             `json:"response"`
}

type SendRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Message string `json:"message" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

type ScheduleRequest struct {
	UserID        string `json:"userId" validate:"required"`
	Message       string `json:"message" validate:"required"`
	ScheduledTime string `json:"scheduledTime" validate:"required"`
}

type ClearRequest struct {
	BeforeDate string `json:"beforeDate" validate:"required"`
}
