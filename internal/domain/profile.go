package domain

import "time"

// DefaultNotificationTimes seeds new profiles with the daily reminder slots
// the mobile app ships with.
var DefaultNotificationTimes = []string{"04:00", "05:00", "06:00", "07:00", "10:00"}

// Profile holds a user's public identity plus their WhatsApp notification
// preferences. Exactly one profile exists per user.
type Profile struct {
	UserID              string    `json:"id" dynamodbav:"user_id"`
	Username            string    `json:"username" dynamodbav:"username"`
	FullName            string    `json:"full_name" dynamodbav:"full_name"`
	WhatsAppNumber      string    `json:"whatsapp_number" dynamodbav:"whatsapp_number"`
	NotificationTimes   []string  `json:"notification_times" dynamodbav:"notification_times"`
	SelectedInterests   []string  `json:"selected_interests" dynamodbav:"selected_interests"`
	EnableNotifications bool      `json:"enable_notifications" dynamodbav:"enable_notifications"`
	PictureKey          string    `json:"-" dynamodbav:"picture_key"`
	CreatedAt           time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt           time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateProfileRequest struct {
	Username          string   `json:"username" validate:"required"`
	FullName          string   `json:"full_name" validate:"required"`
	WhatsAppNumber    string   `json:"whatsapp_number"`
	NotificationTimes []string `json:"notification_times"`
	SelectedInterests []string `json:"selected_interests"`
}

type UpdateProfileRequest struct {
	Username            *string   `json:"username"`
	FullName            *string   `json:"full_name"`
	WhatsAppNumber      *string   `json:"whatsapp_number"`
	NotificationTimes   *[]string `json:"notification_times"`
	SelectedInterests   *[]string `json:"selected_interests"`
	EnableNotifications *bool     `json:"enable_notifications"`
}
