package models

import "time"

const (
	NotificationBooking      = "booking"
	NotificationCancellation = "cancellation"
	NotificationEnrollment   = "enrollment"
	NotificationReview       = "review"
)

type Notification struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	ReferenceID string    `json:"reference_id"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
