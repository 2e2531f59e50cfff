package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

type Session struct {
	ID              int64           `json:"id"`
	CourseID        *int64          `json:"course_id"`
	TeacherID       int64           `json:"teacher_id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Price           decimal.Decimal `json:"price"`
	MaxStudents     int             `json:"max_students"`
	CurrentStudents int             `json:"current_students"`
	Category        string          `json:"category"`
	MeetingURL      string          `json:"meeting_url"`
	AvgRating       decimal.Decimal `json:"avg_rating"`
	IsCancelled     bool            `json:"is_cancelled"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Booking struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Notes     *string   `json:"notes"`
	Status    string    `json:"status"`
	BookedAt  time.Time `json:"booked_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
