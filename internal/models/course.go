package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Course struct {
	ID            int64           `json:"id"`
	TeacherID     int64           `json:"teacher_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	AvgRating     decimal.Decimal `json:"avg_rating"`
	TotalStudents int             `json:"total_students"`
	IsPublished   bool            `json:"is_published"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Enrollment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CourseID   int64     `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
