package models

import "time"

const (
	ReviewItemCourse  = "course"
	ReviewItemSession = "session"
	ReviewItemTeacher = "teacher"
)

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	ItemType  string    `json:"item_type"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
