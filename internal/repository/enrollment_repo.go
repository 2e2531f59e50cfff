package repository

import (
	"context"

	"github.com/sohail-1209/learnx/internal/models"
)

type EnrollmentRepository struct {
	db DBTX
}

func NewEnrollmentRepository(db DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(
	ctx context.Context,
	courseID int64,
	userID int64,
) (*models.Enrollment, error) {
	query := `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
		RETURNING id, user_id, course_id, enrolled_at
	`
	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.EnrolledAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Exists(
	ctx context.Context,
	courseID int64,
	userID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, courseID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
