package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
)

type CreateCourseInput struct {
	TeacherID   int64
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
}

type CourseListFilter struct {
	Category  string
	TeacherID *int64
}

const courseColumns = `id, teacher_id, title, description, category, price, avg_rating,
		total_students, is_published, created_at, updated_at`

type CourseRepository struct {
	db DBTX
}

func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) scanCourse(row interface{ Scan(...any) error }) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.TeacherID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Price,
		&course.AvgRating,
		&course.TotalStudents,
		&course.IsPublished,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Create(
	ctx context.Context,
	input CreateCourseInput,
) (*models.Course, error) {
	query := fmt.Sprintf(`
		INSERT INTO courses (teacher_id, title, description, category, price, is_published)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING %s
	`, courseColumns)
	return r.scanCourse(r.db.QueryRow(
		ctx,
		query,
		input.TeacherID,
		input.Title,
		input.Description,
		input.Category,
		input.Price,
	))
}

func (r *CourseRepository) GetByID(ctx context.Context, courseID int64) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	return r.scanCourse(r.db.QueryRow(ctx, query, courseID))
}

func (r *CourseRepository) GetByIDForUpdate(
	ctx context.Context,
	courseID int64,
) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1 FOR UPDATE`, courseColumns)
	return r.scanCourse(r.db.QueryRow(ctx, query, courseID))
}

// IsOwnedBy reports whether the course exists and belongs to the teacher.
func (r *CourseRepository) IsOwnedBy(
	ctx context.Context,
	courseID int64,
	teacherID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM courses WHERE id = $1 AND teacher_id = $2
		)
	`
	var owned bool
	if err := r.db.QueryRow(ctx, query, courseID, teacherID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}

func (r *CourseRepository) List(
	ctx context.Context,
	filter CourseListFilter,
) ([]models.Course, error) {
	args := []any{}
	whereParts := []string{"is_published = TRUE"}

	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		whereParts = append(whereParts, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.TeacherID != nil {
		args = append(args, *filter.TeacherID)
		whereParts = append(whereParts, fmt.Sprintf("teacher_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM courses
		WHERE %s
		ORDER BY created_at DESC, id DESC
	`, courseColumns, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		course, err := r.scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *CourseRepository) IncrementStudents(ctx context.Context, courseID int64) error {
	query := `
		UPDATE courses
		SET total_students = total_students + 1, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, courseID)
	return err
}

func (r *CourseRepository) UpdateAvgRating(
	ctx context.Context,
	courseID int64,
	avgRating decimal.Decimal,
) error {
	query := `
		UPDATE courses
		SET avg_rating = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, courseID, avgRating)
	return err
}
