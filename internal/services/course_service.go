package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
)

type CourseService struct {
	db *pgxpool.Pool
}

func NewCourseService(db *pgxpool.Pool) *CourseService {
	return &CourseService{db: db}
}

type CreateCourseInput struct {
	TeacherID   int64
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
}

func (s *CourseService) CreateCourse(
	ctx context.Context,
	input CreateCourseInput,
) (*models.Course, error) {
	if input.Price.IsNegative() {
		return nil, ErrInvalidAmount
	}

	return repository.NewCourseRepository(s.db).Create(ctx, repository.CreateCourseInput{
		TeacherID:   input.TeacherID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
	})
}

func (s *CourseService) GetCourse(
	ctx context.Context,
	courseID int64,
) (*models.Course, error) {
	course, err := repository.NewCourseRepository(s.db).GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(
	ctx context.Context,
	filter repository.CourseListFilter,
) ([]models.Course, error) {
	return repository.NewCourseRepository(s.db).List(ctx, filter)
}
