package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
)

// SessionService manages the live-session catalog: creation by
// teachers and discovery by students.
type SessionService struct {
	db *pgxpool.Pool
}

func NewSessionService(db *pgxpool.Pool) *SessionService {
	return &SessionService{db: db}
}

type CreateSessionInput struct {
	TeacherID   int64
	CourseID    *int64
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	Price       decimal.Decimal
	MaxStudents int
	Category    string
}

// validateSessionWindow rejects schedules that start in the past or
// end before they begin.
func validateSessionWindow(now, start, end time.Time) error {
	if !start.After(now) {
		return ErrInvalidSchedule
	}
	if !end.After(start) {
		return ErrInvalidSchedule
	}
	return nil
}

func (s *SessionService) CreateSession(
	ctx context.Context,
	input CreateSessionInput,
) (*models.Session, error) {
	if err := validateSessionWindow(time.Now(), input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if input.MaxStudents < 1 {
		return nil, ErrInvalidState
	}

	if input.CourseID != nil {
		course, err := repository.NewCourseRepository(s.db).GetByID(ctx, *input.CourseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if course.TeacherID != input.TeacherID {
			return nil, ErrNotOwner
		}
	}

	return repository.NewSessionRepository(s.db).Create(ctx, repository.CreateSessionInput{
		CourseID:    input.CourseID,
		TeacherID:   input.TeacherID,
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Price:       input.Price,
		MaxStudents: input.MaxStudents,
		Category:    input.Category,
		MeetingURL:  "https://meet.learnx.io/" + uuid.NewString(),
	})
}

const recentReviewLimit = 5

// SessionDetail is a session plus its most recent reviews.
type SessionDetail struct {
	Session *models.Session `json:"session"`
	Reviews []models.Review `json:"reviews"`
}

func (s *SessionService) GetSession(
	ctx context.Context,
	sessionID int64,
) (*SessionDetail, error) {
	session, err := repository.NewSessionRepository(s.db).GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reviews, err := repository.NewReviewRepository(s.db).
		ListByItem(ctx, "session", sessionID, recentReviewLimit, 0)
	if err != nil {
		return nil, err
	}

	return &SessionDetail{Session: session, Reviews: reviews}, nil
}

// ListAvailable returns upcoming sessions that can still be booked,
// optionally narrowed by category, price range, date range or teacher.
func (s *SessionService) ListAvailable(
	ctx context.Context,
	filter repository.SessionListFilter,
) ([]models.Session, error) {
	return repository.NewSessionRepository(s.db).ListAvailable(ctx, filter)
}
