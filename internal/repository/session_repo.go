package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
)

type CreateSessionInput struct {
	CourseID    *int64
	TeacherID   int64
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	Price       decimal.Decimal
	MaxStudents int
	Category    string
	MeetingURL  string
}

type SessionListFilter struct {
	Category  string
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	DateFrom  *time.Time
	DateTo    *time.Time
	TeacherID *int64
}

const sessionColumns = `id, course_id, teacher_id, title, description, start_time, end_time,
		price, max_students, current_students, category, meeting_url, avg_rating, is_cancelled,
		created_at, updated_at`

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.CourseID,
		&session.TeacherID,
		&session.Title,
		&session.Description,
		&session.StartTime,
		&session.EndTime,
		&session.Price,
		&session.MaxStudents,
		&session.CurrentStudents,
		&session.Category,
		&session.MeetingURL,
		&session.AvgRating,
		&session.IsCancelled,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(
	ctx context.Context,
	input CreateSessionInput,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		INSERT INTO sessions
			(course_id, teacher_id, title, description, start_time, end_time, price, max_students, category, meeting_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, sessionColumns)

	return r.scanSession(r.db.QueryRow(
		ctx,
		query,
		input.CourseID,
		input.TeacherID,
		input.Title,
		input.Description,
		input.StartTime,
		input.EndTime,
		input.Price,
		input.MaxStudents,
		input.Category,
		input.MeetingURL,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(
	ctx context.Context,
	sessionID int64,
) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1 FOR UPDATE`, sessionColumns)
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) ListAvailable(
	ctx context.Context,
	filter SessionListFilter,
) ([]models.Session, error) {
	args := []any{time.Now().UTC()}
	whereParts := []string{"start_time > $1", "is_cancelled = FALSE"}

	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		whereParts = append(whereParts, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		whereParts = append(whereParts, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		whereParts = append(whereParts, fmt.Sprintf("price <= $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		whereParts = append(whereParts, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		whereParts = append(whereParts, fmt.Sprintf("start_time <= $%d", len(args)))
	}
	if filter.TeacherID != nil {
		args = append(args, *filter.TeacherID)
		whereParts = append(whereParts, fmt.Sprintf("teacher_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE %s
		ORDER BY start_time ASC, id ASC
	`, sessionColumns, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// IncrementStudentsIfBelowCap claims one seat. The capacity check is
// part of the UPDATE, so two concurrent bookers racing for the last
// seat resolve to one updated row and one pgx.ErrNoRows.
func (r *SessionRepository) IncrementStudentsIfBelowCap(
	ctx context.Context,
	sessionID int64,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET current_students = current_students + 1, updated_at = NOW()
		WHERE id = $1 AND current_students < max_students AND is_cancelled = FALSE
		RETURNING %s
	`, sessionColumns)
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

// DecrementStudents releases a seat, flooring at zero.
func (r *SessionRepository) DecrementStudents(
	ctx context.Context,
	sessionID int64,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET current_students = GREATEST(current_students - 1, 0), updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, sessionColumns)
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) MarkCancelled(
	ctx context.Context,
	sessionID int64,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET is_cancelled = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, sessionColumns)
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) UpdateAvgRating(
	ctx context.Context,
	sessionID int64,
	avgRating decimal.Decimal,
) error {
	query := `
		UPDATE sessions
		SET avg_rating = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, sessionID, avgRating)
	return err
}
