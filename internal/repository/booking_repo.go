package repository

import (
	"context"
	"time"

	"github.com/sohail-1209/learnx/internal/models"
)

type CreateBookingInput struct {
	SessionID int64
	UserID    int64
	Notes     *string
}

const bookingColumns = `id, session_id, user_id, notes, status, booked_at, updated_at`

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var booking models.Booking
	err := row.Scan(
		&booking.ID,
		&booking.SessionID,
		&booking.UserID,
		&booking.Notes,
		&booking.Status,
		&booking.BookedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) Create(
	ctx context.Context,
	input CreateBookingInput,
) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (session_id, user_id, notes, status)
		VALUES ($1, $2, $3, 'confirmed')
		RETURNING ` + bookingColumns
	return r.scanBooking(r.db.QueryRow(ctx, query, input.SessionID, input.UserID, input.Notes))
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRow(ctx, query, bookingID))
}

func (r *BookingRepository) GetByIDForUpdate(
	ctx context.Context,
	bookingID int64,
) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.scanBooking(r.db.QueryRow(ctx, query, bookingID))
}

func (r *BookingRepository) HasBooking(
	ctx context.Context,
	sessionID int64,
	userID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings WHERE session_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, sessionID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BookingRepository) ListConfirmedBySession(
	ctx context.Context,
	sessionID int64,
) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE session_id = $1 AND status = 'confirmed'
		ORDER BY booked_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY booked_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// UpdateStatusIfCurrent is a compare-and-set on the booking status;
// pgx.ErrNoRows means the booking was not in currentStatus anymore.
func (r *BookingRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	bookingID int64,
	currentStatus string,
	nextStatus string,
) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns
	return r.scanBooking(r.db.QueryRow(ctx, query, bookingID, currentStatus, nextStatus))
}

// CompletePastBookings flips confirmed bookings whose session already
// ended to completed. Cancelled sessions are left alone; their
// bookings are handled by the cancellation flow.
func (r *BookingRepository) CompletePastBookings(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	query := `
		UPDATE bookings b
		SET status = 'completed', updated_at = NOW()
		FROM sessions s
		WHERE b.session_id = s.id
		  AND b.status = 'confirmed'
		  AND s.is_cancelled = FALSE
		  AND s.end_time <= $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// HasBookingWithTeacher reports whether the user has ever booked any
// session taught by the teacher. Used by review authorization.
func (r *BookingRepository) HasBookingWithTeacher(
	ctx context.Context,
	teacherID int64,
	userID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings b
			JOIN sessions s ON b.session_id = s.id
			WHERE s.teacher_id = $1 AND b.user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, teacherID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
