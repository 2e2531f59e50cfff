package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
)

// BookingService handles seat reservations against live sessions and
// enrollments into courses, moving money through the ledger as part
// of the same transaction that claims the seat.
type BookingService struct {
	db       *pgxpool.Pool
	ledger   *LedgerService
	notifier *NotificationService
	log      *logrus.Logger
}

func NewBookingService(
	db *pgxpool.Pool,
	ledger *LedgerService,
	notifier *NotificationService,
	log *logrus.Logger,
) *BookingService {
	return &BookingService{db: db, ledger: ledger, notifier: notifier, log: log}
}

// BookSession reserves a seat and pays the teacher in one transaction.
// The seat claim is a conditional increment, so when two students race
// for the last seat exactly one of them gets it.
func (s *BookingService) BookSession(
	ctx context.Context,
	userID int64,
	sessionID int64,
	notes *string,
) (*models.Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	sessionRepo := repository.NewSessionRepository(tx)
	session, err := sessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if session.IsCancelled {
		return nil, ErrSessionCancelled
	}
	if !session.StartTime.After(time.Now()) {
		return nil, ErrSessionStarted
	}
	if session.TeacherID == userID {
		return nil, ErrSelfBooking
	}

	bookingRepo := repository.NewBookingRepository(tx)
	booked, err := bookingRepo.HasBooking(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, ErrDuplicateBooking
	}

	if _, err := sessionRepo.IncrementStudentsIfBelowCap(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionFull
		}
		return nil, err
	}

	booking, err := bookingRepo.Create(ctx, repository.CreateBookingInput{
		SessionID: sessionID,
		UserID:    userID,
		Notes:     notes,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}

	if session.Price.IsPositive() {
		_, _, err = s.ledger.TransferTx(ctx, tx, TransferInput{
			FromUserID:  userID,
			ToUserID:    session.TeacherID,
			Amount:      session.Price,
			DebitKind:   models.TransactionPayment,
			CreditKind:  models.TransactionEarning,
			DebitDesc:   fmt.Sprintf("Payment for session: %s", session.Title),
			CreditDesc:  fmt.Sprintf("Earning from session: %s", session.Title),
			ReferenceID: fmt.Sprintf("session-%d", sessionID),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, repository.CreateNotificationInput{
		UserID:      session.TeacherID,
		Title:       "New booking",
		Message:     fmt.Sprintf("A student booked your session %q", session.Title),
		Type:        models.NotificationBooking,
		ReferenceID: fmt.Sprintf("session-%d", sessionID),
	})

	return booking, nil
}

// CancellationResult reports what a booking cancellation did to the
// student's wallet.
type CancellationResult struct {
	Booking       *models.Booking     `json:"booking"`
	RefundPercent int64               `json:"refund_percent"`
	RefundAmount  decimal.Decimal     `json:"refund_amount"`
	Refund        *models.Transaction `json:"refund,omitempty"`
}

// CancelBooking releases the seat and refunds the student according
// to the time remaining before the session starts.
func (s *BookingService) CancelBooking(
	ctx context.Context,
	userID int64,
	bookingID int64,
) (*CancellationResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	bookingRepo := repository.NewBookingRepository(tx)
	booking, err := bookingRepo.GetByIDForUpdate(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.Status != models.BookingConfirmed {
		return nil, ErrInvalidState
	}

	sessionRepo := repository.NewSessionRepository(tx)
	session, err := sessionRepo.GetByIDForUpdate(ctx, booking.SessionID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !session.StartTime.After(now) {
		return nil, ErrSessionStarted
	}

	booking, err = bookingRepo.UpdateStatusIfCurrent(ctx, bookingID, models.BookingConfirmed, models.BookingCancelled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	if _, err := sessionRepo.DecrementStudents(ctx, session.ID); err != nil {
		return nil, err
	}

	var refund *models.Transaction
	fraction := refundFraction(now, session.StartTime)
	amount := refundAmount(session.Price, fraction)
	if amount.IsPositive() {
		_, refund, err = s.ledger.TransferTx(ctx, tx, TransferInput{
			FromUserID:  session.TeacherID,
			ToUserID:    userID,
			Amount:      amount,
			DebitKind:   models.TransactionDeduction,
			CreditKind:  models.TransactionRefund,
			DebitDesc:   fmt.Sprintf("Refund issued for session: %s", session.Title),
			CreditDesc:  fmt.Sprintf("Refund for session: %s", session.Title),
			ReferenceID: fmt.Sprintf("session-%d", session.ID),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, repository.CreateNotificationInput{
		UserID:      session.TeacherID,
		Title:       "Booking cancelled",
		Message:     fmt.Sprintf("A student cancelled their booking for %q", session.Title),
		Type:        models.NotificationCancellation,
		ReferenceID: fmt.Sprintf("session-%d", session.ID),
	})

	return &CancellationResult{
		Booking:       booking,
		RefundPercent: fraction.Mul(decimal.NewFromInt(100)).IntPart(),
		RefundAmount:  amount,
		Refund:        refund,
	}, nil
}

// CancelSession cancels the whole session and refunds every confirmed
// booking in full. The session flip is one transaction; each booking's
// refund is its own, so one broken booking does not hold the rest
// hostage. Returns how many bookings were refunded out of how many
// were attempted.
func (s *BookingService) CancelSession(
	ctx context.Context,
	teacherID int64,
	sessionID int64,
) (processed int, attempted int, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	sessionRepo := repository.NewSessionRepository(tx)
	session, err := sessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, err
	}
	if session.TeacherID != teacherID {
		return 0, 0, ErrNotOwner
	}
	if session.IsCancelled {
		return 0, 0, ErrSessionCancelled
	}
	if !session.StartTime.After(time.Now()) {
		return 0, 0, ErrSessionStarted
	}

	if _, err := sessionRepo.MarkCancelled(ctx, sessionID); err != nil {
		return 0, 0, err
	}

	bookings, err := repository.NewBookingRepository(tx).ListConfirmedBySession(ctx, sessionID)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}

	for _, booking := range bookings {
		if err := s.refundCancelledBooking(ctx, session, booking); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"session_id": sessionID,
			}).Error("failed to refund booking for cancelled session")
			continue
		}
		processed++

		s.notifier.Notify(ctx, repository.CreateNotificationInput{
			UserID:      booking.UserID,
			Title:       "Session cancelled",
			Message:     fmt.Sprintf("The session %q was cancelled and your payment refunded", session.Title),
			Type:        models.NotificationCancellation,
			ReferenceID: fmt.Sprintf("session-%d", sessionID),
		})
	}

	return processed, len(bookings), nil
}

// refundCancelledBooking flips one booking to cancelled and refunds it
// in full, as its own atomic unit.
func (s *BookingService) refundCancelledBooking(
	ctx context.Context,
	session *models.Session,
	booking models.Booking,
) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = repository.NewBookingRepository(tx).UpdateStatusIfCurrent(
		ctx, booking.ID, models.BookingConfirmed, models.BookingCancelled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already cancelled or completed elsewhere; nothing owed.
			return nil
		}
		return err
	}

	if session.Price.IsPositive() {
		_, _, err = s.ledger.TransferTx(ctx, tx, TransferInput{
			FromUserID:  session.TeacherID,
			ToUserID:    booking.UserID,
			Amount:      session.Price,
			DebitKind:   models.TransactionDeduction,
			CreditKind:  models.TransactionRefund,
			DebitDesc:   fmt.Sprintf("Refund issued for cancelled session: %s", session.Title),
			CreditDesc:  fmt.Sprintf("Refund for cancelled session: %s", session.Title),
			ReferenceID: fmt.Sprintf("session-%d", session.ID),
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// EnrollInCourse enrolls the student and pays the teacher the course
// price in one transaction. Courses have no seat cap; the unique
// constraint on (user_id, course_id) is the only gate.
func (s *BookingService) EnrollInCourse(
	ctx context.Context,
	userID int64,
	courseID int64,
) (*models.Enrollment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	courseRepo := repository.NewCourseRepository(tx)
	course, err := courseRepo.GetByIDForUpdate(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if course.TeacherID == userID {
		return nil, ErrSelfEnrollment
	}

	enrollmentRepo := repository.NewEnrollmentRepository(tx)
	enrolled, err := enrollmentRepo.Exists(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	enrollment, err := enrollmentRepo.Create(ctx, courseID, userID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	if err := courseRepo.IncrementStudents(ctx, courseID); err != nil {
		return nil, err
	}

	if course.Price.IsPositive() {
		_, _, err = s.ledger.TransferTx(ctx, tx, TransferInput{
			FromUserID:  userID,
			ToUserID:    course.TeacherID,
			Amount:      course.Price,
			DebitKind:   models.TransactionPayment,
			CreditKind:  models.TransactionEarning,
			DebitDesc:   fmt.Sprintf("Payment for course: %s", course.Title),
			CreditDesc:  fmt.Sprintf("Earning from course: %s", course.Title),
			ReferenceID: fmt.Sprintf("course-%d", courseID),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, repository.CreateNotificationInput{
		UserID:      course.TeacherID,
		Title:       "New enrollment",
		Message:     fmt.Sprintf("A student enrolled in your course %q", course.Title),
		Type:        models.NotificationEnrollment,
		ReferenceID: fmt.Sprintf("course-%d", courseID),
	})

	return enrollment, nil
}

// ListBookings returns the user's bookings, newest first.
func (s *BookingService) ListBookings(
	ctx context.Context,
	userID int64,
) ([]models.Booking, error) {
	return repository.NewBookingRepository(s.db).ListByUser(ctx, userID)
}
