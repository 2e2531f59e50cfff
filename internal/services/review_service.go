package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
)

// ReviewService accepts ratings on courses, sessions and teachers.
// A user can only review what they actually bought: an enrollment for
// a course, a booking for a session, any past booking for a teacher.
type ReviewService struct {
	db       *pgxpool.Pool
	notifier *NotificationService
}

func NewReviewService(db *pgxpool.Pool, notifier *NotificationService) *ReviewService {
	return &ReviewService{db: db, notifier: notifier}
}

type SubmitReviewInput struct {
	UserID   int64
	ItemID   int64
	ItemType string
	Rating   int
	Comment  *string
}

func (s *ReviewService) SubmitReview(
	ctx context.Context,
	input SubmitReviewInput,
) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}
	switch input.ItemType {
	case models.ReviewItemCourse, models.ReviewItemSession, models.ReviewItemTeacher:
	default:
		return nil, ErrInvalidState
	}

	ownerID, err := s.authorize(ctx, input)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	reviewRepo := repository.NewReviewRepository(tx)
	review, err := reviewRepo.Upsert(ctx, repository.UpsertReviewInput{
		UserID:   input.UserID,
		ItemID:   input.ItemID,
		ItemType: input.ItemType,
		Rating:   input.Rating,
		Comment:  input.Comment,
	})
	if err != nil {
		return nil, err
	}

	avg, err := reviewRepo.AverageForItem(ctx, input.ItemType, input.ItemID)
	if err != nil {
		return nil, err
	}
	avg = avg.Round(2)

	switch input.ItemType {
	case models.ReviewItemCourse:
		err = repository.NewCourseRepository(tx).UpdateAvgRating(ctx, input.ItemID, avg)
	case models.ReviewItemSession:
		err = repository.NewSessionRepository(tx).UpdateAvgRating(ctx, input.ItemID, avg)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, repository.CreateNotificationInput{
		UserID:      ownerID,
		Title:       "New review",
		Message:     fmt.Sprintf("You received a %d-star review", input.Rating),
		Type:        models.NotificationReview,
		ReferenceID: fmt.Sprintf("%s-%d", input.ItemType, input.ItemID),
	})

	return review, nil
}

// authorize checks the reviewer actually consumed the item and returns
// the user to notify about the review.
func (s *ReviewService) authorize(
	ctx context.Context,
	input SubmitReviewInput,
) (ownerID int64, err error) {
	switch input.ItemType {
	case models.ReviewItemCourse:
		course, err := repository.NewCourseRepository(s.db).GetByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, ErrNotFound
			}
			return 0, err
		}
		enrolled, err := repository.NewEnrollmentRepository(s.db).Exists(ctx, input.ItemID, input.UserID)
		if err != nil {
			return 0, err
		}
		if !enrolled {
			return 0, ErrNotAuthorized
		}
		return course.TeacherID, nil

	case models.ReviewItemSession:
		session, err := repository.NewSessionRepository(s.db).GetByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, ErrNotFound
			}
			return 0, err
		}
		booked, err := repository.NewBookingRepository(s.db).HasBooking(ctx, input.ItemID, input.UserID)
		if err != nil {
			return 0, err
		}
		if !booked {
			return 0, ErrNotAuthorized
		}
		return session.TeacherID, nil

	default:
		teacher, err := repository.NewUserRepository(s.db).GetByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, ErrNotFound
			}
			return 0, err
		}
		if !teacher.IsTeacher {
			return 0, ErrNotFound
		}
		taught, err := repository.NewBookingRepository(s.db).HasBookingWithTeacher(ctx, input.ItemID, input.UserID)
		if err != nil {
			return 0, err
		}
		if !taught {
			return 0, ErrNotAuthorized
		}
		return teacher.ID, nil
	}
}

// DeleteReview removes the user's own review and recomputes the
// item's average rating in the same transaction.
func (s *ReviewService) DeleteReview(
	ctx context.Context,
	userID int64,
	reviewID int64,
) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	reviewRepo := repository.NewReviewRepository(tx)
	review, err := reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrNotOwner
	}

	if err := reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	avg, err := reviewRepo.AverageForItem(ctx, review.ItemType, review.ItemID)
	if err != nil {
		return err
	}
	avg = avg.Round(2)

	switch review.ItemType {
	case models.ReviewItemCourse:
		err = repository.NewCourseRepository(tx).UpdateAvgRating(ctx, review.ItemID, avg)
	case models.ReviewItemSession:
		err = repository.NewSessionRepository(tx).UpdateAvgRating(ctx, review.ItemID, avg)
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *ReviewService) ListReviews(
	ctx context.Context,
	itemType string,
	itemID int64,
	page int,
	limit int,
) ([]models.Review, models.PaginationMeta, error) {
	switch itemType {
	case models.ReviewItemCourse, models.ReviewItemSession, models.ReviewItemTeacher:
	default:
		return nil, models.PaginationMeta{}, ErrInvalidState
	}

	reviewRepo := repository.NewReviewRepository(s.db)
	reviews, err := reviewRepo.ListByItem(ctx, itemType, itemID, limit, (page-1)*limit)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	total, err := reviewRepo.CountByItem(ctx, itemType, itemID)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	meta := models.PaginationMeta{Page: page, Limit: limit, Total: total}
	if total > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return reviews, meta, nil
}
