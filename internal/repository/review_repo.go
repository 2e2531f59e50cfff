package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
)

type UpsertReviewInput struct {
	UserID   int64
	ItemID   int64
	ItemType string
	Rating   int
	Comment  *string
}

const reviewColumns = `id, user_id, item_id, item_type, rating, comment, created_at, updated_at`

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) scanReview(row interface{ Scan(...any) error }) (*models.Review, error) {
	var review models.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ItemID,
		&review.ItemType,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Upsert creates the review or, when the user already reviewed the
// item, replaces the rating and comment. One review per user per item.
func (r *ReviewRepository) Upsert(
	ctx context.Context,
	input UpsertReviewInput,
) (*models.Review, error) {
	query := `
		INSERT INTO reviews (user_id, item_id, item_type, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, item_id, item_type)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING ` + reviewColumns
	return r.scanReview(r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.ItemID,
		input.ItemType,
		input.Rating,
		input.Comment,
	))
}

func (r *ReviewRepository) ListByItem(
	ctx context.Context,
	itemType string,
	itemID int64,
	limit int,
	offset int,
) ([]models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE item_id = $1 AND item_type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, itemID, itemType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		review, err := r.scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, reviewID int64) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return r.scanReview(r.db.QueryRow(ctx, query, reviewID))
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	return err
}

func (r *ReviewRepository) CountByItem(
	ctx context.Context,
	itemType string,
	itemID int64,
) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE item_id = $1 AND item_type = $2`
	var total int
	if err := r.db.QueryRow(ctx, query, itemID, itemType).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// AverageForItem returns the mean rating across all reviews of the
// item, zero when there are none.
func (r *ReviewRepository) AverageForItem(
	ctx context.Context,
	itemType string,
	itemID int64,
) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE item_id = $1 AND item_type = $2
	`
	var avg decimal.Decimal
	if err := r.db.QueryRow(ctx, query, itemID, itemType).Scan(&avg); err != nil {
		return decimal.Zero, err
	}
	return avg, nil
}
