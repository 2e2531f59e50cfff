package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
)

type WalletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallet
		WHERE user_id = $1
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetOrCreate returns the user's wallet, inserting a zero-balance row
// if none exists yet. The no-op conflict update makes the insert
// return the existing row instead of nothing.
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `
		INSERT INTO wallet (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, balance, created_at, updated_at
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit adds amount to the wallet balance.
func (r *WalletRepository) Credit(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*models.Wallet, error) {
	query := `
		UPDATE wallet
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, balance, created_at, updated_at
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// DebitIfSufficient subtracts amount only when the balance covers it.
// The balance check is part of the UPDATE itself, so a concurrent
// debit can never push the balance below zero; pgx.ErrNoRows means
// insufficient funds (or no wallet row).
func (r *WalletRepository) DebitIfSufficient(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*models.Wallet, error) {
	query := `
		UPDATE wallet
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING id, user_id, balance, created_at, updated_at
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
