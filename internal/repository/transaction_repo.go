package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
)

type CreateTransactionInput struct {
	WalletID    int64
	Amount      decimal.Decimal
	Kind        string
	Description string
	ReferenceID string
}

type TransactionListFilter struct {
	WalletID int64
	Kind     string
	Limit    int
	Offset   int
}

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(
	ctx context.Context,
	input CreateTransactionInput,
) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (wallet_id, amount, type, description, reference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, wallet_id, amount, type, description, reference_id, status, created_at
	`
	var txn models.Transaction
	err := r.db.QueryRow(
		ctx,
		query,
		input.WalletID,
		input.Amount,
		input.Kind,
		input.Description,
		input.ReferenceID,
	).Scan(
		&txn.ID,
		&txn.WalletID,
		&txn.Amount,
		&txn.Kind,
		&txn.Description,
		&txn.ReferenceID,
		&txn.Status,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) List(
	ctx context.Context,
	filter TransactionListFilter,
) ([]models.Transaction, error) {
	args := []any{filter.WalletID}
	whereParts := []string{"wallet_id = $1"}

	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		args = append(args, kind)
		whereParts = append(whereParts, fmt.Sprintf("type = $%d", len(args)))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, wallet_id, amount, type, description, reference_id, status, created_at
		FROM transactions
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(whereParts, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.WalletID,
			&txn.Amount,
			&txn.Kind,
			&txn.Description,
			&txn.ReferenceID,
			&txn.Status,
			&txn.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *TransactionRepository) Count(
	ctx context.Context,
	walletID int64,
	kind string,
) (int, error) {
	args := []any{walletID}
	query := `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`
	if kind = strings.TrimSpace(kind); kind != "" {
		query += ` AND type = $2`
		args = append(args, kind)
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
