package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
)

const recentTransactionLimit = 10

// LedgerService owns wallet balances and the append-only transaction
// log. All balance mutation in the system goes through it.
type LedgerService struct {
	db *pgxpool.Pool
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{db: db}
}

// TransferInput describes one atomic money movement between two
// wallets: a debit on the sender and a credit on the receiver sharing
// the same reference id.
type TransferInput struct {
	FromUserID  int64
	ToUserID    int64
	Amount      decimal.Decimal
	DebitKind   string
	CreditKind  string
	DebitDesc   string
	CreditDesc  string
	ReferenceID string
}

func (s *LedgerService) GetWallet(
	ctx context.Context,
	userID int64,
) (*models.WalletDetail, error) {
	wallet, err := repository.NewWalletRepository(s.db).GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions, err := repository.NewTransactionRepository(s.db).List(ctx, repository.TransactionListFilter{
		WalletID: wallet.ID,
		Limit:    recentTransactionLimit,
	})
	if err != nil {
		return nil, err
	}

	return &models.WalletDetail{Wallet: *wallet, Transactions: transactions}, nil
}

func (s *LedgerService) ListTransactions(
	ctx context.Context,
	userID int64,
	kind string,
	page int,
	limit int,
) ([]models.Transaction, models.PaginationMeta, error) {
	wallet, err := repository.NewWalletRepository(s.db).GetOrCreate(ctx, userID)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	txnRepo := repository.NewTransactionRepository(s.db)
	transactions, err := txnRepo.List(ctx, repository.TransactionListFilter{
		WalletID: wallet.ID,
		Kind:     kind,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	total, err := txnRepo.Count(ctx, wallet.ID, kind)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	meta := models.PaginationMeta{Page: page, Limit: limit, Total: total}
	if total > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return transactions, meta, nil
}

// Deposit adds funds to the user's wallet. There is no payment
// gateway behind it; the ledger write is the whole operation.
func (s *LedgerService) Deposit(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*models.Wallet, *models.Transaction, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	wallet, err := repository.NewWalletRepository(tx).GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	wallet, err = repository.NewWalletRepository(tx).Credit(ctx, userID, amount)
	if err != nil {
		return nil, nil, err
	}

	txn, err := repository.NewTransactionRepository(tx).Create(ctx, repository.CreateTransactionInput{
		WalletID:    wallet.ID,
		Amount:      amount,
		Kind:        models.TransactionDeposit,
		Description: "Funds added to wallet",
		ReferenceID: "deposit-" + uuid.NewString(),
	})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return wallet, txn, nil
}

// Withdraw removes funds, failing with ErrInsufficientFunds when the
// balance does not cover the amount.
func (s *LedgerService) Withdraw(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
	paymentMethod string,
) (*models.Wallet, *models.Transaction, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	walletRepo := repository.NewWalletRepository(tx)
	if _, err := walletRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, nil, err
	}

	wallet, err := walletRepo.DebitIfSufficient(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInsufficientFunds
		}
		return nil, nil, err
	}

	txn, err := repository.NewTransactionRepository(tx).Create(ctx, repository.CreateTransactionInput{
		WalletID:    wallet.ID,
		Amount:      amount,
		Kind:        models.TransactionWithdrawal,
		Description: fmt.Sprintf("Withdrawal to %s", paymentMethod),
		ReferenceID: "withdrawal-" + uuid.NewString(),
	})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return wallet, txn, nil
}

// Transfer moves funds between two users in its own transaction.
func (s *LedgerService) Transfer(
	ctx context.Context,
	input TransferInput,
) (*models.Transaction, *models.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	debit, credit, err := s.TransferTx(ctx, tx, input)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return debit, credit, nil
}

// TransferTx performs the double-entry transfer against the given
// querier, normally a pgx.Tx owned by the caller so that the money
// movement commits or rolls back together with the caller's other
// writes. The debit is conditional on the sender's balance, so the
// balance check cannot go stale between read and write.
func (s *LedgerService) TransferTx(
	ctx context.Context,
	q repository.DBTX,
	input TransferInput,
) (*models.Transaction, *models.Transaction, error) {
	if input.Amount.Cmp(decimal.Zero) <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	walletRepo := repository.NewWalletRepository(q)
	txnRepo := repository.NewTransactionRepository(q)

	// Wallet rows are acquired in ascending user id order so that two
	// opposite transfers over the same pair of wallets cannot deadlock.
	first, second := input.FromUserID, input.ToUserID
	if second < first {
		first, second = second, first
	}
	wallets := make(map[int64]*models.Wallet, 2)
	for _, userID := range []int64{first, second} {
		wallet, err := walletRepo.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		wallets[userID] = wallet
	}
	fromWallet := wallets[input.FromUserID]
	toWallet := wallets[input.ToUserID]

	if _, err := walletRepo.DebitIfSufficient(ctx, input.FromUserID, input.Amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInsufficientFunds
		}
		return nil, nil, err
	}

	debit, err := txnRepo.Create(ctx, repository.CreateTransactionInput{
		WalletID:    fromWallet.ID,
		Amount:      input.Amount,
		Kind:        input.DebitKind,
		Description: input.DebitDesc,
		ReferenceID: input.ReferenceID,
	})
	if err != nil {
		return nil, nil, err
	}

	if _, err := walletRepo.Credit(ctx, input.ToUserID, input.Amount); err != nil {
		return nil, nil, err
	}

	credit, err := txnRepo.Create(ctx, repository.CreateTransactionInput{
		WalletID:    toWallet.ID,
		Amount:      input.Amount,
		Kind:        input.CreditKind,
		Description: input.CreditDesc,
		ReferenceID: input.ReferenceID,
	})
	if err != nil {
		return nil, nil, err
	}

	return debit, credit, nil
}
