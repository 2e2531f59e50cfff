package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds. A transfer between two wallets always writes a
// pair of rows sharing the same reference id: payment/earning on
// purchase, deduction/refund on cancellation.
const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
	TransactionPayment    = "payment"
	TransactionEarning    = "earning"
	TransactionRefund     = "refund"
	TransactionDeduction  = "deduction"
)

type Wallet struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Transaction is an append-only ledger entry. Rows are never updated
// or deleted after insert.
type Transaction struct {
	ID          int64           `json:"id"`
	WalletID    int64           `json:"wallet_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"type"`
	Description string          `json:"description"`
	ReferenceID string          `json:"reference_id"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

type WalletDetail struct {
	Wallet
	Transactions []Transaction `json:"transactions"`
}
