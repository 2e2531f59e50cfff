package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/services"
)

type WalletHandler struct {
	service walletService
}

type walletService interface {
	GetWallet(ctx context.Context, userID int64) (*models.WalletDetail, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.Wallet, *models.Transaction, error)
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, paymentMethod string) (*models.Wallet, *models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, kind string, page, limit int) ([]models.Transaction, models.PaginationMeta, error)
}

func NewWalletHandler(service *services.LedgerService) *WalletHandler {
	return &WalletHandler{service: service}
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type withdrawRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	detail, err := h.service.GetWallet(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"wallet": detail})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	wallet, txn, err := h.service.Deposit(c.Context(), userID, req.Amount)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"wallet": wallet, "transaction": txn})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	wallet, txn, err := h.service.Withdraw(c.Context(), userID, req.Amount, req.PaymentMethod)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"wallet": wallet, "transaction": txn})
}

func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	kind := strings.TrimSpace(c.Query("type"))
	switch kind {
	case "", models.TransactionDeposit, models.TransactionWithdrawal, models.TransactionPayment,
		models.TransactionEarning, models.TransactionRefund, models.TransactionDeduction:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction type"})
	}

	page, limit := parsePageParams(c)
	transactions, meta, err := h.service.ListTransactions(c.Context(), userID, kind, page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"transactions": transactions, "pagination": meta})
}
