package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/services"
)

type stubWalletService struct {
	walletResult   *models.WalletDetail
	walletErr      error
	depositWallet  *models.Wallet
	depositTxn     *models.Transaction
	depositErr     error
	withdrawWallet *models.Wallet
	withdrawTxn    *models.Transaction
	withdrawErr    error
	listResult     []models.Transaction
	listMeta       models.PaginationMeta
	listErr        error

	lastUserID int64
	lastAmount decimal.Decimal
	lastMethod string
	lastKind   string
	lastPage   int
	lastLimit  int
}

func (s *stubWalletService) GetWallet(_ context.Context, userID int64) (*models.WalletDetail, error) {
	s.lastUserID = userID
	return s.walletResult, s.walletErr
}

func (s *stubWalletService) Deposit(_ context.Context, userID int64, amount decimal.Decimal) (*models.Wallet, *models.Transaction, error) {
	s.lastUserID = userID
	s.lastAmount = amount
	return s.depositWallet, s.depositTxn, s.depositErr
}

func (s *stubWalletService) Withdraw(_ context.Context, userID int64, amount decimal.Decimal, paymentMethod string) (*models.Wallet, *models.Transaction, error) {
	s.lastUserID = userID
	s.lastAmount = amount
	s.lastMethod = paymentMethod
	return s.withdrawWallet, s.withdrawTxn, s.withdrawErr
}

func (s *stubWalletService) ListTransactions(_ context.Context, userID int64, kind string, page, limit int) ([]models.Transaction, models.PaginationMeta, error) {
	s.lastUserID = userID
	s.lastKind = kind
	s.lastPage = page
	s.lastLimit = limit
	return s.listResult, s.listMeta, s.listErr
}

func newWalletTestApp(service *stubWalletService) *fiber.App {
	handler := &WalletHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "student")
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/wallet", handler.GetWallet)
	app.Post("/api/v1/wallet/deposit", handler.Deposit)
	app.Post("/api/v1/wallet/withdraw", handler.Withdraw)
	app.Get("/api/v1/wallet/transactions", handler.ListTransactions)
	return app
}

func TestGetWalletReturnsBalanceAndHistory(t *testing.T) {
	service := &stubWalletService{
		walletResult: &models.WalletDetail{
			Wallet: models.Wallet{ID: 3, UserID: 42, Balance: decimal.RequireFromString("75.50")},
			Transactions: []models.Transaction{
				{ID: 11, WalletID: 3, Kind: models.TransactionDeposit},
			},
		},
	}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 {
		t.Fatalf("expected user id 42, got %d", service.lastUserID)
	}

	var body struct {
		Wallet struct {
			Balance string `json:"balance"`
		} `json:"wallet"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Wallet.Balance != "75.5" {
		t.Fatalf("expected balance 75.5, got %q", body.Wallet.Balance)
	}
}

func TestDepositForwardsAmount(t *testing.T) {
	service := &stubWalletService{
		depositWallet: &models.Wallet{ID: 3, UserID: 42, Balance: decimal.RequireFromString("120")},
		depositTxn:    &models.Transaction{ID: 15, WalletID: 3, Kind: models.TransactionDeposit},
	}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposit", strings.NewReader(`{"amount": 20}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !service.lastAmount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected amount 20, got %s", service.lastAmount)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	service := &stubWalletService{depositErr: services.ErrInvalidAmount}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposit", strings.NewReader(`{"amount": -5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWithdrawMapsInsufficientFunds(t *testing.T) {
	service := &stubWalletService{withdrawErr: services.ErrInsufficientFunds}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/withdraw", strings.NewReader(`{
		"amount": 500,
		"payment_method": "bank-transfer"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.StatusCode)
	}
}

func TestWithdrawRequiresPaymentMethod(t *testing.T) {
	service := &stubWalletService{}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/withdraw", strings.NewReader(`{"amount": 10}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListTransactionsValidatesKindAndPagination(t *testing.T) {
	service := &stubWalletService{}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/transactions?type=bogus", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus type, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/transactions?type=refund&page=2&limit=500", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastKind != models.TransactionRefund {
		t.Fatalf("expected kind refund, got %q", service.lastKind)
	}
	if service.lastPage != 2 {
		t.Fatalf("expected page 2, got %d", service.lastPage)
	}
	if service.lastLimit != maxPageLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxPageLimit, service.lastLimit)
	}
}
