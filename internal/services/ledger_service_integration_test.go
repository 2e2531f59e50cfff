package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
)

func TestTransferOppositeDirectionsConcurrently(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	ledger := NewLedgerService(pool)

	alice := createTestUser(t, ctx, pool, false, "500")
	bob := createTestUser(t, ctx, pool, false, "500")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, alice, bob) })

	const rounds = 20
	errs := make(chan error, 2*rounds)
	var wg sync.WaitGroup
	for _, pair := range [][2]int64{{alice, bob}, {bob, alice}} {
		wg.Add(1)
		go func(from, to int64) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				_, _, err := ledger.Transfer(ctx, TransferInput{
					FromUserID:  from,
					ToUserID:    to,
					Amount:      decimal.NewFromInt(1),
					DebitKind:   models.TransactionPayment,
					CreditKind:  models.TransactionEarning,
					DebitDesc:   "Transfer exercise",
					CreditDesc:  "Transfer exercise",
					ReferenceID: fmt.Sprintf("transfer-%d-%d", from, to),
				})
				if err != nil {
					errs <- err
				}
			}
		}(pair[0], pair[1])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("Transfer: %v", err)
	}

	assertBalance(t, ctx, pool, alice, "500")
	assertBalance(t, ctx, pool, bob, "500")
}
