package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student cancellations refund on a sliding scale: full refund up to
// 24 hours before the session, half refund between 24 and 2 hours,
// nothing inside the final 2 hours. Teacher cancellations always
// refund in full.
func refundFraction(now, startTime time.Time) decimal.Decimal {
	until := startTime.Sub(now)
	switch {
	case until >= 24*time.Hour:
		return decimal.NewFromInt(1)
	case until >= 2*time.Hour:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}

func refundAmount(price decimal.Decimal, fraction decimal.Decimal) decimal.Decimal {
	return price.Mul(fraction).Round(2)
}
