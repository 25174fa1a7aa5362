package domain

import "github.com/shopspring/decimal"

func LineTotal(quantity int64, value decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(value)
}

func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// FloorAtZero clamps negative amounts to zero.
func FloorAtZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
