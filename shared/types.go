package shared

import "github.com/shopspring/decimal"

// DenominationID is the stable key of a denomination, e.g. "20" or "0.25".
type DenominationID string

type Kind string

const (
	Bill Kind = "bill"
	Coin Kind = "coin"
)

type Line struct {
	DenominationID DenominationID  `json:"id"`
	Label          string          `json:"label"`
	Kind           Kind            `json:"kind"`
	Value          decimal.Decimal `json:"value"`
	Quantity       int64           `json:"quantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}
