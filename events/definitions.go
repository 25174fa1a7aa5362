package events

import (
	"github.com/shopspring/decimal"

	"cash-tally/shared"
)

type QuantitySetEvent struct {
	BaseEvent
	DenominationID shared.DenominationID `json:"denominationId"`
	Previous       int64                 `json:"previous"`
	Quantity       int64                 `json:"quantity"`
	Input          string                `json:"input"` // Raw text as typed, before digit filtering
}

type FloatAmountSetEvent struct {
	BaseEvent
	Previous decimal.Decimal `json:"previous"`
	Amount   decimal.Decimal `json:"amount"`
	Input    string          `json:"input"`
}

// TallyResetEvent zeroes every quantity. Cleared holds the non-zero
// quantities as they were before the reset.
type TallyResetEvent struct {
	BaseEvent
	Cleared map[shared.DenominationID]int64 `json:"cleared"`
}
