package app

import "cash-tally/shared"

// --- Commands ---
// Input fields carry the raw text the user typed; the domain coerces it.

type SetQuantityCommand struct {
	DenominationID shared.DenominationID
	Input          string
}

type SetFloatAmountCommand struct {
	Input string
}

type ResetAllCommand struct{}

// --- Queries ---

type GetHistoryQuery struct {
	After int // only edits with a version above this
	Limit int
	Skip  int
}
