package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cash-tally/events"
	"cash-tally/shared"
)

var DefaultFloatAmount = decimal.NewFromInt(300)

// Tally is one drawer count: a fixed denomination set, the quantity entered
// for each, and the float kept back from the deposit. Totals are derived on
// every read.
//
// Tally is not safe for concurrent use; app.TallyService owns it and
// serialises access.
type Tally struct {
	ID          string                          `json:"id"`
	Quantities  map[shared.DenominationID]int64 `json:"quantities"`
	FloatAmount decimal.Decimal                 `json:"floatAmount"`
	Version     int                             `json:"version"`

	denominations *DenominationSet
	changes       []events.Event
}

func NewTally(id string, denominations *DenominationSet, floatAmount decimal.Decimal) *Tally {
	t := &Tally{
		ID:            id,
		Quantities:    make(map[shared.DenominationID]int64, denominations.Len()),
		FloatAmount:   FloorAtZero(floatAmount),
		Version:       0,
		denominations: denominations,
		changes:       make([]events.Event, 0),
	}
	for _, d := range denominations.All() {
		t.Quantities[d.ID] = 0
	}
	return t
}

func (t *Tally) GetUncommitedChanges() []events.Event {
	unCommittedChanges := t.changes
	t.changes = make([]events.Event, 0)
	return unCommittedChanges
}

func (t *Tally) handleChange(event events.Event) error {
	if err := t.ApplyEvent(event); err != nil {
		return fmt.Errorf("internal error applying event %T: %w", event, err)
	}
	t.changes = append(t.changes, event)
	return nil
}

// --- Command Handlers ---
// Field text is never rejected: it is coerced by ParseCount. The only error
// a caller can provoke is naming a denomination outside the set.

func (t *Tally) HandleSetQuantity(id shared.DenominationID, rawInput string) error {
	if _, ok := t.denominations.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDenomination, id)
	}

	quantity := ParseCount(rawInput)
	previous := t.Quantities[id]
	if previous == quantity {
		return nil
	}

	event := events.QuantitySetEvent{
		BaseEvent:      events.NewBaseEvent(t.ID, t.Version+1, events.QuantitySetType),
		DenominationID: id,
		Previous:       previous,
		Quantity:       quantity,
		Input:          rawInput,
	}
	return t.handleChange(event)
}

func (t *Tally) HandleSetFloatAmount(rawInput string) error {
	amount := decimal.NewFromInt(ParseCount(rawInput))
	if amount.Equal(t.FloatAmount) {
		return nil
	}

	event := events.FloatAmountSetEvent{
		BaseEvent: events.NewBaseEvent(t.ID, t.Version+1, events.FloatAmountSetType),
		Previous:  t.FloatAmount,
		Amount:    amount,
		Input:     rawInput,
	}
	return t.handleChange(event)
}

func (t *Tally) HandleResetAll() error {
	cleared := make(map[shared.DenominationID]int64)
	for id, q := range t.Quantities {
		if q != 0 {
			cleared[id] = q
		}
	}
	if len(cleared) == 0 {
		return nil
	}

	event := events.TallyResetEvent{
		BaseEvent: events.NewBaseEvent(t.ID, t.Version+1, events.TallyResetType),
		Cleared:   cleared,
	}
	return t.handleChange(event)
}

func (t *Tally) ApplyEvent(event events.Event) error {
	base := event.GetBase()

	if base.Version != t.Version+1 {
		return fmt.Errorf("apply failed: event version mismatch for tally %s: expected %d, got %d for event %T (%s)",
			t.ID, t.Version+1, base.Version, event, base.EventID)
	}

	switch e := event.(type) {
	case events.QuantitySetEvent:
		if _, ok := t.Quantities[e.DenominationID]; !ok {
			return fmt.Errorf("apply failed: %w: %s", ErrUnknownDenomination, e.DenominationID)
		}
		if e.Quantity < 0 {
			return fmt.Errorf("invariant violation: negative quantity %d for %s (v%d)", e.Quantity, e.DenominationID, base.Version)
		}
		t.Quantities[e.DenominationID] = e.Quantity
	case events.FloatAmountSetEvent:
		if e.Amount.IsNegative() {
			return fmt.Errorf("invariant violation: negative float amount %s (v%d)", e.Amount.String(), base.Version)
		}
		t.FloatAmount = e.Amount
	case events.TallyResetEvent:
		for id := range t.Quantities {
			t.Quantities[id] = 0
		}
	default:
		return fmt.Errorf("apply failed: unknown event type %T for tally %s", event, t.ID)
	}

	t.Version = base.Version
	return nil
}

func (t *Tally) ApplyEvents(history []events.Event) error {
	for _, event := range history {
		if err := t.ApplyEvent(event); err != nil {
			base := event.GetBase()
			return fmt.Errorf("failed to apply event %s (%T) at version %d: %w", base.EventID, event, base.Version, err)
		}
	}
	return nil
}

// --- Derived values ---

func (t *Tally) Denominations() []Denomination {
	return t.denominations.All()
}

func (t *Tally) Lookup(key string) (Denomination, bool) {
	return t.denominations.Lookup(key)
}

// Quantity returns the count for id, or 0 for an unknown id.
func (t *Tally) Quantity(id shared.DenominationID) int64 {
	return t.Quantities[id]
}

func (t *Tally) Subtotal(id shared.DenominationID) decimal.Decimal {
	d, ok := t.denominations.Get(id)
	if !ok {
		return decimal.Zero
	}
	return LineTotal(t.Quantities[id], d.Value)
}

func (t *Tally) GrandTotal() decimal.Decimal {
	subtotals := make([]decimal.Decimal, 0, t.denominations.Len())
	for _, d := range t.denominations.All() {
		subtotals = append(subtotals, t.Subtotal(d.ID))
	}
	return Sum(subtotals)
}

// BankAmount is what goes to the bank: the grand total less the float, never below zero.
func (t *Tally) BankAmount() decimal.Decimal {
	return FloorAtZero(t.GrandTotal().Sub(t.FloatAmount))
}

func (t *Tally) Lines() []shared.Line {
	denoms := t.denominations.All()
	lines := make([]shared.Line, 0, len(denoms))
	for _, d := range denoms {
		lines = append(lines, shared.Line{
			DenominationID: d.ID,
			Label:          d.Label,
			Kind:           d.Kind,
			Value:          d.Value,
			Quantity:       t.Quantities[d.ID],
			Subtotal:       t.Subtotal(d.ID),
		})
	}
	return lines
}
