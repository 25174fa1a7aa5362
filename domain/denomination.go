package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cash-tally/shared"
)

// billThreshold is the smallest value printed as a bill; anything below is a coin.
var billThreshold = decimal.NewFromInt(5)

// Denomination is a single bill or coin the drawer can hold. Values are
// immutable once the set is built.
type Denomination struct {
	ID    shared.DenominationID `json:"id"`
	Label string                `json:"label"`
	Value decimal.Decimal       `json:"value"`
	Kind  shared.Kind           `json:"kind"`
}

func NewDenomination(id shared.DenominationID, label string, value decimal.Decimal) Denomination {
	kind := shared.Coin
	if value.GreaterThanOrEqual(billThreshold) {
		kind = shared.Bill
	}
	return Denomination{ID: id, Label: label, Value: value, Kind: kind}
}

// Equal reports whether two denominations are the same unit: same value and same label.
func (d Denomination) Equal(other Denomination) bool {
	return d.Label == other.Label && d.Value.Equal(other.Value)
}

func DefaultDenominations() []Denomination {
	values := []string{"100", "50", "20", "10", "5", "2", "1", "0.25", "0.10", "0.05"}
	denoms := make([]Denomination, 0, len(values))
	for _, v := range values {
		denoms = append(denoms, NewDenomination(shared.DenominationID(v), "$"+v, decimal.RequireFromString(v)))
	}
	return denoms
}

// DenominationSet is an ordered, validated list of denominations with
// lookup by id.
type DenominationSet struct {
	ordered []Denomination
	index   map[shared.DenominationID]int
}

func NewDenominationSet(denoms []Denomination) (*DenominationSet, error) {
	if len(denoms) == 0 {
		return nil, ErrEmptyDenominationSet
	}

	set := &DenominationSet{
		ordered: make([]Denomination, 0, len(denoms)),
		index:   make(map[shared.DenominationID]int, len(denoms)),
	}
	for _, d := range denoms {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: empty id for %q", ErrInvalidDenomination, d.Label)
		}
		if !d.Value.IsPositive() {
			return nil, fmt.Errorf("%w: %s has non-positive value %s", ErrInvalidDenomination, d.ID, d.Value.String())
		}
		if _, exists := set.index[d.ID]; exists {
			return nil, fmt.Errorf("%w: id %s", ErrDuplicateDenomination, d.ID)
		}
		for _, seen := range set.ordered {
			if seen.Equal(d) {
				return nil, fmt.Errorf("%w: %s and %s are both %s", ErrDuplicateDenomination, seen.ID, d.ID, d.Label)
			}
		}
		set.index[d.ID] = len(set.ordered)
		set.ordered = append(set.ordered, d)
	}
	return set, nil
}

// All returns a copy of the denominations in display order.
func (s *DenominationSet) All() []Denomination {
	out := make([]Denomination, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *DenominationSet) Len() int {
	return len(s.ordered)
}

func (s *DenominationSet) Get(id shared.DenominationID) (Denomination, bool) {
	i, ok := s.index[id]
	if !ok {
		return Denomination{}, false
	}
	return s.ordered[i], true
}

// Lookup resolves a user-typed key: either the id ("0.25") or the label ("$0.25").
func (s *DenominationSet) Lookup(key string) (Denomination, bool) {
	key = strings.TrimSpace(key)
	if d, ok := s.Get(shared.DenominationID(key)); ok {
		return d, true
	}
	for _, d := range s.ordered {
		if strings.EqualFold(d.Label, key) {
			return d, true
		}
	}
	return Denomination{}, false
}
