package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"cash-tally/domain"
	"cash-tally/shared"
)

func TestDefaultDenominations(t *testing.T) {
	denoms := domain.DefaultDenominations()
	wantIDs := []shared.DenominationID{"100", "50", "20", "10", "5", "2", "1", "0.25", "0.10", "0.05"}
	if len(denoms) != len(wantIDs) {
		t.Fatalf("expected %d denominations, got %d", len(wantIDs), len(denoms))
	}
	for i, d := range denoms {
		if d.ID != wantIDs[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantIDs[i], d.ID)
		}
		if i > 0 && !denoms[i-1].Value.GreaterThan(d.Value) {
			t.Errorf("denominations not strictly descending at %d: %s then %s", i, denoms[i-1].Value, d.Value)
		}
	}

	bills, coins := 0, 0
	for _, d := range denoms {
		switch d.Kind {
		case shared.Bill:
			bills++
		case shared.Coin:
			coins++
		}
	}
	if bills != 5 || coins != 5 {
		t.Errorf("expected 5 bills and 5 coins, got %d and %d", bills, coins)
	}

	if !denoms[8].Value.Equal(dec("0.1")) || denoms[8].Label != "$0.10" {
		t.Errorf("unexpected dime: %+v", denoms[8])
	}
}

func TestNewDenominationSet(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := domain.NewDenominationSet(nil)
		if !errors.Is(err, domain.ErrEmptyDenominationSet) {
			t.Errorf("expected ErrEmptyDenominationSet, got %v", err)
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		_, err := domain.NewDenominationSet([]domain.Denomination{
			domain.NewDenomination("a", "$1", decimal.NewFromInt(1)),
			domain.NewDenomination("a", "$2", decimal.NewFromInt(2)),
		})
		if !errors.Is(err, domain.ErrDuplicateDenomination) {
			t.Errorf("expected ErrDuplicateDenomination, got %v", err)
		}
	})

	t.Run("SameValueAndLabel", func(t *testing.T) {
		_, err := domain.NewDenominationSet([]domain.Denomination{
			domain.NewDenomination("a", "$1", dec("1")),
			domain.NewDenomination("b", "$1", dec("1.00")),
		})
		if !errors.Is(err, domain.ErrDuplicateDenomination) {
			t.Errorf("expected ErrDuplicateDenomination, got %v", err)
		}
	})

	t.Run("SameValueDifferentLabel", func(t *testing.T) {
		set, err := domain.NewDenominationSet([]domain.Denomination{
			domain.NewDenomination("coin", "$1 coin", dec("1")),
			domain.NewDenomination("note", "$1 note", dec("1")),
		})
		if err != nil {
			t.Fatalf("expected distinct labels to be accepted, got %v", err)
		}
		if set.Len() != 2 {
			t.Errorf("expected 2 denominations, got %d", set.Len())
		}
	})

	t.Run("NonPositiveValue", func(t *testing.T) {
		_, err := domain.NewDenominationSet([]domain.Denomination{
			domain.NewDenomination("zero", "$0", decimal.Zero),
		})
		if !errors.Is(err, domain.ErrInvalidDenomination) {
			t.Errorf("expected ErrInvalidDenomination, got %v", err)
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		set, err := domain.NewDenominationSet(domain.DefaultDenominations())
		if err != nil {
			t.Fatalf("NewDenominationSet failed: %v", err)
		}
		for _, key := range []string{"0.25", "$0.25", " 0.25 "} {
			d, ok := set.Lookup(key)
			if !ok || d.ID != "0.25" {
				t.Errorf("Lookup(%q) = %v, %v", key, d.ID, ok)
			}
		}
		if _, ok := set.Lookup("0.01"); ok {
			t.Errorf("expected Lookup of unknown key to fail")
		}
	})
}
