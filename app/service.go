package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cash-tally/domain"
	"cash-tally/events"
	"cash-tally/logging"
	"cash-tally/shared"
	"cash-tally/store"
)

// ErrJournalMismatch is returned by Verify when replaying the journal does
// not reproduce the live tally.
var ErrJournalMismatch = errors.New("journal does not match tally")

// Observer is called after every state change with the event that caused it.
// Events are delivered in version order. An observer may query the service
// or issue commands; events raised from inside an observer are delivered
// after it returns.
type Observer func(event events.Event)

type Options struct {
	TallyID       string                // generated when empty
	Denominations []domain.Denomination // domain.DefaultDenominations when nil
	FloatAmount   decimal.NullDecimal   // domain.DefaultFloatAmount when not valid
	Formatter     *domain.CurrencyFormatter
	Logger        *logging.Logger
}

// TallyService is the application layer around a single tally. It owns the
// model, serialises access to it, commits each command's events to the
// journal and notifies observers.
type TallyService struct {
	mu           sync.Mutex
	tally        *domain.Tally
	journal      store.EventStore
	set          *domain.DenominationSet
	initialFloat decimal.Decimal
	formatter    *domain.CurrencyFormatter
	logger       *logging.Logger

	observers      []subscription
	nextObserverID int

	// pending holds committed events not yet handed to observers, in
	// version order. notifyMu is held by whichever goroutine is draining it.
	pending  []events.Event
	notifyMu sync.Mutex
}

type subscription struct {
	id int
	fn Observer
}

func NewTallyService(journal store.EventStore, opts Options) (*TallyService, error) {
	if journal == nil {
		return nil, fmt.Errorf("journal must not be nil")
	}

	denoms := opts.Denominations
	if denoms == nil {
		denoms = domain.DefaultDenominations()
	}
	set, err := domain.NewDenominationSet(denoms)
	if err != nil {
		return nil, fmt.Errorf("invalid denomination set: %w", err)
	}

	floatAmount := domain.DefaultFloatAmount
	if opts.FloatAmount.Valid {
		if opts.FloatAmount.Decimal.IsNegative() {
			return nil, domain.NewDomainError("float amount cannot be negative: %s", opts.FloatAmount.Decimal.String())
		}
		floatAmount = opts.FloatAmount.Decimal
	}

	tallyID := opts.TallyID
	if tallyID == "" {
		tallyID = uuid.NewString()
	}

	formatter := opts.Formatter
	if formatter == nil {
		formatter = domain.DefaultCurrencyFormatter()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}

	s := &TallyService{
		tally:        domain.NewTally(tallyID, set, floatAmount),
		journal:      journal,
		set:          set,
		initialFloat: floatAmount,
		formatter:    formatter,
		logger:    logger.WithComponent("tally").With("tally_id", tallyID),
	}
	s.logger.Info("tally started", "float", floatAmount.String(), "denominations", set.Len())
	return s, nil
}

// --- Command Handlers ---

func (s *TallyService) SetQuantity(cmd SetQuantityCommand) error {
	s.logCoercion("quantity", cmd.Input, "denomination", string(cmd.DenominationID))
	return s.execute("set quantity", func(t *domain.Tally) error {
		return t.HandleSetQuantity(cmd.DenominationID, cmd.Input)
	})
}

func (s *TallyService) SetFloatAmount(cmd SetFloatAmountCommand) error {
	s.logCoercion("float", cmd.Input)
	return s.execute("set float amount", func(t *domain.Tally) error {
		return t.HandleSetFloatAmount(cmd.Input)
	})
}

func (s *TallyService) ResetAll(_ ResetAllCommand) error {
	return s.execute("reset", func(t *domain.Tally) error {
		return t.HandleResetAll()
	})
}

func (s *TallyService) execute(name string, handle func(t *domain.Tally) error) error {
	s.mu.Lock()
	initialVersion := s.tally.Version

	if err := handle(s.tally); err != nil {
		s.mu.Unlock()
		if errors.Is(err, domain.ErrUnknownDenomination) {
			s.logger.Debug("command rejected", "command", name, "error", err)
		} else {
			s.logger.Error("command failed", "command", name, "error", err)
		}
		return fmt.Errorf("%s failed for tally %s: %w", name, s.tally.ID, err)
	}

	changes := s.tally.GetUncommitedChanges()
	if len(changes) == 0 {
		s.mu.Unlock()
		s.logger.Debug("command resulted in no state change", "command", name)
		return nil
	}

	if err := s.journal.SaveEvents(s.tally.ID, initialVersion, changes); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to journal events, journal is behind the tally", "command", name, "error", err)
		return fmt.Errorf("failed to save %s events for tally %s: %w", name, s.tally.ID, err)
	}
	newVersion := s.tally.Version
	s.pending = append(s.pending, changes...)
	s.mu.Unlock()

	s.logger.Info("tally updated", "command", name, "version", newVersion)

	s.notify()
	return nil
}

// notify hands pending events to observers. Only one goroutine delivers at
// a time; a caller that finds delivery in progress leaves its events to
// that goroutine.
func (s *TallyService) notify() {
	for {
		if !s.notifyMu.TryLock() {
			return
		}
		for {
			s.mu.Lock()
			batch := s.pending
			s.pending = nil
			observers := make([]subscription, len(s.observers))
			copy(observers, s.observers)
			s.mu.Unlock()

			if len(batch) == 0 {
				break
			}
			for _, event := range batch {
				for _, o := range observers {
					o.fn(event)
				}
			}
		}
		s.notifyMu.Unlock()

		// Events queued between the last drain and Unlock would otherwise wait
		// for the next command.
		s.mu.Lock()
		idle := len(s.pending) == 0
		s.mu.Unlock()
		if idle {
			return
		}
	}
}

func (s *TallyService) logCoercion(field, input string, args ...any) {
	parsed := strconv.FormatInt(domain.ParseCount(input), 10)
	if strings.TrimSpace(input) == parsed {
		return
	}
	s.logger.Debug("input coerced", append([]any{"field", field, "input", input, "value", parsed}, args...)...)
}

// Subscribe registers o for every future change. The returned function
// removes it again.
func (s *TallyService) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextObserverID++
	id := s.nextObserverID
	s.observers = append(s.observers, subscription{id: id, fn: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// --- Query Handlers ---

func (s *TallyService) TallyID() string {
	return s.tally.ID
}

func (s *TallyService) Denominations() []domain.Denomination {
	return s.tally.Denominations()
}

func (s *TallyService) Lookup(key string) (domain.Denomination, bool) {
	return s.tally.Lookup(key)
}

func (s *TallyService) Quantity(id shared.DenominationID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.Quantity(id)
}

func (s *TallyService) FloatAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.FloatAmount
}

func (s *TallyService) Subtotal(id shared.DenominationID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.Subtotal(id)
}

func (s *TallyService) GrandTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.GrandTotal()
}

func (s *TallyService) BankAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.BankAmount()
}

func (s *TallyService) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.Version
}

func (s *TallyService) Report() *domain.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CreateReport(s.tally, s.formatter)
}

func (s *TallyService) FormatCurrency(amount decimal.Decimal) string {
	return s.formatter.Format(amount)
}

// History returns the journalled edits, oldest first. After filters out
// versions up to and including it; Skip and Limit then page the rest.
// Limit <= 0 means no limit.
func (s *TallyService) History(query GetHistoryQuery) ([]events.Event, error) {
	var (
		history []events.Event
		err     error
	)
	if query.After > 0 {
		history, err = s.journal.GetEventsAfterVersion(s.tally.ID, query.After)
	} else {
		history, err = s.journal.GetEvents(s.tally.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get edit history for tally %s: %w", s.tally.ID, err)
	}

	totalEvents := len(history)
	start := query.Skip
	if start < 0 {
		start = 0
	}
	if start >= totalEvents {
		return []events.Event{}, nil
	}

	end := totalEvents
	if query.Limit > 0 && query.Limit < totalEvents-start {
		end = start + query.Limit
	}

	return history[start:end], nil
}

// Verify rebuilds the tally from its journal and checks that the replica
// matches the live state.
func (s *TallyService) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.journal.GetEvents(s.tally.ID)
	if err != nil {
		return fmt.Errorf("failed to read journal for tally %s: %w", s.tally.ID, err)
	}

	replica := domain.NewTally(s.tally.ID, s.set, s.initialFloat)
	if err := replica.ApplyEvents(history); err != nil {
		return fmt.Errorf("%w: replay failed: %v", ErrJournalMismatch, err)
	}

	if replica.Version != s.tally.Version {
		return fmt.Errorf("%w: journal at version %d, tally at version %d", ErrJournalMismatch, replica.Version, s.tally.Version)
	}
	if !replica.FloatAmount.Equal(s.tally.FloatAmount) {
		return fmt.Errorf("%w: float %s in journal, %s in tally", ErrJournalMismatch, replica.FloatAmount, s.tally.FloatAmount)
	}
	for _, d := range s.set.All() {
		if got, want := replica.Quantity(d.ID), s.tally.Quantity(d.ID); got != want {
			return fmt.Errorf("%w: %s count %d in journal, %d in tally", ErrJournalMismatch, d.ID, got, want)
		}
	}
	return nil
}
