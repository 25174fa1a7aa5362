package store

import (
	"errors"
	"fmt"
	"sync"

	"cash-tally/events"
)

var (
	ErrOptimisticLock = errors.New("optimistic lock error: version conflict")
	ErrSequence       = errors.New("event sequence error")
)

// EventStore is the journal of edits made to a tally during a session.
// Streams are keyed by tally id and only ever appended to.
type EventStore interface {
	SaveEvents(tallyID string, expectedVersion int, eventsToSave []events.Event) error

	GetEvents(tallyID string) ([]events.Event, error)

	GetEventsAfterVersion(tallyID string, version int) ([]events.Event, error)
}

type InMemoryEventStore struct {
	sync.RWMutex
	streams map[string][]events.Event
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams: make(map[string][]events.Event),
	}
}

func (s *InMemoryEventStore) SaveEvents(tallyID string, expectedVersion int, newEvents []events.Event) error {
	s.Lock()
	defer s.Unlock()

	if len(newEvents) == 0 {
		return nil
	}

	stream := s.streams[tallyID]
	currentVersion := 0
	if len(stream) > 0 {
		currentVersion = stream[len(stream)-1].GetBase().Version
	}

	if currentVersion != expectedVersion {
		return fmt.Errorf("%w: expected version %d, but current version is %d for tally %s",
			ErrOptimisticLock, expectedVersion, currentVersion, tallyID)
	}

	nextVersion := expectedVersion
	for _, event := range newEvents {
		base := event.GetBase()
		nextVersion++
		if base.Version != nextVersion {
			return fmt.Errorf("%w for tally %s: expected version %d for event %T (%s), but got %d",
				ErrSequence, tallyID, nextVersion, event, base.EventID, base.Version)
		}
		if base.TallyID != tallyID {
			return fmt.Errorf("event tally ID mismatch: stream is for %s, but event %T (%s) has ID %s",
				tallyID, event, base.EventID, base.TallyID)
		}
	}

	s.streams[tallyID] = append(stream, newEvents...)
	return nil
}

func (s *InMemoryEventStore) GetEvents(tallyID string) ([]events.Event, error) {
	return s.GetEventsAfterVersion(tallyID, 0)
}

// GetEventsAfterVersion returns a copy of the stream past version. SaveEvents
// keeps versions dense from 1, so the event at index i has version i+1.
func (s *InMemoryEventStore) GetEventsAfterVersion(tallyID string, version int) ([]events.Event, error) {
	s.RLock()
	defer s.RUnlock()

	stream := s.streams[tallyID]
	if version < 0 {
		version = 0
	}
	if version >= len(stream) {
		return []events.Event{}, nil
	}

	tail := make([]events.Event, len(stream)-version)
	copy(tail, stream[version:])
	return tail, nil
}
