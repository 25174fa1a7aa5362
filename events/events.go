package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

type BaseEvent struct {
	EventID   uuid.UUID `json:"eventId"`
	TallyID   string    `json:"tallyId"`
	Version   int       `json:"version"` // Version of the tally *after* this event is applied.
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

type Event interface {
	GetBase() BaseEvent
}

func (e BaseEvent) GetBase() BaseEvent {
	return e
}

const (
	QuantitySetType    EventType = "QuantitySet"
	FloatAmountSetType EventType = "FloatAmountSet"
	TallyResetType     EventType = "TallyReset"
)

func NewBaseEvent(tallyID string, version int, eventType EventType) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New(),
		TallyID:   tallyID,
		Version:   version,
		Timestamp: time.Now().UTC(),
		Type:      eventType,
	}
}
