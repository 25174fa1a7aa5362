package domain

import "fmt"

type DomainError struct {
	message string
}

func NewDomainError(format string, args ...interface{}) *DomainError {
	return &DomainError{message: fmt.Sprintf(format, args...)}
}

func (e *DomainError) Error() string {
	return e.message
}

var (
	ErrUnknownDenomination   = NewDomainError("unknown denomination")
	ErrInvalidDenomination   = NewDomainError("invalid denomination")
	ErrDuplicateDenomination = NewDomainError("duplicate denomination")
	ErrEmptyDenominationSet  = NewDomainError("denomination set is empty")
)
