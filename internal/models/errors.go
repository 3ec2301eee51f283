package models

import (
	"errors"
	"fmt"
)

var (
	ErrFeedUnavailable  = errors.New("quote feed unavailable")
	ErrNoPriceAvailable = errors.New("no price available")
	ErrNoPosition       = errors.New("no position open")
	ErrExecution        = errors.New("execution error")
)

// InsufficientFundsError carries the cost of the rejected buy and what was available.
type InsufficientFundsError struct {
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: cost=%.2f available=%.2f", e.Required, e.Available)
}

// IsInsufficientFunds reports whether err is an InsufficientFundsError.
func IsInsufficientFunds(err error) bool {
	var ife *InsufficientFundsError
	return errors.As(err, &ife)
}
