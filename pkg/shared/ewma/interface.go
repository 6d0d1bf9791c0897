package ewma

import "github.com/shopspring/decimal"

type EWMA interface {
	// Add adds a new value to the EWMA
	Add(decimal.Decimal)
	// Get returns the current value of the EWMA
	Get() decimal.Decimal
	// Reset resets the EWMA to the initial value
	Reset()
	// Set sets the EWMA to the given value
	Set(decimal.Decimal)
}
