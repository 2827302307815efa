package costing

import "errors"

var (
	ErrUnknownUnit          = errors.New("unknown unit")
	ErrIncompatibleUnitKind = errors.New("incompatible unit kind")
	ErrMissingDensity       = errors.New("missing density")
	ErrDivisionByZero       = errors.New("pack quantity is zero")
	ErrInvalidYield         = errors.New("yield quantity must be positive")

	ErrUnknownCurrency = errors.New("unknown currency")
	ErrNoSuchTier      = errors.New("no such price tier")
)
