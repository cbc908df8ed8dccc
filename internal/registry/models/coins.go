package models

import (
	"math"

	dErrors "regnet/pkg/domain-errors"
)

// AddCoins returns a+b or ArithmeticOverflow.
func AddCoins(a, b uint64) (uint64, error) {
	if b > math.MaxUint64-a {
		return 0, dErrors.New(dErrors.CodeArithmeticOverflow, "balance would overflow").
			With("balance", a, "amount", b)
	}
	return a + b, nil
}

// SubCoins returns a-b or InsufficientFunds when b exceeds a.
func SubCoins(a, b uint64) (uint64, error) {
	if b > a {
		return 0, dErrors.New(dErrors.CodeInsufficientFunds, "insufficient funds").
			With("required", b, "available", a)
	}
	return a - b, nil
}
