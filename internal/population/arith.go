package population

import (
	"math/bits"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
)

// addCount returns a+b, or an OverflowError naming op when the sum does not
// fit in 64 bits.
func addCount(a, b uint64, op string) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, apperrors.OverflowError{Operation: op}
	}
	return sum, nil
}

// mulCount returns a*b, or an OverflowError naming op on overflow.
func mulCount(a, b uint64, op string) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, apperrors.OverflowError{Operation: op}
	}
	return lo, nil
}

func validateDays(days int) error {
	if days < 0 {
		return apperrors.DomainError{Field: "days", Value: int64(days), Min: 0, Max: maxInt}
	}
	return nil
}

const maxInt = int64(^uint(0) >> 1)
