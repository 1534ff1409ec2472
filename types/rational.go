// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Rational is a fixed-point fraction with 18 fractional decimal digits,
// the wire representation used for shares and ratios. Internally it
// stores value * Scale as a non-negative big.Int; all
// arithmetic that can overflow a 256-bit word is checked through
// uint256, never performed as raw *big.Int multiplication.
type Rational struct {
	v *big.Int
}

// Scale is 1e18, the fixed-point base every Rational value is stored against.
var Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

var (
	ErrFractionMulError = errors.New("fraction multiplication overflow")
	ErrNegativeResult   = errors.New("rational subtraction underflow")
	ErrDivideByZero     = errors.New("rational division by zero")
)

// Zero is the rational 0.
func Zero() Rational { return Rational{v: big.NewInt(0)} }

// One is the rational 1.
func One() Rational { return Rational{v: new(big.Int).Set(Scale)} }

// NewRationalFromFraction builds num/den as a Rational, scaled to 18
// fractional digits. den must be non-zero and num/den must lie in [0,1]
// is NOT enforced here - callers that need that invariant (e.g. shares,
// allocations) check it explicitly after construction.
func NewRationalFromFraction(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, ErrDivideByZero
	}
	n := big.NewInt(num)
	d := big.NewInt(den)
	scaled := new(big.Int).Mul(n, Scale)
	scaled.Div(scaled, d)
	if scaled.Sign() < 0 {
		return Rational{}, fmt.Errorf("%w: negative fraction %d/%d", ErrFractionMulError, num, den)
	}
	return Rational{v: scaled}, nil
}

// NewRationalFromScaled wraps an already-scaled (value * 1e18) big.Int.
func NewRationalFromScaled(scaled *big.Int) Rational {
	return Rational{v: new(big.Int).Set(scaled)}
}

// Scaled returns the underlying value*1e18 representation.
func (r Rational) Scaled() *big.Int {
	if r.v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(r.v)
}

func (r Rational) val() *big.Int {
	if r.v == nil {
		return big.NewInt(0)
	}
	return r.v
}

// IsZero reports whether r == 0.
func (r Rational) IsZero() bool { return r.val().Sign() == 0 }

// IsOne reports whether r == 1 exactly.
func (r Rational) IsOne() bool { return r.val().Cmp(Scale) == 0 }

// Cmp compares r to other, -1/0/1 per big.Int.Cmp.
func (r Rational) Cmp(other Rational) int { return r.val().Cmp(other.val()) }

// Add returns r + other.
func (r Rational) Add(other Rational) Rational {
	return Rational{v: new(big.Int).Add(r.val(), other.val())}
}

// Sub returns r - other, erroring if the result would be negative.
func (r Rational) Sub(other Rational) (Rational, error) {
	out := new(big.Int).Sub(r.val(), other.val())
	if out.Sign() < 0 {
		return Rational{}, ErrNegativeResult
	}
	return Rational{v: out}, nil
}

// toUint256 converts the scaled value to a uint256.Int, reporting
// overflow rather than silently truncating.
func toUint256(v *big.Int) (*uint256.Int, error) {
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrFractionMulError
	}
	return u, nil
}

// Mul returns r * other as a Rational, checked against uint256 overflow
// of the intermediate product - checked-multiply then floor-divide,
// never a raw big.Int multiply.
func (r Rational) Mul(other Rational) (Rational, error) {
	a, err := toUint256(r.val())
	if err != nil {
		return Rational{}, err
	}
	b, err := toUint256(other.val())
	if err != nil {
		return Rational{}, err
	}
	scale, _ := toUint256(Scale)

	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return Rational{}, fmt.Errorf("%w: %s * %s", ErrFractionMulError, r.val(), other.val())
	}
	product.Div(product, scale)
	return Rational{v: product.ToBig()}, nil
}

// Div returns r / other as a Rational, checked against overflow of the
// intermediate (r * Scale) numerator.
func (r Rational) Div(other Rational) (Rational, error) {
	if other.IsZero() {
		return Rational{}, ErrDivideByZero
	}
	a, err := toUint256(r.val())
	if err != nil {
		return Rational{}, err
	}
	scale, _ := toUint256(Scale)
	b, err := toUint256(other.val())
	if err != nil {
		return Rational{}, err
	}

	numerator, overflow := new(uint256.Int).MulOverflow(a, scale)
	if overflow {
		return Rational{}, fmt.Errorf("%w: %s / %s", ErrFractionMulError, r.val(), other.val())
	}
	numerator.Div(numerator, b)
	return Rational{v: numerator.ToBig()}, nil
}

// MulAmount returns floor(amount * r) as an integer token amount,
// checked against uint256 overflow of the intermediate product.
// Fractional remainders round toward zero.
func (r Rational) MulAmount(amount *big.Int) (*big.Int, error) {
	amt, err := toUint256(amount)
	if err != nil {
		return nil, err
	}
	frac, err := toUint256(r.val())
	if err != nil {
		return nil, err
	}
	scale, _ := toUint256(Scale)

	product, overflow := new(uint256.Int).MulOverflow(amt, frac)
	if overflow {
		return nil, fmt.Errorf("%w: %s * share", ErrFractionMulError, amount.String())
	}
	product.Div(product, scale)
	return product.ToBig(), nil
}

// String renders the rational as a decimal string for logging/tests.
func (r Rational) String() string {
	whole := new(big.Int)
	frac := new(big.Int)
	whole.DivMod(r.val(), Scale, frac)
	return fmt.Sprintf("%s.%018s", whole.String(), frac.String())
}

// DecimalRange is the pooler's acceptable price band: min <= max.
type DecimalRange struct {
	Min Rational
	Max Rational
}

var ErrPriceRangeError = errors.New("price range error")

// NewDecimalRangeFromSpread builds {min: mid-spread, max: mid+spread}.
func NewDecimalRangeFromSpread(mid, spread Rational) (DecimalRange, error) {
	min, err := mid.Sub(spread)
	if err != nil {
		// mid < spread: clamp to zero, a spread wider than the mid price
		// is a degenerate but valid (very wide) acceptance band.
		min = Zero()
	}
	max := mid.Add(spread)
	if min.Cmp(max) > 0 {
		return DecimalRange{}, ErrPriceRangeError
	}
	return DecimalRange{Min: min, Max: max}, nil
}

// Contains reports whether ratio lies within [Min, Max] inclusive.
func (d DecimalRange) Contains(ratio Rational) bool {
	return ratio.Cmp(d.Min) >= 0 && ratio.Cmp(d.Max) <= 0
}
