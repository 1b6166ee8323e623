// Package validate turns caller-supplied numbers into domain.Bounded64
// values. It is the single validation gate in front of every operation.
package validate

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/polisai/primecore/pkg/domain"
)

// Kind tags the representation a Number was built from.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindUint
	KindFloat
	KindBig
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBig:
		return "big"
	default:
		return "invalid"
	}
}

// two64 is 2^64 as a float64; every float at or above it is out of range.
const two64 = 18446744073709551616.0

var maxUint64Big = new(big.Int).SetUint64(math.MaxUint64)

// Number is an unvalidated numeric input. The zero value is invalid.
type Number struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	b    *big.Int
}

// Int wraps a signed integer.
func Int(v int64) Number { return Number{kind: KindInt, i: v} }

// Uint wraps an unsigned integer.
func Uint(v uint64) Number { return Number{kind: KindUint, u: v} }

// Float wraps a floating-point value that may carry an integral value.
func Float(v float64) Number { return Number{kind: KindFloat, f: v} }

// Big wraps an arbitrary-precision integer. The value is copied.
func Big(v *big.Int) Number {
	if v == nil {
		return Number{}
	}
	return Number{kind: KindBig, b: new(big.Int).Set(v)}
}

// Parse reads a decimal integer of any length or a floating-point literal.
func Parse(param, s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, &domain.ValidationError{Param: param, Reason: "empty input", Err: domain.ErrNotIntegral}
	}
	if b, ok := new(big.Int).SetString(s, 10); ok {
		return Number{kind: KindBig, b: b}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, &domain.ValidationError{
			Param:  param,
			Value:  strconv.Quote(s),
			Reason: "not a number",
			Err:    domain.ErrNotIntegral,
		}
	}
	return Float(f), nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Number {
	n, err := Parse("n", s)
	if err != nil {
		panic(err)
	}
	return n
}

// Kind reports how n was constructed.
func (n Number) Kind() Kind { return n.kind }

func (n Number) String() string {
	switch n.kind {
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindUint:
		return strconv.FormatUint(n.u, 10)
	case KindFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	case KindBig:
		return n.b.String()
	default:
		return "<invalid>"
	}
}

// Bounded validates n and returns its canonical value. param names the
// input in error messages.
func (n Number) Bounded(param string) (domain.Bounded64, error) {
	switch n.kind {
	case KindUint:
		return domain.Bounded64(n.u), nil
	case KindInt:
		if n.i < 0 {
			return 0, n.rangeError(param, "must be non-negative")
		}
		return domain.Bounded64(n.i), nil
	case KindFloat:
		return n.boundedFloat(param)
	case KindBig:
		if n.b.Sign() < 0 {
			return 0, n.rangeError(param, "must be non-negative")
		}
		if n.b.Cmp(maxUint64Big) > 0 {
			return 0, n.rangeError(param, fmt.Sprintf("exceeds maximum %d", uint64(math.MaxUint64)))
		}
		return domain.Bounded64(n.b.Uint64()), nil
	default:
		return 0, &domain.ValidationError{Param: param, Reason: "missing value", Err: domain.ErrNotIntegral}
	}
}

func (n Number) boundedFloat(param string) (domain.Bounded64, error) {
	f := n.f
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, &domain.ValidationError{
			Param:  param,
			Value:  n.String(),
			Reason: "float with a fractional part",
			Err:    domain.ErrNotIntegral,
		}
	}
	if f < 0 {
		return 0, n.rangeError(param, "must be non-negative")
	}
	if f >= two64 {
		return 0, n.rangeError(param, fmt.Sprintf("exceeds maximum %d", uint64(math.MaxUint64)))
	}
	return domain.Bounded64(uint64(f)), nil
}

func (n Number) rangeError(param, reason string) error {
	return &domain.ValidationError{
		Param:  param,
		Value:  n.String(),
		Reason: reason,
		Err:    domain.ErrOutOfRange,
	}
}
