/*
Copyright (C) 2025  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package lisk

import "math"
import "errors"
import "strconv"
import "strings"
import "math/bits"

type NumberKind uint8

const (
	UIntKind NumberKind = iota
	SIntKind
	RealKind
)

var ErrOverflow = errors.New("numeric overflow")
var ErrDivisionByZero = errors.New("division by zero")

// finite rejects inf and nan results; the reader has no literal for them.
func finite(f float64) (Number, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Real(f), ErrOverflow
	}
	return Real(f), nil
}

// Number is an unsigned, signed or real scalar. The payload is stored as
// raw bits and interpreted by kind.
type Number struct {
	kind NumberKind
	bits uint64
}

func UInt(v uint64) Number  { return Number{UIntKind, v} }
func SInt(v int64) Number   { return Number{SIntKind, uint64(v)} }
func Real(v float64) Number { return Number{RealKind, math.Float64bits(v)} }

func (n Number) Kind() NumberKind { return n.kind }
func (n Number) IsUInt() bool     { return n.kind == UIntKind }
func (n Number) IsSInt() bool     { return n.kind == SIntKind }
func (n Number) IsReal() bool     { return n.kind == RealKind }

func (n Number) GetUInt() (uint64, bool) {
	return n.bits, n.kind == UIntKind
}

func (n Number) GetSInt() (int64, bool) {
	return int64(n.bits), n.kind == SIntKind
}

func (n Number) GetReal() (float64, bool) {
	return math.Float64frombits(n.bits), n.kind == RealKind
}

func (n Number) AsUInt() uint64 {
	if n.kind != UIntKind {
		panic("number is not uint")
	}
	return n.bits
}

func (n Number) AsSInt() int64 {
	if n.kind != SIntKind {
		panic("number is not sint")
	}
	return int64(n.bits)
}

func (n Number) AsReal() float64 {
	if n.kind != RealKind {
		panic("number is not real")
	}
	return math.Float64frombits(n.bits)
}

func (n Number) ToReal() float64 {
	switch n.kind {
	case UIntKind:
		return float64(n.bits)
	case SIntKind:
		return float64(int64(n.bits))
	default:
		return math.Float64frombits(n.bits)
	}
}

// ToSInt converts to int64 if the value is representable; reals truncate.
func (n Number) ToSInt() (int64, bool) {
	switch n.kind {
	case UIntKind:
		return int64(n.bits), n.bits <= math.MaxInt64
	case SIntKind:
		return int64(n.bits), true
	default:
		f := math.Trunc(n.AsReal())
		if f < math.MinInt64 || f >= math.MaxInt64 || math.IsNaN(f) {
			return 0, false
		}
		return int64(f), true
	}
}

// ToUInt converts to uint64 if the value is representable; reals truncate.
func (n Number) ToUInt() (uint64, bool) {
	switch n.kind {
	case UIntKind:
		return n.bits, true
	case SIntKind:
		return n.bits, int64(n.bits) >= 0
	default:
		f := math.Trunc(n.AsReal())
		if f < 0 || f >= math.MaxUint64 || math.IsNaN(f) {
			return 0, false
		}
		return uint64(f), true
	}
}

func (n Number) IsZero() bool {
	if n.kind == RealKind {
		return n.AsReal() == 0
	}
	return n.bits == 0
}

/* promotion: real dominates, uint op uint stays uint, everything else is checked int64 */

func (a Number) Add(b Number) (Number, error) {
	if a.kind == RealKind || b.kind == RealKind {
		return finite(a.ToReal() + b.ToReal())
	}
	if a.kind == UIntKind && b.kind == UIntKind {
		sum, carry := bits.Add64(a.bits, b.bits, 0)
		if carry != 0 {
			return a, ErrOverflow
		}
		return UInt(sum), nil
	}
	x, y, err := signedPair(a, b)
	if err != nil {
		return a, err
	}
	r := x + y
	if (x > 0 && y > 0 && r < 0) || (x < 0 && y < 0 && r >= 0) {
		return a, ErrOverflow
	}
	return SInt(r), nil
}

func (a Number) Sub(b Number) (Number, error) {
	if a.kind == RealKind || b.kind == RealKind {
		return finite(a.ToReal() - b.ToReal())
	}
	if a.kind == UIntKind && b.kind == UIntKind {
		if a.bits >= b.bits {
			return UInt(a.bits - b.bits), nil
		}
		d := b.bits - a.bits
		if d > 1<<63 {
			return a, ErrOverflow
		}
		return SInt(int64(-d)), nil // two's complement, also covers MinInt64
	}
	x, y, err := signedPair(a, b)
	if err != nil {
		return a, err
	}
	r := x - y
	if (y < 0 && r < x) || (y > 0 && r > x) {
		return a, ErrOverflow
	}
	return SInt(r), nil
}

func (a Number) Mul(b Number) (Number, error) {
	if a.kind == RealKind || b.kind == RealKind {
		return finite(a.ToReal() * b.ToReal())
	}
	if a.kind == UIntKind && b.kind == UIntKind {
		hi, lo := bits.Mul64(a.bits, b.bits)
		if hi != 0 {
			return a, ErrOverflow
		}
		return UInt(lo), nil
	}
	x, y, err := signedPair(a, b)
	if err != nil {
		return a, err
	}
	if x == 0 || y == 0 {
		return SInt(0), nil
	}
	r := x * y
	if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return a, ErrOverflow
	}
	return SInt(r), nil
}

// Div truncates for integers.
func (a Number) Div(b Number) (Number, error) {
	if b.IsZero() {
		return a, ErrDivisionByZero
	}
	if a.kind == RealKind || b.kind == RealKind {
		return finite(a.ToReal() / b.ToReal())
	}
	if a.kind == UIntKind && b.kind == UIntKind {
		return UInt(a.bits / b.bits), nil
	}
	x, y, err := signedPair(a, b)
	if err != nil {
		return a, err
	}
	if x == math.MinInt64 && y == -1 {
		return a, ErrOverflow
	}
	return SInt(x / y), nil
}

func (a Number) Neg() (Number, error) {
	return SInt(0).Sub(a)
}

// Compare returns -1, 0 or 1. Integers compare exactly regardless of kind.
func (a Number) Compare(b Number) int {
	if a.kind == RealKind || b.kind == RealKind {
		x, y := a.ToReal(), b.ToReal()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	aneg := a.kind == SIntKind && int64(a.bits) < 0
	bneg := b.kind == SIntKind && int64(b.bits) < 0
	switch {
	case aneg && !bneg:
		return -1
	case !aneg && bneg:
		return 1
	}
	// same sign: for two negatives the two's complement order matches
	switch {
	case a.bits < b.bits:
		return -1
	case a.bits > b.bits:
		return 1
	}
	return 0
}

func signedPair(a, b Number) (int64, int64, error) {
	x, ok1 := a.ToSInt()
	y, ok2 := b.ToSInt()
	if !ok1 || !ok2 {
		return 0, 0, ErrOverflow
	}
	return x, y, nil
}

// String renders uint as plain digits, sint and real with an explicit sign
// so the reader parses them back into the same kind.
func (n Number) String() string {
	switch n.kind {
	case UIntKind:
		return strconv.FormatUint(n.bits, 10)
	case SIntKind:
		v := int64(n.bits)
		if v >= 0 {
			return "+" + strconv.FormatInt(v, 10)
		}
		return strconv.FormatInt(v, 10)
	default:
		v := n.AsReal()
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return s
		}
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		if v >= 0 && !math.Signbit(v) {
			s = "+" + s
		}
		return s
	}
}
