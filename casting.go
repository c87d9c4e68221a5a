package goSentinel

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Op is a binary arithmetic operation.
type Op uint8

const (
	// OpAdd adds integers and concatenates bytes or strings.
	OpAdd Op = iota + 1
	// OpSub subtracts integers.
	OpSub
	// OpMul multiplies integers.
	OpMul
	// OpFloorDiv divides integers rounding toward negative infinity.
	OpFloorDiv
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpFloorDiv:
		return "//"
	default:
		return "?"
	}
}

// targetKind picks the family a constant is cast into when it meets operand.
func targetKind(operand any) Kind {
	switch x := operand.(type) {
	case []byte:
		return KindBytes
	case string:
		return KindString
	case *Constant:
		return x.kind()
	case Value:
		return x.kind
	}
	if _, ok := integerOf(operand); ok {
		return KindInt
	}
	return KindBytes
}

// operands casts whichever side is a Constant into the other side's family.
// With two constants the left one follows the right; an unbound right side
// counts as bytes and is not materialized to pick the family.
func operands(left, right any) (Value, Value, error) {
	lc, lok := left.(*Constant)
	rc, rok := right.(*Constant)
	if (lok && lc == nil) || (rok && rc == nil) {
		return Value{}, Value{}, fmt.Errorf("%w: nil constant", ErrCast)
	}

	switch {
	case lok && rok:
		k := rc.kind()
		r, err := rc.castTo(k)
		if err != nil {
			return Value{}, Value{}, err
		}
		l, err := lc.castTo(k)
		return l, r, err
	case lok:
		l, err := lc.castTo(targetKind(right))
		return l, ValueOf(right), err
	case rok:
		r, err := rc.castTo(targetKind(left))
		return ValueOf(left), r, err
	default:
		return ValueOf(left), ValueOf(right), nil
	}
}

// Binary applies op to left and right, either of which may be a Constant.
// The result is the native result of the operation, never a Constant.
func Binary(op Op, left, right any) (Value, error) {
	l, r, err := operands(left, right)
	if err != nil {
		return Value{}, err
	}
	return apply(op, l, r)
}

func apply(op Op, l, r Value) (Value, error) {
	if l.kind != r.kind {
		return Value{}, fmt.Errorf("%w: %s %s %s", ErrUnsupportedOperation, l.kind, op, r.kind)
	}

	switch l.kind {
	case KindInt:
		out := new(big.Int)
		switch op {
		case OpAdd:
			out.Add(l.num, r.num)
		case OpSub:
			out.Sub(l.num, r.num)
		case OpMul:
			out.Mul(l.num, r.num)
		case OpFloorDiv:
			if r.num.Sign() == 0 {
				return Value{}, ErrDivisionByZero
			}
			floorDiv(out, l.num, r.num)
		default:
			return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
		}
		return Value{kind: KindInt, num: out}, nil
	case KindBytes:
		if op == OpAdd {
			out := make([]byte, 0, len(l.raw)+len(r.raw))
			out = append(out, l.raw...)
			return Value{kind: KindBytes, raw: append(out, r.raw...)}, nil
		}
	case KindString:
		if op == OpAdd {
			return StringValue(l.text + r.text), nil
		}
	}
	return Value{}, fmt.Errorf("%w: %s %s %s", ErrUnsupportedOperation, l.kind, op, r.kind)
}

func floorDiv(out, x, y *big.Int) {
	m := new(big.Int)
	out.QuoRem(x, y, m)
	if m.Sign() != 0 && (m.Sign() < 0) != (y.Sign() < 0) {
		out.Sub(out, big.NewInt(1))
	}
}

// Quo is true division of two integer-family operands, either of which may be
// a Constant.
func Quo(left, right any) (decimal.Decimal, error) {
	l, r, err := operands(left, right)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if l.kind != KindInt || r.kind != KindInt {
		return decimal.Decimal{}, fmt.Errorf("%w: %s / %s", ErrUnsupportedOperation, l.kind, r.kind)
	}
	if r.num.Sign() == 0 {
		return decimal.Decimal{}, ErrDivisionByZero
	}
	return decimal.NewFromBigInt(l.num, 0).Div(decimal.NewFromBigInt(r.num, 0)), nil
}

// Add returns c + other.
func (c *Constant) Add(other any) (Value, error) {
	return Binary(OpAdd, c, other)
}

// Sub returns c - other.
func (c *Constant) Sub(other any) (Value, error) {
	return Binary(OpSub, c, other)
}

// Mul returns c * other.
func (c *Constant) Mul(other any) (Value, error) {
	return Binary(OpMul, c, other)
}

// FloorDiv returns c // other.
func (c *Constant) FloorDiv(other any) (Value, error) {
	return Binary(OpFloorDiv, c, other)
}

// Quo returns c / other as a decimal.
func (c *Constant) Quo(other any) (decimal.Decimal, error) {
	return Quo(c, other)
}

// Equal casts c into other's family and compares. It never fails: a cast
// that cannot succeed makes the values unequal.
func (c *Constant) Equal(other any) bool {
	if o, ok := other.(*Constant); ok && o != nil && o.st == c.st {
		return true
	}
	l, r, err := operands(c, other)
	if err != nil {
		return false
	}
	return l.Equal(r)
}

// Compare casts c into other's family and orders the two: -1, 0 or +1.
// Opaque representations have no order.
func (c *Constant) Compare(other any) (int, error) {
	l, r, err := operands(c, other)
	if err != nil {
		return 0, err
	}
	if l.kind != r.kind {
		return 0, fmt.Errorf("%w: compare %s with %s", ErrUnsupportedOperation, l.kind, r.kind)
	}
	switch l.kind {
	case KindBytes:
		return bytes.Compare(l.raw, r.raw), nil
	case KindString:
		return strings.Compare(l.text, r.text), nil
	case KindInt:
		return l.num.Cmp(r.num), nil
	default:
		return 0, fmt.Errorf("%w: compare %s", ErrUnsupportedOperation, l.kind)
	}
}

// Less reports c < other.
func (c *Constant) Less(other any) (bool, error) {
	n, err := c.Compare(other)
	return n < 0, err
}

// LessOrEqual reports c <= other.
func (c *Constant) LessOrEqual(other any) (bool, error) {
	n, err := c.Compare(other)
	return err == nil && n <= 0, err
}

// Greater reports c > other.
func (c *Constant) Greater(other any) (bool, error) {
	n, err := c.Compare(other)
	return n > 0, err
}

// GreaterOrEqual reports c >= other.
func (c *Constant) GreaterOrEqual(other any) (bool, error) {
	n, err := c.Compare(other)
	return err == nil && n >= 0, err
}
