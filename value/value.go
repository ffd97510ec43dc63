// value defines the scalar values flowing through the engine. Every cell in a
// row, every constant in an expression, and every intermediate result of the
// evaluator is a Value. Nulls propagate through arithmetic and comparisons and
// follow three valued logic in boolean connectives.
package value

import (
	"errors"
	"fmt"
	"strconv"
)

// Type enumerates the types a Value can have. The constants double as the
// codec type tags so they must keep their numeric values.
type Type int

const (
	Null Type = iota
	Int
	Bool
	Text
)

func (t Type) String() string {
	switch t {
	case Null:
		return "NULL"
	case Int:
		return "INT"
	case Bool:
		return "BOOLEAN"
	case Text:
		return "TEXT"
	}
	return fmt.Sprintf("unknown type %d", int(t))
}

var errDivisionByZero = errors.New("division by zero")

// Value is a tagged scalar. Only the field matching Type is meaningful.
type Value struct {
	Type Type
	Int  int64
	Bool bool
	Text string
}

func NewNull() Value {
	return Value{Type: Null}
}

func NewInt(i int64) Value {
	return Value{Type: Int, Int: i}
}

func NewBool(b bool) Value {
	return Value{Type: Bool, Bool: b}
}

func NewText(s string) Value {
	return Value{Type: Text, Text: s}
}

func (v Value) IsNull() bool {
	return v.Type == Null
}

// String renders the value the way the repl prints a cell.
func (v Value) String() string {
	switch v.Type {
	case Null:
		return "NULL"
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Bool:
		return strconv.FormatBool(v.Bool)
	case Text:
		return v.Text
	}
	return fmt.Sprintf("unknown value type %d", int(v.Type))
}

// asInt promotes the value to an integer. Bools promote to 0 and 1. Text and
// null do not promote.
func (v Value) asInt() (int64, bool) {
	switch v.Type {
	case Int:
		return v.Int, true
	case Bool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// asBool coerces the value for boolean connectives. Null is unknown. A zero
// integer is false and any other integer is true. Text is false.
func (v Value) asBool() (b, known bool) {
	switch v.Type {
	case Null:
		return false, false
	case Bool:
		return v.Bool, true
	case Int:
		return v.Int != 0, true
	case Text:
		return false, true
	}
	return false, false
}

// Truthy reports whether a filter keeps the row. False and null both drop.
func (v Value) Truthy() bool {
	b, known := v.asBool()
	return known && b
}

// Add returns a + b. Integer arithmetic wraps.
func Add(a, b Value) (Value, error) {
	return arith(a, b, func(x, y int64) (int64, error) { return x + y, nil })
}

// Sub returns a - b.
func Sub(a, b Value) (Value, error) {
	return arith(a, b, func(x, y int64) (int64, error) { return x - y, nil })
}

// Mul returns a * b.
func Mul(a, b Value) (Value, error) {
	return arith(a, b, func(x, y int64) (int64, error) { return x * y, nil })
}

// Div returns a / b. Dividing by zero is fatal to the statement rather than a
// null result.
func Div(a, b Value) (Value, error) {
	return arith(a, b, func(x, y int64) (int64, error) {
		if y == 0 {
			return 0, errDivisionByZero
		}
		return x / y, nil
	})
}

// arith applies op over both operands promoted to integers. A null or text
// operand makes the result null so a filter treats it as false.
func arith(a, b Value, op func(x, y int64) (int64, error)) (Value, error) {
	x, okx := a.asInt()
	y, oky := b.asInt()
	if !okx || !oky {
		return NewNull(), nil
	}
	r, err := op(x, y)
	if err != nil {
		return NewNull(), err
	}
	return NewInt(r), nil
}

// Neg returns -a with the same promotion rules as binary arithmetic.
func Neg(a Value) Value {
	x, ok := a.asInt()
	if !ok {
		return NewNull()
	}
	return NewInt(-x)
}

// Abs returns the absolute value of a.
func Abs(a Value) Value {
	x, ok := a.asInt()
	if !ok {
		return NewNull()
	}
	if x < 0 {
		return NewInt(-x)
	}
	return NewInt(x)
}

// Compare operators. Each returns a boolean value, or null when either
// operand is null or the operands are not comparable (text against non text).

func Eq(a, b Value) Value {
	return cmp(a, b, func(c int) bool { return c == 0 })
}

func Ne(a, b Value) Value {
	return cmp(a, b, func(c int) bool { return c != 0 })
}

func Lt(a, b Value) Value {
	return cmp(a, b, func(c int) bool { return c < 0 })
}

func Le(a, b Value) Value {
	return cmp(a, b, func(c int) bool { return c <= 0 })
}

func Gt(a, b Value) Value {
	return cmp(a, b, func(c int) bool { return c > 0 })
}

func Ge(a, b Value) Value {
	return cmp(a, b, func(c int) bool { return c >= 0 })
}

func cmp(a, b Value, test func(c int) bool) Value {
	c, ok := compare(a, b)
	if !ok {
		return NewNull()
	}
	return NewBool(test(c))
}

// compare returns the ordering of two comparable values. Text compares
// lexicographically against text only. Ints and bools compare numerically.
func compare(a, b Value) (c int, comparable bool) {
	if a.IsNull() || b.IsNull() {
		return 0, false
	}
	if a.Type == Text || b.Type == Text {
		if a.Type != b.Type {
			return 0, false
		}
		switch {
		case a.Text < b.Text:
			return -1, true
		case a.Text > b.Text:
			return 1, true
		}
		return 0, true
	}
	x, _ := a.asInt()
	y, _ := b.asInt()
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	}
	return 0, true
}

// And implements three valued AND. False wins over unknown.
func And(a, b Value) Value {
	x, okx := a.asBool()
	y, oky := b.asBool()
	if okx && !x || oky && !y {
		return NewBool(false)
	}
	if okx && oky {
		return NewBool(true)
	}
	return NewNull()
}

// Or implements three valued OR. True wins over unknown.
func Or(a, b Value) Value {
	x, okx := a.asBool()
	y, oky := b.asBool()
	if okx && x || oky && y {
		return NewBool(true)
	}
	if okx && oky {
		return NewBool(false)
	}
	return NewNull()
}

// Not implements three valued NOT.
func Not(a Value) Value {
	x, ok := a.asBool()
	if !ok {
		return NewNull()
	}
	return NewBool(!x)
}

// Order is the total order used by ORDER BY. Null sorts first, then bools and
// ints together numerically, then text lexicographically.
func Order(a, b Value) int {
	ra := orderRank(a)
	rb := orderRank(b)
	if ra != rb {
		return ra - rb
	}
	if ra == 0 {
		return 0
	}
	c, _ := compare(a, b)
	return c
}

// orderRank buckets values for the cross type ordering null < bool/int <
// text. Bools and ints share a bucket since they compare numerically.
func orderRank(v Value) int {
	switch v.Type {
	case Null:
		return 0
	case Bool, Int:
		return 1
	}
	return 2
}

// OrderRows compares two equal arity key tuples left to right.
func OrderRows(a, b []Value) int {
	for i := range a {
		if c := Order(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}
