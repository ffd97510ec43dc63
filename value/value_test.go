package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithmeticPromotion(t *testing.T) {
	testCases := []struct {
		desc     string
		got      func() (Value, error)
		expected Value
	}{
		{
			desc:     "int plus int",
			got:      func() (Value, error) { return Add(NewInt(2), NewInt(3)) },
			expected: NewInt(5),
		},
		{
			desc:     "bool promotes to int",
			got:      func() (Value, error) { return Add(NewBool(true), NewInt(1)) },
			expected: NewInt(2),
		},
		{
			desc:     "false promotes to zero",
			got:      func() (Value, error) { return Mul(NewBool(false), NewInt(7)) },
			expected: NewInt(0),
		},
		{
			desc:     "null propagates",
			got:      func() (Value, error) { return Add(NewNull(), NewInt(1)) },
			expected: NewNull(),
		},
		{
			desc:     "text is null not an error",
			got:      func() (Value, error) { return Sub(NewText("foo"), NewInt(1)) },
			expected: NewNull(),
		},
		{
			desc:     "wrapping overflow",
			got:      func() (Value, error) { return Add(NewInt(1<<63-1), NewInt(1)) },
			expected: NewInt(-1 << 63),
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			v, err := tC.got()
			assert.NoError(t, err)
			assert.Equal(t, tC.expected, v)
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := Div(NewInt(1), NewInt(0))
	assert.ErrorIs(t, err, errDivisionByZero)
	_, err = Div(NewInt(1), NewBool(false))
	assert.ErrorIs(t, err, errDivisionByZero)
}

func TestUnary(t *testing.T) {
	assert.Equal(t, NewInt(-4), Neg(NewInt(4)))
	assert.Equal(t, NewInt(-1), Neg(NewBool(true)))
	assert.Equal(t, NewNull(), Neg(NewText("x")))
	assert.Equal(t, NewNull(), Neg(NewNull()))
	assert.Equal(t, NewInt(4), Abs(NewInt(-4)))
	assert.Equal(t, NewInt(1), Abs(NewBool(true)))
	assert.Equal(t, NewNull(), Abs(NewText("x")))
}

func TestComparisons(t *testing.T) {
	testCases := []struct {
		desc     string
		got      Value
		expected Value
	}{
		{"int lt int", Lt(NewInt(1), NewInt(2)), NewBool(true)},
		{"bool eq int", Eq(NewBool(true), NewInt(1)), NewBool(true)},
		{"text eq text", Eq(NewText("a"), NewText("a")), NewBool(true)},
		{"text lt text", Lt(NewText("a"), NewText("b")), NewBool(true)},
		{"text against int is null", Gt(NewInt(1), NewText("abc")), NewNull()},
		{"null against anything is null", Eq(NewNull(), NewNull()), NewNull()},
		{"ne", Ne(NewInt(2), NewInt(2)), NewBool(false)},
		{"ge", Ge(NewInt(2), NewInt(2)), NewBool(true)},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, tC.got)
		})
	}
}

func TestThreeValuedLogic(t *testing.T) {
	null := NewNull()
	yes := NewBool(true)
	no := NewBool(false)
	assert.Equal(t, yes, Or(yes, null))
	assert.Equal(t, yes, Or(null, yes))
	assert.Equal(t, null, Or(no, null))
	assert.Equal(t, no, And(no, null))
	assert.Equal(t, no, And(null, no))
	assert.Equal(t, null, And(yes, null))
	assert.Equal(t, null, Not(null))
	assert.Equal(t, no, Not(yes))
	// coercions in boolean context
	assert.Equal(t, yes, Or(NewInt(2), no))
	assert.Equal(t, no, And(NewInt(0), yes))
	assert.Equal(t, no, And(NewText("t"), yes))
}

func TestTruthy(t *testing.T) {
	assert.True(t, NewBool(true).Truthy())
	assert.False(t, NewBool(false).Truthy())
	assert.False(t, NewNull().Truthy())
	assert.True(t, NewInt(-3).Truthy())
	assert.False(t, NewInt(0).Truthy())
	assert.False(t, NewText("abc").Truthy())
}

func TestOrderIsTotal(t *testing.T) {
	// null < bool/int (numeric) < text
	ordered := []Value{
		NewNull(),
		NewInt(-5),
		NewBool(false),
		NewBool(true),
		NewInt(2),
		NewText("a"),
		NewText("b"),
	}
	for i := range ordered {
		for j := range ordered {
			c := Order(ordered[i], ordered[j])
			switch {
			case i < j:
				assert.LessOrEqual(t, c, 0, "%s vs %s", ordered[i], ordered[j])
			case i > j:
				assert.GreaterOrEqual(t, c, 0, "%s vs %s", ordered[i], ordered[j])
			default:
				assert.Zero(t, c)
			}
		}
	}
	// bool and int compare numerically in the total order
	assert.Zero(t, Order(NewBool(true), NewInt(1)))
	assert.Negative(t, Order(NewInt(0), NewBool(true)))
}
