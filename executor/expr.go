package executor

// Bound expressions. The planner resolves column names to indexes so
// evaluation never touches the catalog. Expressions form a tree whose
// evaluation is a flat switch on the node kind.

import (
	"fmt"
	"strings"

	"github.com/chirst/kdb/value"
)

// Expr is a bound expression evaluated against a row.
type Expr interface {
	fmt.Stringer
}

// Literal is a constant value.
type Literal struct {
	Value value.Value
}

func (l *Literal) String() string {
	if l.Value.Type == value.Text {
		return "'" + l.Value.Text + "'"
	}
	return l.Value.String()
}

// Column references a column of the input row by bound index.
type Column struct {
	Index int
	// Name is the source column name, kept for explain output and result
	// headers.
	Name string
}

func (c *Column) String() string {
	return c.Name
}

// Unary is unary minus or NOT.
type Unary struct {
	Op      string
	Operand Expr
}

func (u *Unary) String() string {
	if u.Op == "NOT" {
		return fmt.Sprintf("NOT %s", u.Operand)
	}
	return fmt.Sprintf("%s%s", u.Op, u.Operand)
}

// Binary is arithmetic, comparison, or a boolean connective.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Func is a named function call such as abs.
type Func struct {
	Name string
	Args []Expr
}

func (f *Func) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", strings.ToLower(f.Name), strings.Join(args, ", "))
}

// Case is CASE WHEN ... THEN ... [ELSE ...] END.
type Case struct {
	Whens []When
	// Else may be nil meaning the case falls through to null.
	Else Expr
}

type When struct {
	Condition Expr
	Result    Expr
}

func (c *Case) String() string {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, w := range c.Whens {
		fmt.Fprintf(&sb, " WHEN %s THEN %s", w.Condition, w.Result)
	}
	if c.Else != nil {
		fmt.Fprintf(&sb, " ELSE %s", c.Else)
	}
	sb.WriteString(" END")
	return sb.String()
}

// Eval evaluates a bound expression against a row. Eval is pure: it reads
// the row and returns a value or an error fatal to the statement.
func Eval(e Expr, row []value.Value) (value.Value, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Value, nil
	case *Column:
		return row[n.Index], nil
	case *Unary:
		v, err := Eval(n.Operand, row)
		if err != nil {
			return value.NewNull(), err
		}
		switch n.Op {
		case "-":
			return value.Neg(v), nil
		case "NOT":
			return value.Not(v), nil
		}
		return value.NewNull(), fmt.Errorf("unknown unary operator %s", n.Op)
	case *Binary:
		l, err := Eval(n.Left, row)
		if err != nil {
			return value.NewNull(), err
		}
		r, err := Eval(n.Right, row)
		if err != nil {
			return value.NewNull(), err
		}
		switch n.Op {
		case "+":
			return value.Add(l, r)
		case "-":
			return value.Sub(l, r)
		case "*":
			return value.Mul(l, r)
		case "/":
			return value.Div(l, r)
		case "=":
			return value.Eq(l, r), nil
		case "<>":
			return value.Ne(l, r), nil
		case "<":
			return value.Lt(l, r), nil
		case "<=":
			return value.Le(l, r), nil
		case ">":
			return value.Gt(l, r), nil
		case ">=":
			return value.Ge(l, r), nil
		case "AND":
			return value.And(l, r), nil
		case "OR":
			return value.Or(l, r), nil
		}
		return value.NewNull(), fmt.Errorf("unknown binary operator %s", n.Op)
	case *Func:
		if n.Name == "ABS" {
			v, err := Eval(n.Args[0], row)
			if err != nil {
				return value.NewNull(), err
			}
			return value.Abs(v), nil
		}
		return value.NewNull(), fmt.Errorf("unknown function %s", n.Name)
	case *Case:
		for _, w := range n.Whens {
			c, err := Eval(w.Condition, row)
			if err != nil {
				return value.NewNull(), err
			}
			if c.Truthy() {
				return Eval(w.Result, row)
			}
		}
		if n.Else != nil {
			return Eval(n.Else, row)
		}
		return value.NewNull(), nil
	}
	return value.NewNull(), fmt.Errorf("unknown expression node %T", e)
}
