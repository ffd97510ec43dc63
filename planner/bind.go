package planner

// Binding resolves names in AST expressions to bound executor expressions.
// Column names resolve to indexes into the binding scope. Constants keep
// their literal type.

import (
	"fmt"

	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/executor"
	"github.com/chirst/kdb/value"
)

// scopeColumn is a name an expression can reference and the row index the
// name resolves to.
type scopeColumn struct {
	name  string
	index int
}

// bindExpr converts an AST expression to a bound executor expression. scope
// may be empty, in which case any column reference is an unknown column.
func bindExpr(e compiler.Expr, scope []scopeColumn) (executor.Expr, error) {
	switch n := e.(type) {
	case *compiler.IntLit:
		return &executor.Literal{Value: value.NewInt(n.Value)}, nil
	case *compiler.StringLit:
		return &executor.Literal{Value: value.NewText(n.Value)}, nil
	case *compiler.BoolLit:
		return &executor.Literal{Value: value.NewBool(n.Value)}, nil
	case *compiler.NullLit:
		return &executor.Literal{Value: value.NewNull()}, nil
	case *compiler.ColumnRef:
		for _, c := range scope {
			if c.name == n.Column {
				return &executor.Column{Index: c.index, Name: c.name}, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", errUnknownColumn, n.Column)
	case *compiler.UnaryExpr:
		operand, err := bindExpr(n.Operand, scope)
		if err != nil {
			return nil, err
		}
		return &executor.Unary{Op: n.Operator, Operand: operand}, nil
	case *compiler.BinaryExpr:
		left, err := bindExpr(n.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := bindExpr(n.Right, scope)
		if err != nil {
			return nil, err
		}
		return &executor.Binary{Op: n.Operator, Left: left, Right: right}, nil
	case *compiler.FunctionExpr:
		args := make([]executor.Expr, len(n.Args))
		for i, a := range n.Args {
			bound, err := bindExpr(a, scope)
			if err != nil {
				return nil, err
			}
			args[i] = bound
		}
		return &executor.Func{Name: n.FnType, Args: args}, nil
	case *compiler.CaseExpr:
		bound := &executor.Case{}
		for _, w := range n.Whens {
			cond, err := bindExpr(w.Condition, scope)
			if err != nil {
				return nil, err
			}
			result, err := bindExpr(w.Result, scope)
			if err != nil {
				return nil, err
			}
			bound.Whens = append(bound.Whens, executor.When{
				Condition: cond,
				Result:    result,
			})
		}
		if n.Else != nil {
			elseExpr, err := bindExpr(n.Else, scope)
			if err != nil {
				return nil, err
			}
			bound.Else = elseExpr
		}
		return bound, nil
	}
	return nil, fmt.Errorf("cannot bind expression %T", e)
}

// ordinalOf returns the 1 based select list position when the expression is
// an integer literal, possibly negated. ORDER BY 2 and ORDER BY -1 are both
// ordinals, only the first is a valid one.
func ordinalOf(e compiler.Expr) (int64, bool) {
	switch n := e.(type) {
	case *compiler.IntLit:
		return n.Value, true
	case *compiler.UnaryExpr:
		if n.Operator != "-" {
			return 0, false
		}
		if il, ok := n.Operand.(*compiler.IntLit); ok {
			return -il.Value, true
		}
	}
	return 0, false
}
