package executor

import (
	"fmt"

	"github.com/chirst/kdb/value"
)

// Filter drops rows whose predicate does not evaluate to true. A null
// predicate result drops the row.
type Filter struct {
	child     Operator
	predicate Expr
}

func NewFilter(child Operator, predicate Expr) *Filter {
	return &Filter{child: child, predicate: predicate}
}

func (f *Filter) Open() error {
	return f.child.Open()
}

func (f *Filter) Next() ([]value.Value, bool, error) {
	for {
		row, ok, err := f.child.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		keep, err := Eval(f.predicate, row)
		if err != nil {
			return nil, false, err
		}
		if keep.Truthy() {
			return row, true, nil
		}
	}
}

func (f *Filter) Close() error {
	return f.child.Close()
}

func (f *Filter) Children() []Operator {
	return []Operator{f.child}
}

func (f *Filter) String() string {
	return fmt.Sprintf("filter %s", f.predicate)
}
