package executor

import (
	"fmt"

	"github.com/chirst/kdb/value"
)

// Values emits a fixed sequence of tuples. Each cell is an expression
// evaluated against an empty row, so inserts can carry computed values like
// (2+2, -42). A Values with a single empty tuple backs FROM-less selects.
type Values struct {
	rows [][]Expr
	pos  int
}

func NewValues(rows [][]Expr) *Values {
	return &Values{rows: rows}
}

// NewEmptyRow returns a Values emitting one zero arity tuple.
func NewEmptyRow() *Values {
	return &Values{rows: [][]Expr{{}}}
}

func (v *Values) Open() error {
	v.pos = 0
	return nil
}

func (v *Values) Next() ([]value.Value, bool, error) {
	if v.pos >= len(v.rows) {
		return nil, false, nil
	}
	exprs := v.rows[v.pos]
	v.pos += 1
	row := make([]value.Value, len(exprs))
	for i, e := range exprs {
		val, err := Eval(e, nil)
		if err != nil {
			return nil, false, err
		}
		row[i] = val
	}
	return row, true, nil
}

func (v *Values) Close() error {
	return nil
}

func (v *Values) Children() []Operator {
	return []Operator{}
}

func (v *Values) String() string {
	return fmt.Sprintf("values (%d rows)", len(v.rows))
}
