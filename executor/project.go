package executor

import (
	"fmt"
	"strings"

	"github.com/chirst/kdb/value"
)

// Project evaluates the select list per input row. Its arity is the number
// of select items after * expansion.
type Project struct {
	child Operator
	exprs []Expr
}

func NewProject(child Operator, exprs []Expr) *Project {
	return &Project{child: child, exprs: exprs}
}

func (p *Project) Open() error {
	return p.child.Open()
}

func (p *Project) Next() ([]value.Value, bool, error) {
	row, ok, err := p.child.Next()
	if err != nil || !ok {
		return nil, false, err
	}
	out := make([]value.Value, len(p.exprs))
	for i, e := range p.exprs {
		v, err := Eval(e, row)
		if err != nil {
			return nil, false, err
		}
		out[i] = v
	}
	return out, true, nil
}

func (p *Project) Close() error {
	return p.child.Close()
}

func (p *Project) Children() []Operator {
	return []Operator{p.child}
}

func (p *Project) String() string {
	list := make([]string, len(p.exprs))
	for i, e := range p.exprs {
		list[i] = e.String()
	}
	return fmt.Sprintf("project (%s)", strings.Join(list, ", "))
}
