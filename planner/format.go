package planner

import (
	"fmt"
	"strings"

	"github.com/chirst/kdb/executor"
)

type planPrinter struct {
	plan string
}

// FormatPlan returns a string representation of an operator tree. Displayed
// for statements prefixed with `EXPLAIN`.
func FormatPlan(root executor.Operator) string {
	printer := &planPrinter{}
	printer.walk(root, 0)
	return strings.TrimRight(printer.plan, "\n")
}

func (p *planPrinter) walk(o executor.Operator, depth int) {
	p.visit(o, depth)
	for _, c := range o.Children() {
		p.walk(c, depth+1)
	}
}

func (p *planPrinter) visit(o executor.Operator, depth int) {
	padding := ""
	for i := 0; i < depth; i += 1 {
		padding += "    "
	}
	if depth != 0 {
		padding += " └─ "
	} else {
		padding += " ── "
	}
	p.plan += fmt.Sprintf("%s%s\n", padding, o)
}
