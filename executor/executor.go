// executor runs physical operator trees produced by the planner. Operators
// follow a pull based iteration contract: Open acquires the operator's child
// and storage resources, Next produces one row at a time, and Close releases
// resources on every exit path. The consumer drives the tree from the root.
package executor

import (
	"time"

	"github.com/chirst/kdb/value"
)

// Operator is the capability set every physical operator exposes. Next
// returns the next row and whether a row was produced. An error from Next is
// fatal to the statement and propagates up unchanged.
type Operator interface {
	Open() error
	Next() ([]value.Value, bool, error)
	Close() error
	// Children returns the operator's inputs, leaves return none. Used by
	// the plan formatter.
	Children() []Operator
	// String is a one line description of the operator for explain output.
	String() string
}

// rowCounter is implemented by operators that consume rows instead of
// producing them, such as insert and the DDL nodes.
type rowCounter interface {
	Count() int
}

// Plan is an executable statement: an operator tree plus the result header
// the tree's rows conform to. Header is empty for statements that return no
// rows.
type Plan struct {
	Header []string
	Root   Operator
	// Version is the catalog version the plan was compiled against.
	Version string
}

// Result is what executing a plan produces. Either Err is set or the
// remaining fields are.
type Result struct {
	Err error
	// Text is a status message such as explain output.
	Text string
	// Header is the names of columns in the result. A name may be empty for
	// an anonymous expression column.
	Header []string
	// Rows are the result rows in output order.
	Rows [][]value.Value
	// Count is the number of rows a DML or DDL statement affected.
	Count int
	// Duration is the overall execution time.
	Duration time.Duration
}

// Run drives the plan's operator tree to completion. Close runs on every
// exit path including errors.
func Run(plan *Plan) *Result {
	start := time.Now()
	res := &Result{Header: plan.Header}
	root := plan.Root
	if err := root.Open(); err != nil {
		root.Close()
		return &Result{Err: err}
	}
	for {
		row, ok, err := root.Next()
		if err != nil {
			root.Close()
			return &Result{Err: err}
		}
		if !ok {
			break
		}
		res.Rows = append(res.Rows, row)
	}
	if err := root.Close(); err != nil {
		return &Result{Err: err}
	}
	if c, ok := root.(rowCounter); ok {
		res.Count = c.Count()
	} else {
		res.Count = len(res.Rows)
	}
	res.Duration = time.Since(start)
	return res
}
