package planner

import (
	"fmt"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/executor"
	"github.com/chirst/kdb/kv"
)

// insertCatalog defines the catalog methods needed by the insert planner.
type insertCatalog interface {
	Table(name string) (*catalog.Table, error)
	Version() string
}

type insertPlanner struct {
	catalog insertCatalog
	store   kv.Store
	stmt    *compiler.InsertStmt
}

func NewInsert(catalog insertCatalog, store kv.Store, stmt *compiler.InsertStmt) *insertPlanner {
	return &insertPlanner{
		catalog: catalog,
		store:   store,
		stmt:    stmt,
	}
}

// Plan rewrites INSERT ... VALUES into Insert(t, Values(...)) and
// INSERT ... SELECT into Insert(t, plan of select). Value expressions bind
// against an empty scope so column references are rejected, then reorder to
// the table's declaration order when an explicit column list is given.
func (p *insertPlanner) Plan() (*executor.Plan, error) {
	table, err := p.catalog.Table(p.stmt.TableName)
	if err != nil {
		return nil, err
	}
	targets, err := p.columnTargets(table)
	if err != nil {
		return nil, err
	}

	var child executor.Operator
	if p.stmt.Select != nil {
		selectPlan, err := NewSelect(p.catalog, p.store, p.stmt.Select).Plan()
		if err != nil {
			return nil, err
		}
		if len(selectPlan.Header) != len(targets) {
			return nil, fmt.Errorf(
				"%w: expected %d columns but select has %d",
				errValuesNotMatch, len(targets), len(selectPlan.Header),
			)
		}
		child = p.reorder(table, targets, selectPlan.Root)
	} else {
		rows := make([][]executor.Expr, 0, len(p.stmt.ColValues))
		for _, astRow := range p.stmt.ColValues {
			if len(astRow) != len(targets) {
				return nil, fmt.Errorf(
					"%w: expected %d values but got %d",
					errValuesNotMatch, len(targets), len(astRow),
				)
			}
			// unmentioned columns insert as null
			row := make([]executor.Expr, len(table.Columns))
			null := &executor.Literal{}
			for i := range row {
				row[i] = null
			}
			for vi, e := range astRow {
				bound, err := bindExpr(e, nil)
				if err != nil {
					return nil, err
				}
				row[targets[vi]] = bound
			}
			rows = append(rows, row)
		}
		child = executor.NewValues(rows)
	}

	return &executor.Plan{
		Root:    executor.NewInsert(p.store, table, child),
		Version: p.catalog.Version(),
	}, nil
}

// columnTargets maps each position of the insert source to a column index of
// the table. With no explicit column list the source is in declaration
// order.
func (p *insertPlanner) columnTargets(table *catalog.Table) ([]int, error) {
	if len(p.stmt.ColNames) == 0 {
		targets := make([]int, len(table.Columns))
		for i := range targets {
			targets[i] = i
		}
		return targets, nil
	}
	seen := map[string]bool{}
	targets := make([]int, 0, len(p.stmt.ColNames))
	for _, name := range p.stmt.ColNames {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", errDuplicateCol, name)
		}
		seen[name] = true
		idx := table.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", errUnknownColumn, name)
		}
		targets = append(targets, idx)
	}
	return targets, nil
}

// reorder wraps a select source in a projection mapping its columns to the
// table's declaration order, with null for unmentioned columns.
func (p *insertPlanner) reorder(table *catalog.Table, targets []int, child executor.Operator) executor.Operator {
	identity := len(targets) == len(table.Columns)
	for i, t := range targets {
		if t != i {
			identity = false
		}
	}
	if identity {
		return child
	}
	exprs := make([]executor.Expr, len(table.Columns))
	null := &executor.Literal{}
	for i := range exprs {
		exprs[i] = null
	}
	for srcIdx, colIdx := range targets {
		exprs[colIdx] = &executor.Column{Index: srcIdx, Name: table.Columns[colIdx].Name}
	}
	return executor.NewProject(child, exprs)
}
