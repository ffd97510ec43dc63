package planner

import (
	"fmt"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/executor"
	"github.com/chirst/kdb/kv"
)

// selectCatalog defines the catalog methods needed by the select planner.
type selectCatalog interface {
	Table(name string) (*catalog.Table, error)
	Version() string
}

// selectPlanner converts a select AST to a physical operator tree. Along the
// way it validates the AST makes sense with the catalog (a process known as
// binding).
type selectPlanner struct {
	catalog selectCatalog
	store   kv.Store
	stmt    *compiler.SelectStmt
}

// NewSelect returns an instance of a select planner for the given AST.
func NewSelect(catalog selectCatalog, store kv.Store, stmt *compiler.SelectStmt) *selectPlanner {
	return &selectPlanner{
		catalog: catalog,
		store:   store,
		stmt:    stmt,
	}
}

// Plan builds Sort(Project(Filter(Scan))) with each layer only present when
// the statement asks for it. A select with no FROM projects over a single
// empty tuple.
func (p *selectPlanner) Plan() (*executor.Plan, error) {
	var child executor.Operator
	var scope []scopeColumn
	var table *catalog.Table
	if p.stmt.From != nil {
		t, err := p.catalog.Table(p.stmt.From.TableName)
		if err != nil {
			return nil, err
		}
		table = t
		child = executor.NewScan(p.store, t)
		for i, c := range t.Columns {
			scope = append(scope, scopeColumn{name: c.Name, index: i})
		}
	} else {
		child = executor.NewEmptyRow()
	}

	if p.stmt.Where != nil {
		predicate, err := bindExpr(p.stmt.Where, scope)
		if err != nil {
			return nil, err
		}
		child = executor.NewFilter(child, predicate)
	}

	projections, header, err := p.getProjections(table, scope)
	if err != nil {
		return nil, err
	}
	child = executor.NewProject(child, projections)

	if len(p.stmt.OrderBy) > 0 {
		keys, err := p.getSortKeys(header)
		if err != nil {
			return nil, err
		}
		child = executor.NewSort(child, keys)
	}

	return &executor.Plan{
		Header:  header,
		Root:    child,
		Version: p.catalog.Version(),
	}, nil
}

// getProjections expands the select list. * expands inline at its position
// to the table's columns in declared order. The output schema's arity is the
// number of items after expansion.
func (p *selectPlanner) getProjections(table *catalog.Table, scope []scopeColumn) ([]executor.Expr, []string, error) {
	var exprs []executor.Expr
	var header []string
	for _, rc := range p.stmt.ResultColumns {
		if rc.All {
			if table == nil {
				return nil, nil, errNoSourceTable
			}
			for i, c := range table.Columns {
				exprs = append(exprs, &executor.Column{Index: i, Name: c.Name})
				header = append(header, c.Name)
			}
			continue
		}
		bound, err := bindExpr(rc.Expression, scope)
		if err != nil {
			return nil, nil, err
		}
		exprs = append(exprs, bound)
		header = append(header, outputName(rc))
	}
	return exprs, header, nil
}

// outputName is the column name a select item gets in the result. An alias
// wins, a bare column reference keeps its name, and any other expression is
// anonymous.
func outputName(rc compiler.ResultColumn) string {
	if rc.Alias != "" {
		return rc.Alias
	}
	if cr, ok := rc.Expression.(*compiler.ColumnRef); ok {
		return cr.Column
	}
	return ""
}

// getSortKeys binds order by terms against the output schema. An integer
// term is a 1 based position in the select list and must be in range.
func (p *selectPlanner) getSortKeys(header []string) ([]executor.Expr, error) {
	outScope := make([]scopeColumn, 0, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		outScope = append(outScope, scopeColumn{name: name, index: i})
	}
	var keys []executor.Expr
	for _, ob := range p.stmt.OrderBy {
		if n, ok := ordinalOf(ob.Expression); ok {
			if n < 1 || n > int64(len(header)) {
				return nil, fmt.Errorf(
					"%w: %d is not between 1 and %d",
					errInvalidOrdinal, n, len(header),
				)
			}
			keys = append(keys, &executor.Column{Index: int(n - 1), Name: header[n-1]})
			continue
		}
		bound, err := bindExpr(ob.Expression, outScope)
		if err != nil {
			return nil, err
		}
		keys = append(keys, bound)
	}
	return keys, nil
}
