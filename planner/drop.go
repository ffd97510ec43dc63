package planner

import (
	"fmt"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/executor"
)

type dropPlanner struct {
	catalog *catalog.Catalog
	stmt    *compiler.DropStmt
}

func NewDrop(catalog *catalog.Catalog, stmt *compiler.DropStmt) *dropPlanner {
	return &dropPlanner{
		catalog: catalog,
		stmt:    stmt,
	}
}

func (p *dropPlanner) Plan() (*executor.Plan, error) {
	if !p.catalog.TableExists(p.stmt.TableName) {
		return nil, fmt.Errorf("%w: %s", errTableNotExist, p.stmt.TableName)
	}
	return &executor.Plan{
		Root:    executor.NewDropTable(p.catalog, p.stmt.TableName),
		Version: p.catalog.Version(),
	}, nil
}
