package planner

import (
	"fmt"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/executor"
	"github.com/chirst/kdb/value"
)

// createPlanner takes the concrete catalog rather than a narrow interface
// since its node executes DDL against the catalog itself.
type createPlanner struct {
	catalog *catalog.Catalog
	stmt    *compiler.CreateStmt
}

func NewCreate(catalog *catalog.Catalog, stmt *compiler.CreateStmt) *createPlanner {
	return &createPlanner{
		catalog: catalog,
		stmt:    stmt,
	}
}

func (p *createPlanner) Plan() (*executor.Plan, error) {
	if p.catalog.TableExists(p.stmt.TableName) {
		return nil, fmt.Errorf("%w: %s", errTableExists, p.stmt.TableName)
	}
	columns := make([]catalog.Column, 0, len(p.stmt.ColDefs))
	pks := 0
	for _, cd := range p.stmt.ColDefs {
		t, err := columnType(cd.ColType)
		if err != nil {
			return nil, err
		}
		if cd.PrimaryKey {
			pks += 1
		}
		columns = append(columns, catalog.Column{
			Name:       cd.ColName,
			Type:       t,
			PrimaryKey: cd.PrimaryKey,
		})
	}
	if pks > 1 {
		return nil, errMoreThanOnePK
	}
	return &executor.Plan{
		Root:    executor.NewCreateTable(p.catalog, p.stmt.TableName, columns),
		Version: p.catalog.Version(),
	}, nil
}

func columnType(keyword string) (value.Type, error) {
	switch keyword {
	case "INT", "INTEGER":
		return value.Int, nil
	case "TEXT":
		return value.Text, nil
	case "BOOL", "BOOLEAN":
		return value.Bool, nil
	}
	return value.Null, fmt.Errorf("no type for %s", keyword)
}
