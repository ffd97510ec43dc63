package executor

import (
	"fmt"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/value"
)

// CreateTable is a leaf node executing a create against the catalog.
type CreateTable struct {
	catalog *catalog.Catalog
	name    string
	columns []catalog.Column
	done    bool
}

func NewCreateTable(c *catalog.Catalog, name string, columns []catalog.Column) *CreateTable {
	return &CreateTable{catalog: c, name: name, columns: columns}
}

func (c *CreateTable) Open() error {
	c.done = false
	return nil
}

func (c *CreateTable) Next() ([]value.Value, bool, error) {
	if c.done {
		return nil, false, nil
	}
	c.done = true
	_, err := c.catalog.CreateTable(c.name, c.columns)
	return nil, false, err
}

func (c *CreateTable) Close() error {
	return nil
}

func (c *CreateTable) Count() int {
	return 0
}

func (c *CreateTable) Children() []Operator {
	return []Operator{}
}

func (c *CreateTable) String() string {
	return fmt.Sprintf("create table %s", c.name)
}

// DropTable is a leaf node executing a drop against the catalog.
type DropTable struct {
	catalog *catalog.Catalog
	name    string
	done    bool
}

func NewDropTable(c *catalog.Catalog, name string) *DropTable {
	return &DropTable{catalog: c, name: name}
}

func (d *DropTable) Open() error {
	d.done = false
	return nil
}

func (d *DropTable) Next() ([]value.Value, bool, error) {
	if d.done {
		return nil, false, nil
	}
	d.done = true
	return nil, false, d.catalog.DropTable(d.name)
}

func (d *DropTable) Close() error {
	return nil
}

func (d *DropTable) Count() int {
	return 0
}

func (d *DropTable) Children() []Operator {
	return []Operator{}
}

func (d *DropTable) String() string {
	return fmt.Sprintf("drop table %s", d.name)
}
