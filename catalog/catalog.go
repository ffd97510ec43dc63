// catalog holds the database schema: which tables exist, their columns, and
// the key prefix each table owns. The catalog is the single source of truth
// for column order. It keeps an in memory copy of the schema and persists
// every entry under a reserved key prefix no table can collide with.
package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/chirst/kdb/kv"
	"github.com/chirst/kdb/value"
)

var (
	ErrTableExists   = errors.New("table exists")
	ErrTableNotExist = errors.New("table does not exist")
)

// reservedID is the table id owning catalog entries. Table ids start above
// it so no table prefix collides with the catalog's.
const reservedID = 0

// Column describes one column of a table.
type Column struct {
	Name       string
	Type       value.Type
	PrimaryKey bool
}

// Table describes a named table. Columns are in declaration order, which is
// also the order * expands in.
type Table struct {
	// ID is the stable table id. The table's rows live under KeyPrefix.
	ID      uint64
	Name    string
	Columns []Column
}

// KeyPrefix returns the slice of the key space owned by this table.
func (t *Table) KeyPrefix() []byte {
	return kv.TablePrefix(t.ID)
}

// PrimaryKeyIndex returns the index of the primary key column, or -1 when
// the table has none.
func (t *Table) PrimaryKeyIndex() int {
	for i, c := range t.Columns {
		if c.PrimaryKey {
			return i
		}
	}
	return -1
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Catalog is process wide schema state with an explicit lifecycle. Open it
// once at startup and thread it through the planner and executor.
type Catalog struct {
	store   kv.Store
	tables  map[string]*Table
	nextID  uint64
	version string
}

// Open loads every schema entry from the store's reserved prefix.
func Open(store kv.Store) (*Catalog, error) {
	c := &Catalog{
		store:  store,
		tables: map[string]*Table{},
		nextID: reservedID + 1,
	}
	it, err := store.Scan(kv.TablePrefix(reservedID))
	if err != nil {
		return nil, err
	}
	defer it.Close()
	prefix := kv.TablePrefix(reservedID)
	for it.Next() {
		name := string(it.Key()[len(prefix):])
		t, err := decodeTable(name, it.Value())
		if err != nil {
			return nil, err
		}
		c.tables[t.Name] = t
		if t.ID >= c.nextID {
			c.nextID = t.ID + 1
		}
	}
	c.version = uuid.NewString()
	return c, nil
}

// Version returns an identifier regenerated on every schema change. Callers
// holding plans compiled against an older version must recompile.
func (c *Catalog) Version() string {
	return c.version
}

// CreateTable allocates a fresh table id, persists the schema entry, and
// registers the table.
func (c *Catalog) CreateTable(name string, columns []Column) (*Table, error) {
	if _, ok := c.tables[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrTableExists, name)
	}
	pks := 0
	for _, col := range columns {
		if col.PrimaryKey {
			pks += 1
		}
	}
	if pks > 1 {
		return nil, errors.New("more than one primary key specified")
	}
	t := &Table{
		ID:      c.nextID,
		Name:    name,
		Columns: columns,
	}
	if err := c.store.Put(entryKey(name), encodeTable(t)); err != nil {
		return nil, err
	}
	c.nextID += 1
	c.tables[name] = t
	c.version = uuid.NewString()
	return t, nil
}

// DropTable removes every row under the table's prefix and then the schema
// entry. Rows go first so a half finished drop is never observed as an
// intact table.
func (c *Catalog) DropTable(name string) error {
	t, ok := c.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotExist, name)
	}
	if err := c.store.DeletePrefix(t.KeyPrefix()); err != nil {
		return err
	}
	if err := c.store.Delete(entryKey(name)); err != nil {
		return err
	}
	delete(c.tables, name)
	c.version = uuid.NewString()
	return nil
}

// Table returns the schema for name.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotExist, name)
	}
	return t, nil
}

// TableExists reports whether name is taken.
func (c *Catalog) TableExists(name string) bool {
	_, ok := c.tables[name]
	return ok
}

// List returns every table. Used by diagnostics.
func (c *Catalog) List() []*Table {
	ret := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		ret = append(ret, t)
	}
	return ret
}

// entryKey is the catalog key for a table name.
func entryKey(name string) []byte {
	return append(kv.TablePrefix(reservedID), name...)
}

// encodeTable flattens a schema entry into a value tuple encoded by the row
// codec: the table id followed by a (name, type, primaryKey) triple per
// column.
func encodeTable(t *Table) []byte {
	row := []value.Value{value.NewInt(int64(t.ID))}
	for _, col := range t.Columns {
		row = append(row,
			value.NewText(col.Name),
			value.NewInt(int64(col.Type)),
			value.NewBool(col.PrimaryKey),
		)
	}
	return kv.EncodeRow(row)
}

func decodeTable(name string, buf []byte) (*Table, error) {
	row, err := kv.DecodeRow(buf)
	if err != nil {
		return nil, err
	}
	if len(row) < 1 || (len(row)-1)%3 != 0 {
		return nil, errors.New("malformed catalog entry")
	}
	t := &Table{ID: uint64(row[0].Int), Name: name}
	for i := 1; i < len(row); i += 3 {
		t.Columns = append(t.Columns, Column{
			Name:       row[i].Text,
			Type:       value.Type(row[i+1].Int),
			PrimaryKey: row[i+2].Bool,
		})
	}
	return t, nil
}
