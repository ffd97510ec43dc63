package executor

import (
	"fmt"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/kv"
	"github.com/chirst/kdb/value"
)

// Scan emits every row of a table in ascending key order. For a table with a
// primary key this is the SQL order of the key. For a table without one it
// is insertion order since row ids assign monotonically.
type Scan struct {
	store kv.Store
	table *catalog.Table
	iter  kv.Iterator
}

func NewScan(store kv.Store, table *catalog.Table) *Scan {
	return &Scan{store: store, table: table}
}

func (s *Scan) Open() error {
	it, err := s.store.Scan(s.table.KeyPrefix())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStorage, err)
	}
	s.iter = it
	return nil
}

func (s *Scan) Next() ([]value.Value, bool, error) {
	if !s.iter.Next() {
		return nil, false, nil
	}
	row, err := kv.DecodeRow(s.iter.Value())
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrStorage, err)
	}
	if len(row) != len(s.table.Columns) {
		return nil, false, fmt.Errorf(
			"%w: row arity %d does not match schema arity %d",
			ErrStorage, len(row), len(s.table.Columns),
		)
	}
	return row, true, nil
}

func (s *Scan) Close() error {
	if s.iter != nil {
		s.iter.Close()
		s.iter = nil
	}
	return nil
}

func (s *Scan) Children() []Operator {
	return []Operator{}
}

func (s *Scan) String() string {
	return fmt.Sprintf("scan table %s", s.table.Name)
}
