package executor

import (
	"fmt"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/kv"
	"github.com/chirst/kdb/value"
)

// Insert consumes its child stream and writes every row to the table. It
// produces no output rows, only a count. The intended writes buffer in a
// write batch that commits only after every row passes its checks, so a
// statement either persists all of its rows or none of them.
type Insert struct {
	store kv.Store
	table *catalog.Table
	child Operator
	count int
	done  bool
}

func NewInsert(store kv.Store, table *catalog.Table, child Operator) *Insert {
	return &Insert{store: store, table: table, child: child}
}

func (in *Insert) Open() error {
	in.count = 0
	in.done = false
	return in.child.Open()
}

func (in *Insert) Next() ([]value.Value, bool, error) {
	if in.done {
		return nil, false, nil
	}
	in.done = true
	if err := in.run(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (in *Insert) run() error {
	pkIndex := in.table.PrimaryKeyIndex()
	prefix := in.table.KeyPrefix()
	rowID, err := in.nextRowID()
	if err != nil {
		return err
	}
	batch := in.store.Batch()
	// seen guards against two rows of the same statement carrying the same
	// primary key. The store cannot catch that since the batch is not
	// visible to reads until it commits.
	seen := map[string]bool{}
	n := 0
	for {
		row, ok, err := in.child.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := in.checkRow(row); err != nil {
			return err
		}
		var key []byte
		if pkIndex >= 0 {
			key, err = kv.EncodeKey(prefix, row[pkIndex])
			if err != nil {
				return err
			}
			if seen[string(key)] {
				return fmt.Errorf("%w on %s", ErrPrimaryKeyConflict, row[pkIndex])
			}
			_, exists, err := in.store.Get(key)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrStorage, err)
			}
			if exists {
				return fmt.Errorf("%w on %s", ErrPrimaryKeyConflict, row[pkIndex])
			}
			seen[string(key)] = true
		} else {
			key = kv.EncodeRowID(prefix, rowID)
			rowID += 1
		}
		batch.Put(key, kv.EncodeRow(row))
		n += 1
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("%w: %s", ErrStorage, err)
	}
	in.count = n
	return nil
}

// checkRow enforces the schema arity and column types. Null fits any column.
func (in *Insert) checkRow(row []value.Value) error {
	if len(row) != len(in.table.Columns) {
		return fmt.Errorf(
			"%w: expected %d values but got %d",
			ErrArityMismatch, len(in.table.Columns), len(row),
		)
	}
	for i, v := range row {
		if v.IsNull() {
			continue
		}
		col := in.table.Columns[i]
		if v.Type != col.Type {
			return fmt.Errorf(
				"%w: column %s is %s but value %s is %s",
				ErrTypeMismatch, col.Name, col.Type, v, v.Type,
			)
		}
	}
	return nil
}

// nextRowID finds the next row id for a table without a primary key by
// reading the table's highest key. Ids only grow so scan order stays
// insertion order.
func (in *Insert) nextRowID() (uint64, error) {
	if in.table.PrimaryKeyIndex() >= 0 {
		return 0, nil
	}
	prefix := in.table.KeyPrefix()
	it, err := in.store.Scan(prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrStorage, err)
	}
	defer it.Close()
	var last []byte
	for it.Next() {
		last = it.Key()
	}
	if last == nil {
		return 1, nil
	}
	id, err := kv.DecodeRowID(prefix, last)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrStorage, err)
	}
	return id + 1, nil
}

func (in *Insert) Close() error {
	return in.child.Close()
}

// Count returns the number of rows the insert wrote.
func (in *Insert) Count() int {
	return in.count
}

func (in *Insert) Children() []Operator {
	return []Operator{in.child}
}

func (in *Insert) String() string {
	return fmt.Sprintf("insert into table %s", in.table.Name)
}
