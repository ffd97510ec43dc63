package executor

import "errors"

var (
	// ErrPrimaryKeyConflict is an insert duplicating an existing primary key.
	ErrPrimaryKeyConflict = errors.New("primary key conflict")
	// ErrArityMismatch is an inserted row whose arity differs from the table.
	ErrArityMismatch = errors.New("values list did not match columns list")
	// ErrTypeMismatch is an inserted value whose type does not fit its
	// column.
	ErrTypeMismatch = errors.New("value type does not match column type")
	// ErrStorage wraps any error surfaced by the kv store. Fatal to the
	// statement.
	ErrStorage = errors.New("storage error")
)
