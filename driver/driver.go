// Package driver enables kdb to be used with the go database/sql package.
package driver

// TODO there are several context methods that are not implemented.
// TODO transactions statements are not supported.

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"

	"github.com/chirst/kdb/db"
	"github.com/chirst/kdb/value"
)

func init() {
	d := new()
	sql.Register("kdb", d)
}

func new() *kdbDriver {
	return &kdbDriver{}
}

type kdbDriver struct{}

// Open implements driver.Driver. Name is the name of the database file. If
// the name is :memory: the database will not use a file and will not persist
// changes.
func (k *kdbDriver) Open(name string) (driver.Conn, error) {
	isMemory := name == ":memory:"
	d, err := db.New(isMemory, name)
	if err != nil {
		return nil, err
	}
	cn := &kdbConn{
		kdb: d,
	}
	return cn, nil
}

type kdbConn struct {
	kdb *db.DB
}

// Begin implements driver.Conn.
func (c *kdbConn) Begin() (driver.Tx, error) {
	panic("Transactions not implemented")
}

// Close implements driver.Conn.
func (c *kdbConn) Close() error {
	return c.kdb.Close()
}

// Prepare implements driver.Conn.
func (c *kdbConn) Prepare(query string) (driver.Stmt, error) {
	statements := c.kdb.Tokenize(query)
	if len(statements) != 1 {
		return nil, errors.New("driver supports only one statement at a time")
	}
	return &kdbStmt{
		kdb:       c.kdb,
		statement: statements[0],
	}, nil
}

type kdbStmt struct {
	kdb       *db.DB
	statement string
}

// Close implements driver.Stmt.
func (s *kdbStmt) Close() error {
	return nil
}

// NumInput implements driver.Stmt.
func (s *kdbStmt) NumInput() int {
	// Per driver.Stmt docs a -1 means the driver will skip a sanity check
	// for the number of arguments prepared vs passed to be executed.
	return -1
}

// Exec implements driver.Stmt.
func (s *kdbStmt) Exec(args []driver.Value) (driver.Result, error) {
	result := s.kdb.Execute(s.statement)
	if result.Err != nil {
		return nil, result.Err
	}
	return &kdbResult{affected: int64(result.Count)}, nil
}

// Query implements driver.Stmt.
func (s *kdbStmt) Query(args []driver.Value) (driver.Rows, error) {
	result := s.kdb.Execute(s.statement)
	if result.Err != nil {
		return nil, result.Err
	}
	return &kdbRows{
		cols: result.Header,
		rows: result.Rows,
	}, nil
}

type kdbResult struct {
	affected int64
}

// LastInsertId implements driver.Result.
func (r *kdbResult) LastInsertId() (int64, error) {
	return 0, nil
}

// RowsAffected implements driver.Result.
func (r *kdbResult) RowsAffected() (int64, error) {
	return r.affected, nil
}

type kdbRows struct {
	cols   []string
	rows   [][]value.Value
	rowIdx int
}

// Close implements driver.Rows.
func (r *kdbRows) Close() error {
	return nil
}

// Columns implements driver.Rows.
func (r *kdbRows) Columns() []string {
	return r.cols
}

// Next implements driver.Rows.
func (r *kdbRows) Next(dest []driver.Value) error {
	if r.rowIdx == len(r.rows) {
		return io.EOF
	}
	for i, v := range r.rows[r.rowIdx] {
		switch v.Type {
		case value.Null:
			dest[i] = nil
		case value.Int:
			dest[i] = v.Int
		case value.Bool:
			dest[i] = v.Bool
		case value.Text:
			dest[i] = v.Text
		}
	}
	r.rowIdx += 1
	return nil
}
