package planner

import "errors"

var (
	errTableExists    = errors.New("table exists")
	errTableNotExist  = errors.New("table does not exist")
	errUnknownColumn  = errors.New("unknown column")
	errInvalidOrdinal = errors.New("ORDER BY ordinal out of range")
	errValuesNotMatch = errors.New("values list did not match columns list")
	errNoSourceTable  = errors.New("* requires a FROM table")
	errDuplicateCol   = errors.New("duplicate column in insert column list")
	errMoreThanOnePK  = errors.New("more than one primary key specified")
)
