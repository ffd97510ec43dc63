// db serves as an interface for the database where raw SQL goes in and
// convenient data structures come out. db is intended to be consumed by
// things like a repl (read eval print loop), a program, or a transport
// protocol.
package db

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/executor"
	"github.com/chirst/kdb/kv"
	"github.com/chirst/kdb/planner"
)

type DB struct {
	store     kv.Store
	catalog   *catalog.Catalog
	log       *slog.Logger
	UseMemory bool
}

// New opens a database. With useMemory the database lives in memory and
// filename is ignored.
func New(useMemory bool, filename string) (*DB, error) {
	store, err := kv.Open(useMemory, filename)
	if err != nil {
		return nil, err
	}
	c, err := catalog.Open(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &DB{
		store:     store,
		catalog:   c,
		log:       slog.Default(),
		UseMemory: useMemory,
	}, nil
}

// Close releases the underlying store.
func (db *DB) Close() error {
	return db.store.Close()
}

// Tables returns the names of every table, sorted. Used by the repl's
// .tables command.
func (db *DB) Tables() []string {
	var names []string
	for _, t := range db.catalog.List() {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a single SQL statement to completion and returns its result.
func (db *DB) Execute(sql string) executor.Result {
	start := time.Now()
	tokens := compiler.NewLexer(sql).Lex()
	statement, err := compiler.NewParser(tokens).Parse()
	if err != nil {
		return executor.Result{Err: err}
	}
	plan, err := db.getPlanFor(statement)
	if err != nil {
		return executor.Result{Err: err}
	}
	if isExplain(statement) {
		return executor.Result{
			Text:     planner.FormatPlan(plan.Root),
			Duration: time.Since(start),
		}
	}
	result := executor.Run(plan)
	db.log.Debug("execute",
		"sql", strings.TrimSpace(sql),
		"rows", len(result.Rows),
		"duration", result.Duration,
	)
	return *result
}

func (db *DB) getPlanFor(statement compiler.Stmt) (*executor.Plan, error) {
	switch s := statement.(type) {
	case *compiler.SelectStmt:
		return planner.NewSelect(db.catalog, db.store, s).Plan()
	case *compiler.CreateStmt:
		return planner.NewCreate(db.catalog, s).Plan()
	case *compiler.DropStmt:
		return planner.NewDrop(db.catalog, s).Plan()
	case *compiler.InsertStmt:
		return planner.NewInsert(db.catalog, db.store, s).Plan()
	}
	return nil, fmt.Errorf("statement not supported")
}

func isExplain(statement compiler.Stmt) bool {
	switch s := statement.(type) {
	case *compiler.SelectStmt:
		return s.Explain
	case *compiler.CreateStmt:
		return s.Explain
	case *compiler.DropStmt:
		return s.Explain
	case *compiler.InsertStmt:
		return s.Explain
	}
	return false
}

// Tokenize splits input into statements on semicolons outside of string
// literals. Empty statements are dropped.
func (db *DB) Tokenize(input string) []string {
	var statements []string
	var sb strings.Builder
	inString := false
	for _, r := range input {
		switch {
		case r == '\'':
			inString = !inString
			sb.WriteRune(r)
		case r == ';' && !inString:
			statements = append(statements, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		statements = append(statements, s)
	}
	kept := statements[:0]
	for _, s := range statements {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	return kept
}

// IsTerminated reports whether input ends with a statement terminator so a
// repl knows to stop accumulating lines.
func (db *DB) IsTerminated(input string) bool {
	inString := false
	last := rune(0)
	for _, r := range input {
		if r == '\'' {
			inString = !inString
		}
		if !strings.ContainsRune(" \t\n", r) {
			last = r
		}
	}
	return !inString && last == ';'
}
