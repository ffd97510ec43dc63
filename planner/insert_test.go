package planner

import (
	"errors"
	"testing"

	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/kv"
)

func parseInsert(t *testing.T, sql string) *compiler.InsertStmt {
	stmt, err := compiler.NewParser(compiler.NewLexer(sql).Lex()).Parse()
	if err != nil {
		t.Fatalf("err parsing %s: %s", sql, err)
	}
	ins, ok := stmt.(*compiler.InsertStmt)
	if !ok {
		t.Fatalf("expected insert statement for %s", sql)
	}
	return ins
}

func TestInsertValuesPlan(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	sql := "INSERT INTO t VALUES (1, 4, 'foo'), (2, 3, 'bar')"
	plan, err := NewInsert(mc, kv.NewMemStore(), parseInsert(t, sql)).Plan()
	if err != nil {
		t.Fatalf("expected no err got err %s", err)
	}
	expectedPlan := " ── insert into table t\n" +
		"     └─ values (2 rows)"
	if got := FormatPlan(plan.Root); got != expectedPlan {
		t.Errorf("got plan\n%s\nwant\n%s", got, expectedPlan)
	}
}

func TestInsertSelectPlan(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	sql := "INSERT INTO t SELECT * FROM t"
	plan, err := NewInsert(mc, kv.NewMemStore(), parseInsert(t, sql)).Plan()
	if err != nil {
		t.Fatalf("expected no err got err %s", err)
	}
	expectedPlan := " ── insert into table t\n" +
		"     └─ project (v1, v2, v3)\n" +
		"         └─ scan table t"
	if got := FormatPlan(plan.Root); got != expectedPlan {
		t.Errorf("got plan\n%s\nwant\n%s", got, expectedPlan)
	}
}

func TestInsertColumnListReorders(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	sql := "INSERT INTO t (v3, v1) VALUES ('kek', 42)"
	plan, err := NewInsert(mc, kv.NewMemStore(), parseInsert(t, sql)).Plan()
	if err != nil {
		t.Fatalf("expected no err got err %s", err)
	}
	// the values node already carries full width rows in declaration order
	expectedPlan := " ── insert into table t\n" +
		"     └─ values (1 rows)"
	if got := FormatPlan(plan.Root); got != expectedPlan {
		t.Errorf("got plan\n%s\nwant\n%s", got, expectedPlan)
	}
}

func TestInsertArityMismatch(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	sql := "INSERT INTO t VALUES (1, 2)"
	_, err := NewInsert(mc, kv.NewMemStore(), parseInsert(t, sql)).Plan()
	if !errors.Is(err, errValuesNotMatch) {
		t.Errorf("expected arity err got %s", err)
	}
}

func TestInsertUnknownColumn(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	sql := "INSERT INTO t (nope) VALUES (1)"
	_, err := NewInsert(mc, kv.NewMemStore(), parseInsert(t, sql)).Plan()
	if !errors.Is(err, errUnknownColumn) {
		t.Errorf("expected unknown column err got %s", err)
	}
}

func TestInsertRejectsColumnRefsInValues(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	sql := "INSERT INTO t VALUES (v1, 2, 'x')"
	_, err := NewInsert(mc, kv.NewMemStore(), parseInsert(t, sql)).Plan()
	if !errors.Is(err, errUnknownColumn) {
		t.Errorf("expected unknown column err got %s", err)
	}
}
