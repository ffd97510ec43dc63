package planner

import (
	"errors"
	"reflect"
	"testing"

	"github.com/chirst/kdb/catalog"
	"github.com/chirst/kdb/compiler"
	"github.com/chirst/kdb/kv"
	"github.com/chirst/kdb/value"
)

type mockSelectCatalog struct {
	table *catalog.Table
}

func (m *mockSelectCatalog) Table(name string) (*catalog.Table, error) {
	if m.table == nil || m.table.Name != name {
		return nil, errTableNotExist
	}
	return m.table, nil
}

func (*mockSelectCatalog) Version() string {
	return "v"
}

func testTable() *catalog.Table {
	return &catalog.Table{
		ID:   2,
		Name: "t",
		Columns: []catalog.Column{
			{Name: "v1", Type: value.Int, PrimaryKey: true},
			{Name: "v2", Type: value.Int},
			{Name: "v3", Type: value.Text},
		},
	}
}

func parseSelect(t *testing.T, sql string) *compiler.SelectStmt {
	stmt, err := compiler.NewParser(compiler.NewLexer(sql).Lex()).Parse()
	if err != nil {
		t.Fatalf("err parsing %s: %s", sql, err)
	}
	sel, ok := stmt.(*compiler.SelectStmt)
	if !ok {
		t.Fatalf("expected select statement for %s", sql)
	}
	return sel
}

func TestSelectStarPlan(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	plan, err := NewSelect(mc, kv.NewMemStore(), parseSelect(t, "SELECT * FROM t")).Plan()
	if err != nil {
		t.Fatalf("expected no err got err %s", err)
	}
	expectedHeader := []string{"v1", "v2", "v3"}
	if !reflect.DeepEqual(plan.Header, expectedHeader) {
		t.Errorf("got header %#v want %#v", plan.Header, expectedHeader)
	}
	expectedPlan := " ── project (v1, v2, v3)\n" +
		"     └─ scan table t"
	if got := FormatPlan(plan.Root); got != expectedPlan {
		t.Errorf("got plan\n%s\nwant\n%s", got, expectedPlan)
	}
}

func TestSelectStarExpandsInline(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	plan, err := NewSelect(mc, kv.NewMemStore(), parseSelect(t, "SELECT *, v1 FROM t")).Plan()
	if err != nil {
		t.Fatalf("expected no err got err %s", err)
	}
	expectedHeader := []string{"v1", "v2", "v3", "v1"}
	if !reflect.DeepEqual(plan.Header, expectedHeader) {
		t.Errorf("got header %#v want %#v", plan.Header, expectedHeader)
	}
}

func TestSelectFilterAndSortPlan(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	sql := "SELECT v2, v1 FROM t WHERE v3 = 'baz' ORDER BY 2, v2"
	plan, err := NewSelect(mc, kv.NewMemStore(), parseSelect(t, sql)).Plan()
	if err != nil {
		t.Fatalf("expected no err got err %s", err)
	}
	expectedPlan := " ── sort by (v1, v2)\n" +
		"     └─ project (v2, v1)\n" +
		"         └─ filter (v3 = 'baz')\n" +
		"             └─ scan table t"
	if got := FormatPlan(plan.Root); got != expectedPlan {
		t.Errorf("got plan\n%s\nwant\n%s", got, expectedPlan)
	}
}

func TestSelectWithNoFrom(t *testing.T) {
	mc := &mockSelectCatalog{}
	plan, err := NewSelect(mc, kv.NewMemStore(), parseSelect(t, "SELECT 2 + 2")).Plan()
	if err != nil {
		t.Fatalf("expected no err got err %s", err)
	}
	if len(plan.Header) != 1 || plan.Header[0] != "" {
		t.Errorf("expected single anonymous header got %#v", plan.Header)
	}
	expectedPlan := " ── project ((2 + 2))\n" +
		"     └─ values (1 rows)"
	if got := FormatPlan(plan.Root); got != expectedPlan {
		t.Errorf("got plan\n%s\nwant\n%s", got, expectedPlan)
	}
}

func TestSelectUnknownColumn(t *testing.T) {
	mc := &mockSelectCatalog{table: testTable()}
	_, err := NewSelect(mc, kv.NewMemStore(), parseSelect(t, "SELECT nope FROM t")).Plan()
	if !errors.Is(err, errUnknownColumn) {
		t.Errorf("expected unknown column err got %s", err)
	}
}

func TestSelectInvalidOrdinals(t *testing.T) {
	for _, sql := range []string{
		"SELECT * FROM t ORDER BY 0",
		"SELECT * FROM t ORDER BY -1",
		"SELECT * FROM t ORDER BY 4",
	} {
		mc := &mockSelectCatalog{table: testTable()}
		_, err := NewSelect(mc, kv.NewMemStore(), parseSelect(t, sql)).Plan()
		if !errors.Is(err, errInvalidOrdinal) {
			t.Errorf("expected invalid ordinal err for %s got %s", sql, err)
		}
	}
}

func TestSelectStarWithoutTable(t *testing.T) {
	mc := &mockSelectCatalog{}
	_, err := NewSelect(mc, kv.NewMemStore(), parseSelect(t, "SELECT *")).Plan()
	if !errors.Is(err, errNoSourceTable) {
		t.Errorf("expected no source table err got %s", err)
	}
}
