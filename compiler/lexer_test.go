package compiler

import (
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	testCases := []struct {
		sql      string
		expected []token
	}{
		{
			sql: "SELECT * FROM foo",
			expected: []token{
				{tkKeyword, "SELECT"},
				{tkWhitespace, " "},
				{tkOperator, "*"},
				{tkWhitespace, " "},
				{tkKeyword, "FROM"},
				{tkWhitespace, " "},
				{tkIdentifier, "foo"},
			},
		},
		{
			sql: "select 2 <= 2 <> 1",
			expected: []token{
				{tkKeyword, "SELECT"},
				{tkWhitespace, " "},
				{tkNumeric, "2"},
				{tkWhitespace, " "},
				{tkOperator, "<="},
				{tkWhitespace, " "},
				{tkNumeric, "2"},
				{tkWhitespace, " "},
				{tkOperator, "<>"},
				{tkWhitespace, " "},
				{tkNumeric, "1"},
			},
		},
		{
			sql: "where V3='baz'",
			expected: []token{
				{tkKeyword, "WHERE"},
				{tkWhitespace, " "},
				{tkIdentifier, "v3"},
				{tkOperator, "="},
				{tkLiteral, "baz"},
			},
		},
		{
			sql: "select 'foo",
			expected: []token{
				{tkKeyword, "SELECT"},
				{tkWhitespace, " "},
				{tkError, "unterminated string literal"},
			},
		},
		{
			sql: "values (1, -4)",
			expected: []token{
				{tkKeyword, "VALUES"},
				{tkWhitespace, " "},
				{tkSeparator, "("},
				{tkNumeric, "1"},
				{tkSeparator, ","},
				{tkWhitespace, " "},
				{tkOperator, "-"},
				{tkNumeric, "4"},
				{tkSeparator, ")"},
			},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.sql, func(t *testing.T) {
			got := NewLexer(tC.sql).Lex()
			if !reflect.DeepEqual(got, tC.expected) {
				t.Errorf("got %#v want %#v", got, tC.expected)
			}
		})
	}
}
