package executor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chirst/kdb/value"
)

// Sort fully materializes its child, then emits rows ordered by the sort
// keys left to right under the total value order. The sort is stable so ties
// keep their input order. Keys evaluate once per row. Memory is bounded by
// the whole result set.
type Sort struct {
	child  Operator
	keys   []Expr
	sorted []sortRow
	pos    int
}

type sortRow struct {
	key []value.Value
	row []value.Value
}

func NewSort(child Operator, keys []Expr) *Sort {
	return &Sort{child: child, keys: keys}
}

func (s *Sort) Open() error {
	if err := s.child.Open(); err != nil {
		return err
	}
	for {
		row, ok, err := s.child.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		key := make([]value.Value, len(s.keys))
		for i, e := range s.keys {
			v, err := Eval(e, row)
			if err != nil {
				return err
			}
			key[i] = v
		}
		s.sorted = append(s.sorted, sortRow{key: key, row: row})
	}
	sort.SliceStable(s.sorted, func(i, j int) bool {
		return value.OrderRows(s.sorted[i].key, s.sorted[j].key) < 0
	})
	s.pos = 0
	return nil
}

func (s *Sort) Next() ([]value.Value, bool, error) {
	if s.pos >= len(s.sorted) {
		return nil, false, nil
	}
	row := s.sorted[s.pos].row
	s.pos += 1
	return row, true, nil
}

func (s *Sort) Close() error {
	s.sorted = nil
	return s.child.Close()
}

func (s *Sort) Children() []Operator {
	return []Operator{s.child}
}

func (s *Sort) String() string {
	list := make([]string, len(s.keys))
	for i, e := range s.keys {
		list[i] = e.String()
	}
	return fmt.Sprintf("sort by (%s)", strings.Join(list, ", "))
}
