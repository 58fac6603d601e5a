package persistence

import (
	"fmt"
	"strings"

	"github.com/dfryer1193/teamdojo/dojo/domain"
)

// whereBuilder accumulates conjoined SQL predicates and their bind arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) long(column string, f domain.LongFilter) {
	if f.Equals != nil {
		w.add(column+" = ?", *f.Equals)
	}
	if f.NotEquals != nil {
		w.add(column+" <> ?", *f.NotEquals)
	}
	if f.In != nil {
		args := make([]any, len(f.In))
		for i, v := range f.In {
			args[i] = v
		}
		w.in(column, args)
	}
	if f.GreaterThan != nil {
		w.add(column+" > ?", *f.GreaterThan)
	}
	if f.LessThan != nil {
		w.add(column+" < ?", *f.LessThan)
	}
	if f.GreaterThanOrEqual != nil {
		w.add(column+" >= ?", *f.GreaterThanOrEqual)
	}
	if f.LessThanOrEqual != nil {
		w.add(column+" <= ?", *f.LessThanOrEqual)
	}
	w.specified(column, f.Specified)
}

func (w *whereBuilder) text(column string, f domain.StringFilter) {
	if f.Equals != nil {
		w.add(column+" = ?", *f.Equals)
	}
	if f.NotEquals != nil {
		w.add(column+" <> ?", *f.NotEquals)
	}
	if f.Contains != nil {
		w.add(column+` LIKE ? ESCAPE '\'`, "%"+escapeLike(*f.Contains)+"%")
	}
	if f.In != nil {
		args := make([]any, len(f.In))
		for i, v := range f.In {
			args[i] = v
		}
		w.in(column, args)
	}
	w.specified(column, f.Specified)
}

// in matches nothing for an empty list.
func (w *whereBuilder) in(column string, args []any) {
	if len(args) == 0 {
		w.add("1 = 0")
		return
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	w.add(fmt.Sprintf("%s IN (%s)", column, placeholders), args...)
}

func (w *whereBuilder) specified(column string, specified *bool) {
	if specified == nil {
		return
	}
	if *specified {
		w.add(column + " IS NOT NULL")
	} else {
		w.add(column + " IS NULL")
	}
}

// sql renders the WHERE clause, or an empty string when nothing constrains the result.
func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// orderBy renders an ORDER BY clause for the given sort orders. Properties are mapped
// through columns; the primary key is always appended as a tie breaker so paging is stable.
func orderBy(orders []domain.Order, columns map[string]string) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		column, ok := columns[o.Property]
		if !ok {
			return "", fmt.Errorf("unsupported sort property %q", o.Property)
		}
		dir := domain.Asc
		if o.Direction == domain.Desc {
			dir = domain.Desc
		}
		if column == "id" {
			hasID = true
		}
		parts = append(parts, fmt.Sprintf("%s %s", column, dir))
	}
	if !hasID {
		parts = append(parts, "id ASC")
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}
