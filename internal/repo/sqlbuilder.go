package repo

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"songly/internal/core/apperr"
)

// Assignment is one field of a partial update. A slice of them keeps the caller's order.
type Assignment struct {
	Field string
	Value any
}

// PartialUpdate builds the SET fragment of an UPDATE statement:
//
//	[{firstName, "Aliya"}, {age, 32}] → `"first_name"=$1, "age"=$2`, ["Aliya", 32]
//
// fieldToColumn renames fields whose column differs; other fields are used verbatim.
func PartialUpdate(data []Assignment, fieldToColumn map[string]string) (string, []any, error) {
	if len(data) == 0 {
		return "", nil, apperr.ErrNoData
	}
	cols := make([]string, 0, len(data))
	values := make([]any, 0, len(data))
	for i, a := range data {
		col := a.Field
		if mapped, ok := fieldToColumn[a.Field]; ok {
			col = mapped
		}
		cols = append(cols, fmt.Sprintf(`"%s"=$%d`, col, i+1))
		values = append(values, a.Value)
	}
	return strings.Join(cols, ", "), values, nil
}

// whereBuilder collects AND-ed conditions with placeholders numbered from $1.
type whereBuilder struct {
	parts  []string
	values []any
}

// like adds `col <op> $n` with the value wrapped for a substring match. Empty values are skipped.
func (w *whereBuilder) like(col, op, v string) {
	if v == "" {
		return
	}
	w.values = append(w.values, "%"+v+"%")
	w.parts = append(w.parts, fmt.Sprintf("%s %s $%d", col, op, len(w.values)))
}

// build returns "" and no values when nothing was added.
func (w *whereBuilder) build() (string, []any) {
	if len(w.parts) == 0 {
		return "", []any{}
	}
	return strings.Join(w.parts, " AND "), w.values
}

// whereSQL prefixes a non-empty fragment with the WHERE keyword.
func whereSQL(fragment string) string {
	if fragment == "" {
		return ""
	}
	return "WHERE " + fragment
}

// likeOperator picks the case-insensitive match for the connected dialect.
// sqlite has no ILIKE, and its LIKE already ignores ASCII case.
func likeOperator(db *gorm.DB) string {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return "ILIKE"
	}
	return "LIKE"
}

// nextParam is the placeholder that follows n bound values.
func nextParam(n int) string { return fmt.Sprintf("$%d", n+1) }
