package builder

import (
	"fmt"
	"strings"
)

type statement int

const (
	stmtSelect statement = iota + 1
	stmtInsert
	stmtDelete
)

// SQLBuilder helps construct PostgreSQL queries dynamically. Conditions are
// written with "?" markers and rendered as $1, $2, ... in argument order.
type SQLBuilder struct {
	stmt       statement
	table      string
	columns    []string
	values     []interface{}
	where      []string
	whereArgs  []interface{}
	orderBy    []string
	onConflict string
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.stmt = stmtSelect
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.stmt = stmtInsert
	b.table = table
	b.columns = cols
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.stmt = stmtDelete
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Values specifies the values for insertion.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.values = vals
	return b
}

// OnConflict appends an ON CONFLICT clause to an INSERT, e.g. "(id) DO NOTHING".
func (b *SQLBuilder) OnConflict(clause string) *SQLBuilder {
	b.onConflict = clause
	return b
}

// Where adds a condition joined to the others with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	next := 1

	switch b.stmt {
	case stmtSelect:
		fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(b.columns, ", "), b.table)
	case stmtInsert:
		placeholders := make([]string, len(b.values))
		for i := range b.values {
			placeholders[i] = fmt.Sprintf("$%d", next)
			next++
		}
		fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES (%s)",
			b.table, strings.Join(b.columns, ", "), strings.Join(placeholders, ", "))
		args = append(args, b.values...)
		if b.onConflict != "" {
			sb.WriteString(" ON CONFLICT ")
			sb.WriteString(b.onConflict)
		}
		return sb.String(), args
	case stmtDelete:
		fmt.Fprintf(&sb, "DELETE FROM %s", b.table)
	}

	if len(b.where) > 0 {
		clause := numberPlaceholders(strings.Join(b.where, " AND "), next)
		sb.WriteString(" WHERE ")
		sb.WriteString(clause)
		args = append(args, b.whereArgs...)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	return sb.String(), args
}

// BuildSafe is Build plus a check that every placeholder has an argument.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	query, args := b.Build()
	want := strings.Count(strings.Join(b.where, ""), "?")
	if b.stmt == stmtInsert {
		want = len(b.values)
	}
	if want != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", want, len(args))
	}
	return query, args, nil
}

// numberPlaceholders replaces each "?" in clause with $n starting at from.
func numberPlaceholders(clause string, from int) string {
	var sb strings.Builder
	n := from
	for _, r := range clause {
		if r == '?' {
			fmt.Fprintf(&sb, "$%d", n)
			n++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
