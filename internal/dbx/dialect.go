package dbx

import (
	"strconv"
	"strings"
)

// PlaceholderFormat selects how bind parameters are spelled in SQL text.
type PlaceholderFormat int

const (
	// Question uses "?" placeholders (MySQL, SQLite).
	Question PlaceholderFormat = iota
	// Dollar uses "$1", "$2", ... placeholders (PostgreSQL).
	Dollar
)

// Rebind rewrites the "?" placeholders in query to the receiver's format.
// Question marks inside single-quoted literals are left alone.
func (f PlaceholderFormat) Rebind(query string) string {
	if f != Dollar {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Dialect carries what repositories need to know about the backing store.
type Dialect struct {
	// Name is the short driver name used in configuration ("mysql", "sqlite", "postgres").
	Name string
	// Goose is the dialect name understood by goose.SetDialect.
	Goose string
	// Placeholder is the bind parameter style.
	Placeholder PlaceholderFormat
	// Returning reports whether INSERT ... RETURNING is used to read generated keys
	// instead of sql.Result.LastInsertId.
	Returning bool
	// IsUniqueViolation reports whether err was caused by a unique constraint.
	IsUniqueViolation func(err error) bool
}

// Rebind is shorthand for d.Placeholder.Rebind.
func (d Dialect) Rebind(query string) string {
	return d.Placeholder.Rebind(query)
}

// UniqueViolation is a nil-safe wrapper around IsUniqueViolation.
func (d Dialect) UniqueViolation(err error) bool {
	if err == nil || d.IsUniqueViolation == nil {
		return false
	}
	return d.IsUniqueViolation(err)
}
