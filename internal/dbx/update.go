package dbx

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoAssignments is returned when an update has nothing to SET.
	ErrNoAssignments = errors.New("update has no assignments")
	// ErrNoConditions is returned when an update has no WHERE conditions.
	// Unscoped updates are never built.
	ErrNoConditions = errors.New("update has no conditions")
	// ErrBadIdentifier is returned for table or column names that are not plain identifiers.
	ErrBadIdentifier = errors.New("bad identifier")
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Assignment is a single column/value pair.
type Assignment struct {
	Column string
	Value  any
}

// UpdateBuilder builds a parameterized UPDATE statement from an ordered list
// of assignments and equality conditions joined with AND. Values are always
// bound as parameters; only identifiers end up in the SQL text.
type UpdateBuilder struct {
	table  string
	set    []Assignment
	where  []Assignment
	format PlaceholderFormat
}

// Update starts a builder for table.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set appends an assignment. Order of calls is preserved in the statement.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.set = append(b.set, Assignment{Column: column, Value: value})
	return b
}

// Where appends an equality condition.
func (b *UpdateBuilder) Where(column string, value any) *UpdateBuilder {
	b.where = append(b.where, Assignment{Column: column, Value: value})
	return b
}

// PlaceholderFormat sets the bind parameter style.
func (b *UpdateBuilder) PlaceholderFormat(f PlaceholderFormat) *UpdateBuilder {
	b.format = f
	return b
}

// Len returns the number of assignments collected so far.
func (b *UpdateBuilder) Len() int { return len(b.set) }

// ToSQL renders the statement and its arguments: SET values first, then
// WHERE values, in the order they were added.
func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if len(b.set) == 0 {
		return "", nil, ErrNoAssignments
	}
	if len(b.where) == 0 {
		return "", nil, ErrNoConditions
	}
	if !identRe.MatchString(b.table) {
		return "", nil, fmt.Errorf("%w: %q", ErrBadIdentifier, b.table)
	}

	args := make([]any, 0, len(b.set)+len(b.where))

	sets := make([]string, 0, len(b.set))
	for _, a := range b.set {
		if !identRe.MatchString(a.Column) {
			return "", nil, fmt.Errorf("%w: %q", ErrBadIdentifier, a.Column)
		}
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}

	conds := make([]string, 0, len(b.where))
	for _, a := range b.where {
		if !identRe.MatchString(a.Column) {
			return "", nil, fmt.Errorf("%w: %q", ErrBadIdentifier, a.Column)
		}
		conds = append(conds, a.Column+" = ?")
		args = append(args, a.Value)
	}

	query := "UPDATE " + b.table + " SET " + strings.Join(sets, ", ") + " WHERE " + strings.Join(conds, " AND ")
	return b.format.Rebind(query), args, nil
}
