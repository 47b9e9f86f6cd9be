// Package querybuilder composes SQL WHERE clauses from predicates and their bound
// values. Values never enter the SQL text; every predicate uses "?" placeholders,
// which callers rebind to the driver's style with sqlx.DB.Rebind.
package querybuilder

import "strings"

// LikeEscape is the escape character used by Contains.
const LikeEscape = "!"

// Predicate is a boolean SQL fragment and the values bound to its placeholders.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Empty reports whether the predicate contributes nothing.
func (p Predicate) Empty() bool {
	return strings.TrimSpace(p.SQL) == ""
}

// Raw wraps a hand-written fragment.
func Raw(sql string, args ...interface{}) Predicate {
	return Predicate{SQL: sql, Args: args}
}

// Eq matches column = value.
func Eq(column string, value interface{}) Predicate {
	return Predicate{SQL: column + " = ?", Args: []interface{}{value}}
}

// Ne matches column <> value.
func Ne(column string, value interface{}) Predicate {
	return Predicate{SQL: column + " <> ?", Args: []interface{}{value}}
}

// Gte matches column >= value.
func Gte(column string, value interface{}) Predicate {
	return Predicate{SQL: column + " >= ?", Args: []interface{}{value}}
}

// Lte matches column <= value.
func Lte(column string, value interface{}) Predicate {
	return Predicate{SQL: column + " <= ?", Args: []interface{}{value}}
}

// Between matches lo <= column <= hi.
func Between(column string, lo, hi interface{}) Predicate {
	return And(Gte(column, lo), Lte(column, hi))
}

// IsNotNull matches non-null column values.
func IsNotNull(column string) Predicate {
	return Predicate{SQL: column + " IS NOT NULL"}
}

// In matches column against any of values. An empty list matches nothing.
func In(column string, values ...interface{}) Predicate {
	if len(values) == 0 {
		return Predicate{SQL: "1 = 0"}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	args := make([]interface{}, len(values))
	copy(args, values)
	return Predicate{SQL: column + " IN (" + placeholders + ")", Args: args}
}

// InStrings is In for string slices.
func InStrings(column string, values []string) Predicate {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return In(column, args...)
}

// Contains matches a case-insensitive substring, escaping LIKE wildcards in value.
func Contains(column, value string) Predicate {
	pattern := "%" + EscapeLike(strings.ToLower(value)) + "%"
	return Predicate{
		SQL:  "LOWER(" + column + ") LIKE ? ESCAPE '" + LikeEscape + "'",
		Args: []interface{}{pattern},
	}
}

// EscapeLike escapes LIKE metacharacters using LikeEscape.
func EscapeLike(value string) string {
	r := strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")
	return r.Replace(value)
}

// Or joins predicates with OR. Empty predicates are skipped.
func Or(preds ...Predicate) Predicate {
	return join(" OR ", preds)
}

// And joins predicates with AND. Empty predicates are skipped.
func And(preds ...Predicate) Predicate {
	return join(" AND ", preds)
}

func join(op string, preds []Predicate) Predicate {
	parts := make([]string, 0, len(preds))
	var args []interface{}
	for _, p := range preds {
		if p.Empty() {
			continue
		}
		parts = append(parts, p.SQL)
		args = append(args, p.Args...)
	}
	switch len(parts) {
	case 0:
		return Predicate{}
	case 1:
		return Predicate{SQL: parts[0], Args: args}
	default:
		return Predicate{SQL: "(" + strings.Join(parts, op) + ")", Args: args}
	}
}

// Builder accumulates conjunctive WHERE predicates.
type Builder struct {
	preds []Predicate
}

// Where starts a builder with the given predicates.
func Where(preds ...Predicate) *Builder {
	b := &Builder{}
	for _, p := range preds {
		b.And(p)
	}
	return b
}

// And appends a predicate; empty predicates are ignored.
func (b *Builder) And(p Predicate) *Builder {
	if !p.Empty() {
		b.preds = append(b.preds, p)
	}
	return b
}

// Len returns the number of predicates collected so far.
func (b *Builder) Len() int {
	return len(b.preds)
}

// SQL renders " WHERE p1 AND p2 ..." (or "" when empty) and the bound values in order.
func (b *Builder) SQL() (string, []interface{}) {
	if len(b.preds) == 0 {
		return "", nil
	}
	parts := make([]string, len(b.preds))
	var args []interface{}
	for i, p := range b.preds {
		parts[i] = p.SQL
		args = append(args, p.Args...)
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}
