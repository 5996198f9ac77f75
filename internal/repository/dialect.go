package repository

import (
	"fmt"
	"strings"
)

// Dialect selects placeholder syntax. One store implementation serves both
// backends; schemas live in sqlite.go and postgres.go.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// rebind converts ?-style placeholders to $n for PostgreSQL
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
