package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Dialect captures the SQL differences between supported databases
type Dialect struct {
	// Name matches the database/sql driver name
	Name string

	// placeholder renders the n-th (1-based) bind parameter
	placeholder func(n int) string

	// lockSuffix is appended to a SELECT that precedes an update in the same transaction
	lockSuffix string

	// isUniqueViolation reports whether err is a primary key or unique conflict
	isUniqueViolation func(err error) bool
}

// SQLite uses modernc.org/sqlite, a pure Go driver
var SQLite = Dialect{
	Name:        "sqlite",
	placeholder: func(int) string { return "?" },
	lockSuffix:  "",
	isUniqueViolation: func(err error) bool {
		var sqliteErr *msqlite.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.Code() {
			case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
				return true
			}
		}
		return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
	},
}

// Postgres uses github.com/lib/pq
var Postgres = Dialect{
	Name:        "postgres",
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	lockSuffix:  " FOR UPDATE",
	isUniqueViolation: func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == "23505"
	},
}

// DialectFor returns the dialect registered under name
func DialectFor(name string) (Dialect, error) {
	switch name {
	case SQLite.Name:
		return SQLite, nil
	case Postgres.Name:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql dialect %q", name)
	}
}

// args collects bind values and renders their placeholders in order
type args struct {
	d      Dialect
	values []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	return a.d.placeholder(len(a.values))
}
