// Package grants turns a usage store into MySQL privilege statements and
// applies them.
package grants

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"model-usage/internal/usage"
)

// DefaultHost is the host part used when Options.Host is empty.
const DefaultHost = "%"

// Options configures Format.
type Options struct {
	// User receives the privileges.
	User string
	// Host is the account host (default DefaultHost).
	Host string
	// Database qualifies table names when set.
	Database string
	// Revoke prepends a statement revoking every existing privilege.
	Revoke bool
	// Flush appends FLUSH PRIVILEGES.
	Flush bool
}

type privilege struct {
	name   string
	active func(usage.Record) bool
}

var privileges = []privilege{
	{"SELECT", func(r usage.Record) bool { return r.Select }},
	{"INSERT", func(r usage.Record) bool { return r.Insert }},
	{"UPDATE", func(r usage.Record) bool { return r.Update }},
	{"DELETE", func(r usage.Record) bool { return r.Delete }},
}

// Format returns the statements granting exactly the recorded usage: one
// GRANT per active flag, ordered by table and then SELECT, INSERT, UPDATE,
// DELETE.
func Format(s *usage.Store, opts Options) ([]string, error) {
	if opts.User == "" {
		return nil, errors.New("grants: user is required")
	}

	host := opts.Host
	if host == "" {
		host = DefaultHost
	}

	account := quoteString(opts.User) + "@" + quoteString(host)

	var stmts []string

	if opts.Revoke {
		stmts = append(stmts, fmt.Sprintf("REVOKE ALL PRIVILEGES, GRANT OPTION FROM %s;", account))
	}

	records := s.Records()
	byTable := make(map[string]usage.Record, len(records))
	tables := make([]string, 0, len(records))

	for _, rec := range records {
		if rec.Table == "" {
			return nil, fmt.Errorf("grants: entity %s has no table", rec.Entity)
		}

		if prev, ok := byTable[rec.Table]; ok {
			// Two entities mapped onto one table share its privileges.
			rec = merge(prev, rec)
		} else {
			tables = append(tables, rec.Table)
		}

		byTable[rec.Table] = rec
	}

	slices.Sort(tables)

	for _, table := range tables {
		rec := byTable[table]
		target := quoteIdent(table)

		if opts.Database != "" {
			target = quoteIdent(opts.Database) + "." + target
		}

		for _, p := range privileges {
			if p.active(rec) {
				stmts = append(stmts, fmt.Sprintf("GRANT %s ON %s TO %s;", p.name, target, account))
			}
		}
	}

	if opts.Flush {
		stmts = append(stmts, "FLUSH PRIVILEGES;")
	}

	return stmts, nil
}

// Write prints statements one per line.
func Write(w io.Writer, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := fmt.Fprintln(w, stmt); err != nil {
			return err
		}
	}

	return nil
}

func merge(a, b usage.Record) usage.Record {
	a.Select = a.Select || b.Select
	a.Insert = a.Insert || b.Insert
	a.Update = a.Update || b.Update
	a.Delete = a.Delete || b.Delete

	return a
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
