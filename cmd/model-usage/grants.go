package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"model-usage/internal/grants"
	"model-usage/internal/usage"
)

var (
	grantsSnapshot string
	grantsUser     string
	grantsHost     string
	grantsDatabase string
	grantsDSN      string
	grantsRevoke   bool
	grantsFlush    bool
	grantsApply    bool
)

var grantsCmd = &cobra.Command{
	Use:   "grants [dir...]",
	Short: "Print or apply GRANT statements",
	Long: `Generate one GRANT per table and operation the code base uses. Usage comes
from a snapshot (--snapshot) or from analysing the given directories.`,
	Example: `  # Print grants for the current module
  model-usage grants --user shop_app --database shop

  # Apply grants from a snapshot
  model-usage grants --snapshot usage.yaml --user shop_app --apply --dsn 'root:pw@tcp(db:3306)/'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := grantsSource(ctx, cmd, args)
		if err != nil {
			return err
		}

		opts := grants.Options{
			User:     resolveString(grantsUser, cfg.Grants.User),
			Host:     resolveString(grantsHost, cfg.Grants.Host),
			Database: resolveString(grantsDatabase, cfg.Grants.Database),
			Revoke:   resolveBool(cmd, "revoke", grantsRevoke, cfg.Grants.Revoke),
			Flush:    resolveBool(cmd, "flush", grantsFlush, cfg.Grants.Flush),
		}

		stmts, err := grants.Format(store, opts)
		if err != nil {
			return ConfigError("formatting grants", err)
		}

		if !grantsApply {
			return grants.Write(cmd.OutOrStdout(), stmts)
		}

		cfg.Grants.DSN = resolveString(grantsDSN, cfg.Grants.DSN)
		cfg.Grants.Database = opts.Database

		return applyGrants(ctx, cmd, stmts)
	},
}

func init() {
	f := grantsCmd.Flags()
	f.StringVar(&grantsSnapshot, "snapshot", "", "usage snapshot to read instead of analysing")
	f.StringVar(&grantsUser, "user", "", "database user receiving the privileges")
	f.StringVar(&grantsHost, "host", "", "account host (default %)")
	f.StringVar(&grantsDatabase, "database", "", "database qualifying the tables")
	f.StringVar(&grantsDSN, "dsn", "", "MySQL DSN used with --apply")
	f.BoolVar(&grantsRevoke, "revoke", false, "revoke existing privileges first")
	f.BoolVar(&grantsFlush, "flush", true, "append FLUSH PRIVILEGES")
	f.BoolVar(&grantsApply, "apply", false, "execute the statements instead of printing them")
}

func grantsSource(ctx context.Context, cmd *cobra.Command, dirs []string) (*usage.Store, error) {
	if grantsSnapshot == "" {
		applyAnalyzeFlags(cmd)

		if len(dirs) == 0 {
			dirs = []string{cfg.Dir}
		}

		store, _, err := analyzeDirs(ctx, dirs)

		return store, err
	}

	return readSnapshot(grantsSnapshot)
}

func applyGrants(ctx context.Context, cmd *cobra.Command, stmts []string) error {
	dsn, err := cfg.DSN()
	if err != nil {
		return ConfigError("resolving DSN", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return DatabaseError("connecting to database", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return DatabaseError("connecting to database", err)
	}

	n, err := grants.Apply(ctx, db, stmts, logger)
	if err != nil {
		return DatabaseError(fmt.Sprintf("applying grants (%d of %d applied)", n, len(stmts)), err)
	}

	if !quiet {
		color.New(color.FgGreen, color.Bold).Fprintf(cmd.ErrOrStderr(), "✓ applied %d statement(s)\n", n)
	}

	return nil
}
