package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

func newDBCommand() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "SQLite ledger store operations",
	}
	dbCmd.AddCommand(newDBLoadCommand())
	dbCmd.AddCommand(newDBExportCommand())
	return dbCmd
}

func newDBLoadCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Copy the CSV ledger into the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			defer r.close()

			ctx := cmd.Context()
			src := journal.NewService(r.root)
			accts, err := src.Accounts(ctx)
			if err != nil {
				return err
			}
			entries, err := src.Entries(ctx, time.Time{}, time.Time{})
			if err != nil {
				return err
			}

			db, err := store.Open(ctx, r.dbPath(), r.log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Replace(ctx, accts, entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d accounts and %d entries into %s\n", len(accts), len(entries), r.dbPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")

	return cmd
}

func newDBExportCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the SQLite store back to the CSV ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			defer r.close()

			ctx := cmd.Context()
			db, err := store.Open(ctx, r.dbPath(), r.log)
			if err != nil {
				return err
			}
			defer db.Close()

			accts, err := db.Accounts(ctx)
			if err != nil {
				return err
			}
			entries, err := db.Entries(ctx, time.Time{}, time.Time{})
			if err != nil {
				return err
			}

			if err := accounts.NewService(accts).Save(r.root); err != nil {
				return err
			}
			if err := journal.NewService(r.root).WriteAll(entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d accounts and %d entries from %s\n", len(accts), len(entries), r.dbPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")

	return cmd
}
