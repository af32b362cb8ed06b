package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var initGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, currency, initGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code")
	cmd.Flags().BoolVar(&initGit, "git", false, "initialize a git repository and commit the skeleton")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name, currency string, initGit bool) error {
	currency = strings.ToUpper(currency)
	if money.GetCurrency(currency) == nil {
		return fmt.Errorf("unknown currency %q", currency)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Create directory structure.
	for _, d := range []string{"accounts", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write ledgerbook.yaml.
	cfg := config.Default(name, currency)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write an empty chart of accounts.
	if err := accounts.NewService(nil).Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write .gitignore.
	gitignore := cfg.Storage.Path + "\n" + cfg.Storage.Path + "-*\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if initGit {
		if err := gitops.Init(ctx, dir); err != nil {
			return err
		}
		hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, "ledgerbook", "ledgerbook@localhost")
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(out, "Initialized ledger for %s at %s (%s)\n", name, dir, hash)
	} else {
		fmt.Fprintf(out, "Initialized ledger for %s at %s\n", name, dir)
	}
	fmt.Fprintf(out, "Add accounts to %s and journal entries under <year>/<month>/journal.csv\n", accounts.ChartPath)
	return nil
}
