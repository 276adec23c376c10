package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/fixtures"
	"github.com/skillcoder/coreportal/internal/app"
	"github.com/skillcoder/coreportal/internal/config"
	"github.com/skillcoder/coreportal/internal/infra/appstate"
	"github.com/skillcoder/coreportal/internal/infra/logging"
	"github.com/skillcoder/coreportal/internal/infra/pinger"
	"github.com/skillcoder/coreportal/internal/logic/audit"
)

func newRootCommand(signals <-chan os.Signal, appStart time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "coreportal",
		Short:         "Core Portal operations simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API, metrics and health servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, signals, appStart)
		},
	}

	root.RunE = serveCmd.RunE
	root.AddCommand(serveCmd, newAuditCommand(), newFixturesCommand())

	return root
}

func serve(cmd *cobra.Command, signals <-chan os.Signal, appStart time.Time) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	pingers := pinger.New(logger, cfg.PingerInterval)
	appState := appstate.New(logger, appStart, cfg.TerminationFile, signals, pingers)

	application, err := app.New(logger, cfg, appState, pingers)
	if err != nil {
		return fmt.Errorf("new application: %w", err)
	}

	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("run application: %w", err)
	}

	logger.InfoContext(ctx, "bye")

	return nil
}

func newAuditCommand() *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect or clear the persisted audit log",
	}

	var asJSON bool

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the audit log, oldest entry first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuditLog(cmd, func(log *audit.Log) error {
				entries, err := log.List(cmd.Context())
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")

					return enc.Encode(entries)
				}

				return printEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every audit entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuditLog(cmd, func(log *audit.Log) error {
				if err := log.Clear(cmd.Context()); err != nil {
					return err
				}

				_, err := fmt.Fprintln(cmd.OutOrStdout(), "audit log cleared")

				return err
			})
		},
	}

	auditCmd.AddCommand(list, clearCmd)

	return auditCmd
}

// withAuditLog opens the configured audit backend for the duration of fn.
// The badger backend holds a directory lock, so it cannot be opened while a server runs.
func withAuditLog(cmd *cobra.Command, fn func(log *audit.Log) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)

	log, store, err := app.OpenAuditLog(logger, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := store.Close(cmd.Context()); closeErr != nil && err == nil {
			err = fmt.Errorf("close audit store: %w", closeErr)
		}
	}()

	return fn(log)
}

func printEntries(w io.Writer, entries []audit.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "TIMESTAMP\tACTION\tTARGET\tUSER\tDETAILS"); err != nil {
		return err
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Timestamp, e.Action, e.Target, e.User, e.Details); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func newFixturesCommand() *cobra.Command {
	fixturesCmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Work with seed service fixtures",
	}

	check := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a fixtures file, or the built-in fixtures when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			services, err := fixtures.Load(path)
			if err != nil {
				return err
			}

			pods := 0
			for _, svc := range services {
				pods += len(svc.Pods)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d services, %d pods\n", len(services), pods)

			return err
		},
	}

	fixturesCmd.AddCommand(check)

	return fixturesCmd
}
