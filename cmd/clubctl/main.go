// Command clubctl runs club admin tasks against the configured store.
//
// Usage:
//
//	clubctl rollover --season 2027 --attendance --monthly-payments --confirm ROLLOVER
//	clubctl reset --stats --discipline-paid --confirm RESET
//	clubctl backup
//	clubctl overview --year 2026 --month 2026-03
//	clubctl migrate
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/bootstrap"
	"clubhouse/internal/config"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/period"
	"clubhouse/internal/logging"
)

// env is what every command runs against.
type env struct {
	store    orchestrators.BackupStore
	notifier orchestrators.AdminNotifier
	location *time.Location
	now      func() time.Time
}

func (e env) today() string {
	return period.DateKeyOf(e.now().In(e.location))
}

// opener prepares an env and returns a func releasing it.
type opener func(ctx context.Context) (env, func(), error)

func main() {
	root := rootCmd(openFromConfig)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openFromConfig(ctx context.Context) (env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, nil, fmt.Errorf("load config: %w", err)
	}
	logCloser := logging.Init(cfg.Log)
	store, err := bootstrap.OpenStore(ctx, cfg, nil)
	if err != nil {
		logCloser.Close()
		return env{}, nil, err
	}
	release := func() {
		_ = store.Close()
		_ = logCloser.Close()
	}
	return env{store: store, notifier: bootstrap.Notifier(cfg), location: cfg.Location, now: time.Now}, release, nil
}

func rootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "clubctl",
		Short:        "Club admin tasks",
		SilenceUsage: true,
	}
	root.AddCommand(rolloverCmd(open))
	root.AddCommand(resetCmd(open))
	root.AddCommand(backupCmd(open))
	root.AddCommand(overviewCmd(open))
	root.AddCommand(migrateCmd(open))
	return root
}

// run opens the env, runs fn and releases the env.
func run(cmd *cobra.Command, open opener, fn func(ctx context.Context, e env) (any, error)) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	e, release, err := open(ctx)
	if err != nil {
		return err
	}
	defer release()

	out, err := fn(ctx, e)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func seasonDeps(e env) orchestrators.SeasonDeps {
	return orchestrators.SeasonDeps{
		Store:      e.store,
		Notifier:   e.notifier,
		GenerateID: func() string { return uuid.New().String() },
		Now:        e.now,
	}
}

func addResetFlags(cmd *cobra.Command, flags *member.ResetFlags) {
	cmd.Flags().BoolVar(&flags.Attendance, "attendance", false, "Clear attendance")
	cmd.Flags().BoolVar(&flags.MonthlyPayments, "monthly-payments", false, "Clear monthly payments")
	cmd.Flags().BoolVar(&flags.YearlyPayments, "yearly-payments", false, "Clear yearly payments")
	cmd.Flags().BoolVar(&flags.Stats, "stats", false, "Zero goals, assists and cards")
	cmd.Flags().BoolVar(&flags.DisciplinePaid, "discipline-paid", false, "Zero paid card counters")
}

func rolloverCmd(open opener) *cobra.Command {
	var (
		season  int
		flags   member.ResetFlags
		confirm string
	)
	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Back up, advance the season and clear the selected data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, func(ctx context.Context, e env) (any, error) {
				return orchestrators.ExecuteRollover(ctx, orchestrators.RolloverInput{
					NewSeasonYear: season,
					Reset:         flags,
					Confirm:       confirm,
				}, seasonDeps(e))
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "New season year")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Type "+orchestrators.ConfirmRollover+" to proceed")
	addResetFlags(cmd, &flags)
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func resetCmd(open opener) *cobra.Command {
	var (
		flags   member.ResetFlags
		confirm string
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Back up and clear the selected data without changing the season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, func(ctx context.Context, e env) (any, error) {
				return orchestrators.ExecuteResetSeason(ctx, orchestrators.ResetSeasonInput{
					Reset:   flags,
					Confirm: confirm,
				}, seasonDeps(e))
			})
		},
	}
	cmd.Flags().StringVar(&confirm, "confirm", "", "Type "+orchestrators.ConfirmReset+" to proceed")
	addResetFlags(cmd, &flags)
	return cmd
}

func backupCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Take a full backup of every document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, func(ctx context.Context, e env) (any, error) {
				return orchestrators.ExecuteCreateBackup(ctx, orchestrators.CreateBackupDeps{Store: e.store})
			})
		},
	}
}

func overviewCmd(open opener) *cobra.Command {
	var yearKey, monthKey string
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print payment status per member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, func(ctx context.Context, e env) (any, error) {
				return projections.QueryGetOverview(ctx, projections.GetOverviewQuery{
					YearKey:  yearKey,
					MonthKey: monthKey,
				}, projections.GetOverviewDeps{Store: e.store, Now: e.now, Today: e.today})
			})
		},
	}
	cmd.Flags().StringVar(&yearKey, "year", "", "Year key (YYYY), defaults to the season")
	cmd.Flags().StringVar(&monthKey, "month", "", "Month key (YYYY-MM), defaults to this month")
	return cmd
}

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply settings migrations and backfill missing member data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, func(ctx context.Context, e env) (any, error) {
				return orchestrators.ExecuteMigrate(ctx, orchestrators.MigrateDeps{Store: e.store})
			})
		},
	}
}
