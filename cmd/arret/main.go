package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/arret/internal/cli"
	"github.com/example/arret/internal/version"
	"github.com/example/arret/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "arret",
		Short:   "arret - TPAA/PW planning for the annual shutdown",
		Version: version.String(),
		Long: `arret derives the TPAA (weeks before) and PW (days before) preparation
work of an annual shutdown from an IW37N work-order export, and keeps the
manual status, comments and day adjustments entered for each operation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.SettingsCmd())
	rootCmd.AddCommand(cli.ImportCmd())

	// Schedule
	rootCmd.AddCommand(cli.LoadCmd())
	rootCmd.AddCommand(cli.RefreshCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.SortCmd())
	rootCmd.AddCommand(cli.ClearCmd())
	rootCmd.AddCommand(cli.SetCmd())
	rootCmd.AddCommand(cli.AdjustCmd())
	rootCmd.AddCommand(cli.CalendarCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	// Background
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.FollowCmd())

	err := rootCmd.Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := wire.Shutdown(ctx); shutdownErr != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", shutdownErr)
		if err == nil {
			err = shutdownErr
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
