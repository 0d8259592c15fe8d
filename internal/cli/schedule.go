package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/arret/internal/adapters/cli"
	"github.com/example/arret/internal/ports/primary"
	"github.com/example/arret/internal/wire"
)

// LoadCmd returns the load command
func LoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load the TPAA/PW tables and the calendar",
		Long: `Load the stored TPAA/PW cache, manual entries and sort state.
When the cache is empty it is rebuilt from the imported IW37N data.
Both tables and the calendar of the current month are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wire.View().Mount("tpaa", "pw", "calendar")
			return wire.ScheduleAdapter().Load(wire.Context())
		},
	}
}

// RefreshCmd returns the refresh command
func RefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the TPAA/PW cache from IW37N data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ScheduleAdapter().Refresh(wire.Context())
		},
	}
}

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var (
		designation string
		operation   string
		position    string
		date        string
		sortBy      string
		direction   string
	)

	cmd := &cobra.Command{
		Use:   "list [tpaa|pw]",
		Short: "List the rows of a table",
		Long: `List the reconciled rows of a table with their manual entries.

Filters are case-insensitive substring matches. --sort and --dir change
the stored sort of the table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := validateTable(table); err != nil {
				return err
			}
			opts := cliadapter.ListOptions{
				Filters: primary.RowFilters{
					Designation: designation,
					Operation:   operation,
					Position:    position,
					Date:        date,
				},
				SortBy:    sortBy,
				Direction: direction,
			}
			return wire.ScheduleAdapter().List(wire.Context(), table, opts)
		},
	}

	cmd.Flags().StringVarP(&designation, "designation", "d", "", "Filter on the operation designation")
	cmd.Flags().StringVarP(&operation, "operation", "o", "", "Filter on the operation number")
	cmd.Flags().StringVarP(&position, "position", "p", "", "Filter on the technical position")
	cmd.Flags().StringVar(&date, "date", "", "Filter on the displayed date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort column: date or externe")
	cmd.Flags().StringVar(&direction, "dir", "", "Sort direction: asc, desc or none")

	return cmd
}

// SortCmd returns the sort command
func SortCmd() *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "sort [tpaa|pw] [asc|desc|none]",
		Short: "Set and save the sort of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := validateTable(table); err != nil {
				return err
			}
			return wire.ScheduleAdapter().Sort(wire.Context(), table, column, strings.ToLower(args[1]))
		},
	}

	cmd.Flags().StringVarP(&column, "by", "b", "date", "Sort column: date or externe")

	return cmd
}

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [tpaa|pw]",
		Short: "Clear the filters and sort of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := validateTable(table); err != nil {
				return err
			}
			return wire.ScheduleAdapter().ClearFilters(wire.Context(), table)
		},
	}
}

// SetCmd returns the set command
func SetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [tpaa|pw] [row-key] [field] [value]",
		Short: "Set a manual field of a row",
		Long: `Set a manual field of a row and save it.

Fields:
  plusQuestion   day adjustment (integer)
  statut         À faire, Planifié, Terminé, Annulé (or empty)
  commentaire    free text
  dateSAP        true or false`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := validateTable(table); err != nil {
				return err
			}
			if err := validateRowKey(args[1], table); err != nil {
				return err
			}
			wire.View().Mount(table)
			return wire.ScheduleAdapter().Set(wire.Context(), table, args[1], args[2], args[3])
		},
	}
}

// AdjustCmd returns the adjust command
func AdjustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adjust [tpaa|pw] [row-key] [days]",
		Short: "Shift the date of a row by a number of days",
		Long: `Shift the date of a row by a signed number of days.
The adjustment adds to any existing one; use a negative value to go back.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := validateTable(table); err != nil {
				return err
			}
			if err := validateRowKey(args[1], table); err != nil {
				return err
			}
			delta, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid number of days '%s'", args[2])
			}
			wire.View().Mount(table)
			return wire.ScheduleAdapter().Adjust(wire.Context(), table, args[1], delta)
		},
	}
}

// CalendarCmd returns the calendar command
func CalendarCmd() *cobra.Command {
	var (
		prev  bool
		next  bool
		month string
		grid  bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the TPAA/PW calendar of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if prev && next {
				return fmt.Errorf("--prev and --next are mutually exclusive")
			}
			if grid {
				wire.View().Mount("calendar")
			}
			ctx := wire.Context()
			adapter := wire.ScheduleAdapter()

			if month != "" {
				year, m, err := parseMonth(month)
				if err != nil {
					return err
				}
				return adapter.CalendarAt(ctx, year, int(m))
			}

			move := cliadapter.CalendarCurrent
			switch {
			case prev:
				move = cliadapter.CalendarPrevious
			case next:
				move = cliadapter.CalendarNext
			}
			return adapter.Calendar(ctx, move)
		},
	}

	cmd.Flags().BoolVar(&prev, "prev", false, "Show the previous month")
	cmd.Flags().BoolVar(&next, "next", false, "Show the next month")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Show a given month (YYYY-MM)")
	cmd.Flags().BoolVarP(&grid, "grid", "g", false, "Also print the month grid")

	return cmd
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [tpaa|pw] [file.xlsx]",
		Short: "Export the displayed rows of a table to an xlsx workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := validateTable(table); err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[1], err)
			}
			if err := wire.ScheduleAdapter().Export(wire.Context(), table, f, args[1]); err != nil {
				f.Close()
				os.Remove(args[1])
				return err
			}
			return f.Close()
		},
	}
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a summary of the stored schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source := wire.Config()
			fmt.Printf("Config:         %s\n", source)
			fmt.Printf("Database:       %s\n", cfg.Database.Path)
			return wire.ScheduleAdapter().Status(wire.Context())
		},
	}
}
