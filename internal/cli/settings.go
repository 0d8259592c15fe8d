package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/arret/internal/wire"
)

// SettingsCmd returns the settings command
func SettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the shutdown dates",
		Long: `Show or change the shutdown start and end dates.
TPAA and PW dates are counted back from the start date.`,
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsStartCmd())
	cmd.AddCommand(settingsEndCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SettingsAdapter().Show(wire.Context())
		},
	}
}

func settingsStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [YYYY-MM-DD]",
		Short: "Set the shutdown start date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SettingsAdapter().SetStartDate(wire.Context(), args[0])
		},
	}
}

func settingsEndCmd() *cobra.Command {
	var clearEnd bool

	cmd := &cobra.Command{
		Use:   "end [YYYY-MM-DD]",
		Short: "Set or clear the shutdown end date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			} else if !clearEnd {
				return cmd.Usage()
			}
			return wire.SettingsAdapter().SetEndDate(wire.Context(), date)
		},
	}

	cmd.Flags().BoolVar(&clearEnd, "clear", false, "Clear the end date")

	return cmd
}
