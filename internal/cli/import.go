package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/arret/internal/wire"
)

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Import an IW37N export",
		Long: `Import the first sheet of an IW37N xlsx export as the new work-order
dataset. With --refresh the TPAA/PW cache is rebuilt right away.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := wire.Context()
			if err := importFile(ctx, args[0]); err != nil {
				return err
			}
			if !refresh {
				fmt.Println()
				fmt.Println("Next steps:")
				fmt.Println("  arret refresh")
				return nil
			}
			return wire.ScheduleAdapter().Refresh(ctx)
		},
	}

	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Rebuild the TPAA/PW cache after the import")

	return cmd
}

func importFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return wire.ImportAdapter().Import(ctx, filepath.Base(path), f)
}
