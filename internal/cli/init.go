package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/arret/internal/config"
	"github.com/example/arret/internal/db"
	"github.com/example/arret/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		global bool
		force  bool
		demo   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the arret configuration and database",
		Long: `Write .arret/config.yaml in the current directory (or in $HOME with
--global) and create the database with the required schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := initDir(global)
			if err != nil {
				return err
			}

			path := config.Path(dir)
			_, statErr := os.Stat(path)
			switch {
			case statErr == nil && !force:
				fmt.Printf("Config already exists at %s (use --force to overwrite)\n", path)
			case statErr == nil || errors.Is(statErr, fs.ErrNotExist):
				if err := config.SaveConfig(dir, config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", path)
			default:
				return fmt.Errorf("failed to check %s: %w", path, statErr)
			}

			cfg, _ := wire.Config()
			database := wire.DB()
			fmt.Printf("✓ Database initialized at %s\n", cfg.Database.Path)

			if demo {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed demo data: %w", err)
				}
				fmt.Println("✓ Demo settings and IW37N data loaded")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			if !demo {
				fmt.Println("  arret settings start 2026-04-01")
				fmt.Println("  arret import IW37N.xlsx")
			}
			fmt.Println("  arret load")
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Write the config under $HOME instead of the current directory")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	cmd.Flags().BoolVar(&demo, "demo", false, "Seed a start date and sample IW37N data")

	return cmd
}

func initDir(global bool) (string, error) {
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, nil
}
