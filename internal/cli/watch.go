package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/arret/internal/adapters/changefeed"
	"github.com/example/arret/internal/ctxutil"
	"github.com/example/arret/internal/ports/secondary"
	"github.com/example/arret/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file.xlsx]",
		Short: "Re-import an IW37N export whenever it changes",
		Long: `Watch an IW37N xlsx export. Each time the file settles after a change it
is imported and the TPAA/PW cache is rebuilt. Without an argument the
watch.path configuration value is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				if cfg, _ := wire.Config(); cfg.Watch.Path == "" {
					return fmt.Errorf("no file to watch\nHint: pass a path or set watch.path in config.yaml")
				}
			}

			watcher, err := wire.FileWatcher(path)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(wire.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", watcher.Path())
			return watcher.Run(ctx, func(ctx context.Context, path string) error {
				if err := importFile(ctx, path); err != nil {
					return err
				}
				return wire.ScheduleAdapter().Refresh(ctx)
			})
		},
	}
}

// FollowCmd returns the follow command
func FollowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "follow",
		Short: "Print changes saved by other sessions",
		Long: `Subscribe to the change feed and print every save made by other arret
sessions. Requires nats.url to be configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(wire.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			own := ctxutil.SessionFromContext(ctx)
			fmt.Println("Following changes (Ctrl-C to stop)")
			err := wire.ChangeSubscriber().Subscribe(ctx, func(event secondary.ChangeEvent) {
				if event.Session == own {
					return
				}
				fmt.Println(formatChange(event))
			})
			if errors.Is(err, changefeed.ErrDisabled) {
				return fmt.Errorf("change feed is disabled\nHint: set nats.url in config.yaml or ARRET_NATS_URL")
			}
			return err
		},
	}
}

func formatChange(event secondary.ChangeEvent) string {
	session := event.Session
	if len(session) > 8 {
		session = session[:8]
	}
	return fmt.Sprintf("↻ %s  %s saved by %s", event.SavedAt, event.Key, orEmpty(session, "unknown session"))
}

func orEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
