package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/depscan/pkg/depscan/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-run the check whenever the project changes",
	Long: `Watch the project tree and re-run the full dependency check after
changes settle. Press Ctrl-C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch is the watch command handler.
func runWatch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("%v", err)
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(dir, 0, func(ctx context.Context) {
		report, err := runOnce(ctx, cfg, dir)
		if err != nil {
			printError("%v", err)
			return
		}
		if err := render(cfg.Output, report); err != nil {
			printError("%v", err)
		}
	})
	if err != nil {
		printError("%v", err)
		return err
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		printError("%v", err)
		return err
	}
	return nil
}
