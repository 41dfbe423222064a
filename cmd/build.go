package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gumup/gumup/internal/app"
	"github.com/gumup/gumup/internal/log"
	"github.com/gumup/gumup/internal/pubsub"
)

const timePrecision = time.Millisecond

var (
	buildWatch   bool
	buildOutput  string
	buildNoCache bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve the unit graph and write the bundle",
	Long: `Scan the configured source directories, resolve the dependency order of
every discovered unit, and concatenate the files into the output bundle.

With --watch, gumup keeps running and rebuilds whenever a source file
changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if buildOutput != "" {
			cfg.Output = buildOutput
		}
		if buildNoCache {
			cfg.Cache.Disabled = true
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.Background()) }()

		if buildWatch {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go printBuildEvents(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.Events().Subscribe(ctx))
			if debugMode {
				go echoLogLines(cmd.ErrOrStderr(), log.Events().Subscribe(ctx))
			}

			err := a.Watch(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		result, err := a.Build(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), bundledLine(result))
		return nil
	},
}

func bundledLine(result *app.BuildResult) string {
	return fmt.Sprintf("bundled %d units into %s (%s)",
		len(result.Files), result.Output, result.Duration.Round(timePrecision))
}

// printBuildEvents reports each watch-mode build outcome on the command's
// streams until the subscription closes.
func printBuildEvents(out, errOut io.Writer, events <-chan pubsub.Event[app.BuildResult]) {
	for evt := range events {
		switch evt.Type {
		case pubsub.SourceChangedEvent:
			fmt.Fprintf(out, "%d file(s) changed, rebuilding\n", len(evt.Payload.Files))
		case pubsub.BuildFinishedEvent:
			fmt.Fprintln(out, bundledLine(&evt.Payload))
		case pubsub.BuildFailedEvent:
			fmt.Fprintf(errOut, "build failed: %s\n", evt.Payload.Err)
		}
	}
}

// echoLogLines mirrors debug log lines to the command's error stream.
func echoLogLines(w io.Writer, lines <-chan pubsub.Event[string]) {
	for evt := range lines {
		fmt.Fprintln(w, evt.Payload)
	}
}

func init() {
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false,
		"rebuild whenever a source file changes")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "",
		"bundle output path (overrides config)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false,
		"bypass the unit parse cache")
	rootCmd.AddCommand(buildCmd)
}
