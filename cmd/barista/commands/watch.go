package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/barista/display"
	"github.com/teranos/barista/engine"
	"github.com/teranos/barista/errors"
)

// WatchCmd refreshes the forecast whenever the sales file changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reforecast whenever the sales file is edited",
	Long: `Watch the sales file and print a fresh forecast for the next day every
time another program (a spreadsheet, an editor) saves it.

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := openEngine(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	p := printer(cmd)

	if err := printNextForecast(ctx, e, p); err != nil {
		return err
	}

	err = e.Watch(ctx, func(reloadErr error) {
		if reloadErr != nil {
			pterm.Warning.Println("Reload failed, keeping the previous history")
			cmd.PrintErr(display.ErrorMessage(reloadErr))
			return
		}
		if err := printNextForecast(ctx, e, p); err != nil {
			cmd.PrintErr(display.ErrorMessage(err))
		}
	})
	if err != nil {
		return err
	}
	pterm.Info.Println("Watching for changes (press Ctrl+C to stop)...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	if err := e.Close(); err != nil {
		return errors.Wrap(err, "failed to stop watcher")
	}
	pterm.Success.Println("Stopped watching")
	return nil
}

func printNextForecast(ctx context.Context, e *engine.Engine, p *display.Printer) error {
	day, err := e.NextDayIndex(ctx)
	if err != nil {
		return err
	}
	cups, err := e.Predict(ctx, engine.ForecastQuery{DayIndex: day})
	if err != nil {
		return err
	}
	history, err := e.History(ctx)
	if err != nil {
		return err
	}
	return p.Forecast(day, cups, history)
}
