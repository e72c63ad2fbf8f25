// Package commands implements the barista CLI subcommands.
package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/barista/config"
	"github.com/teranos/barista/display"
	"github.com/teranos/barista/engine"
	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/logger"
)

// AddPersistentFlags registers the flags every subcommand inherits
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	root.PersistentFlags().Bool("json", false, "Print results as JSON")
	root.PersistentFlags().String("config", "", "Read this config file instead of the project barista.toml")
	root.PersistentFlags().String("sales-file", "", "Sales history CSV (overrides sales.file)")
}

// AddCommands attaches every subcommand to root
func AddCommands(root *cobra.Command) {
	root.AddCommand(SuggestCmd)
	root.AddCommand(PredictCmd)
	root.AddCommand(AddCmd)
	root.AddCommand(HistoryCmd)
	root.AddCommand(MenuCmd)
	root.AddCommand(ConsoleCmd)
	root.AddCommand(WatchCmd)
	root.AddCommand(ConfigCmd)
	root.AddCommand(VersionCmd)
}

// Setup loads configuration, initializes the logger and stamps a request ID
// on the command context. It is the root's PersistentPreRunE.
func Setup(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		config.SetConfigFile(path)
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if err := logger.Initialize(logger.Options{
		JSON:      cfg.Log.JSON,
		Color:     cfg.Log.Color,
		Verbosity: verbosity,
	}); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	if !cfg.Log.Color {
		pterm.DisableColor()
	}
	display.SetDefaultJSON(cfg.Display.Format == config.FormatJSON)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithRequestID(ctx, uuid.NewString())
	ctx = logger.WithCommand(ctx, cmd.CommandPath())
	cmd.SetContext(ctx)

	logger.LoggerFromContext(ctx, nil).Debugw("Command started",
		logger.FieldPath, cfg.Sales.File)
	return nil
}

// engineOptions resolves the engine configuration for cmd
func engineOptions(cmd *cobra.Command) (engine.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return engine.Options{}, errors.Wrap(err, "failed to load config")
	}

	salesFile := cfg.Sales.File
	if flag, _ := cmd.Flags().GetString("sales-file"); flag != "" {
		salesFile = flag
	}

	return engine.Options{
		SalesFile:     salesFile,
		SkipSeed:      !cfg.Sales.Seed,
		WatchDebounce: cfg.Sales.WatchDebounce(),
		Logger:        logger.ComponentLogger("engine"),
	}, nil
}

// openEngine opens an initialized engine for cmd
func openEngine(cmd *cobra.Command) (*engine.Engine, error) {
	opts, err := engineOptions(cmd)
	if err != nil {
		return nil, err
	}
	return engine.Open(cmd.Context(), opts)
}

// printer returns a result printer honoring --json and display.format
func printer(cmd *cobra.Command) *display.Printer {
	return display.NewPrinter(cmd.OutOrStdout(), display.ShouldOutputJSON(cmd))
}

// recentRows is display.recent_rows, or its default if config cannot load
func recentRows() int {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultRecentRows
	}
	return cfg.Display.RecentRows
}
