package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/barista/engine"
)

// PredictCmd forecasts cups sold
var PredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast cups sold for a day",
	Long: `Forecast cups sold from a degree-2 curve fitted to the sales history.

Without --day the day after the last recorded row is forecast.

Examples:
  barista predict
  barista predict --day 10 --json`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	PredictCmd.Flags().IntP("day", "d", 0, "Day index to forecast (default: next day)")
	PredictCmd.Flags().Bool("no-chart", false, "Only print the forecast")
}

func runPredict(cmd *cobra.Command, args []string) error {
	day, _ := cmd.Flags().GetInt("day")
	noChart, _ := cmd.Flags().GetBool("no-chart")

	e, err := openEngine(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if !cmd.Flags().Changed("day") {
		if day, err = e.NextDayIndex(ctx); err != nil {
			return err
		}
	}

	cups, err := e.Predict(ctx, engine.ForecastQuery{DayIndex: day})
	if err != nil {
		return err
	}

	history, err := e.History(ctx)
	if err != nil {
		return err
	}
	if noChart {
		history = nil
	}
	return printer(cmd).Forecast(day, cups, history)
}
