package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/barista/cmd/barista/commands"
	"github.com/teranos/barista/display"
	"github.com/teranos/barista/logger"
)

var rootCmd = &cobra.Command{
	Use:   "barista",
	Short: "barista - drink suggestions and sales forecasts for a café",
	Long: `barista - drink suggestions and sales forecasts for a café.

Suggests a drink from the weather and a taste preference, and forecasts
cups sold from the recorded sales history.

Available commands:
  suggest  - Suggest a drink for the weather and taste
  predict  - Forecast cups sold for a day
  add      - Record cups sold for a day
  history  - List recorded sales
  menu     - List the menu
  console  - Interactive session
  watch    - Reforecast whenever the sales file is edited
  config   - Manage configuration

Examples:
  barista suggest --temp 31 --taste sweet
  barista predict
  barista add --day 6 --cups 41
  barista config show`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: commands.Setup,
}

func init() {
	commands.AddPersistentFlags(rootCmd)
	commands.AddCommands(rootCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprint(os.Stderr, display.ErrorMessage(err))
		os.Exit(1)
	}
}
