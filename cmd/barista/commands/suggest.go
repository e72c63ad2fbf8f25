package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/barista/recommend"
)

// SuggestCmd picks a drink for the weather and taste
var SuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a drink for the weather and taste",
	Long: `Suggest the menu item nearest to a weather and taste preference.

Above 25°C a cold drink is preferred, otherwise a hot one.

Examples:
  barista suggest --temp 32 --taste sweet
  barista suggest --temp 12 --taste bitter --all`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

func init() {
	SuggestCmd.Flags().Float64P("temp", "t", 0, "Outdoor temperature in °C")
	SuggestCmd.Flags().StringP("taste", "s", "", "Preferred taste: sweet or bitter")
	SuggestCmd.Flags().Bool("all", false, "Rank the whole menu instead of picking one drink")
	SuggestCmd.MarkFlagRequired("temp")
	SuggestCmd.MarkFlagRequired("taste")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	temp, _ := cmd.Flags().GetFloat64("temp")
	tasteFlag, _ := cmd.Flags().GetString("taste")
	all, _ := cmd.Flags().GetBool("all")

	taste, err := recommend.ParseTaste(tasteFlag)
	if err != nil {
		return err
	}
	q := recommend.Query{OutdoorTemperature: temp, Taste: taste}

	e, err := openEngine(cmd)
	if err != nil {
		return err
	}

	if all {
		ranked, err := e.Ranked(cmd.Context(), q)
		if err != nil {
			return err
		}
		return printer(cmd).Ranked(q, ranked)
	}

	s, err := e.Suggest(cmd.Context(), q)
	if err != nil {
		return err
	}
	return printer(cmd).Suggestion(q, s)
}
