package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/barista/sales"
)

// AddCmd records one day of sales
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record cups sold for a day",
	Long: `Record cups sold for a day. The history file is rewritten and the
forecast refit. Duplicate days are kept as separate rows.

Examples:
  barista add --day 6 --cups 41`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	AddCmd.Flags().IntP("day", "d", 0, "Day index (positive)")
	AddCmd.Flags().IntP("cups", "c", 0, "Cups sold (non-negative)")
	AddCmd.MarkFlagRequired("day")
	AddCmd.MarkFlagRequired("cups")
}

func runAdd(cmd *cobra.Command, args []string) error {
	day, _ := cmd.Flags().GetInt("day")
	cups, _ := cmd.Flags().GetInt("cups")

	e, err := openEngine(cmd)
	if err != nil {
		return err
	}
	if err := e.AddData(cmd.Context(), day, cups); err != nil {
		return err
	}

	recent, err := e.Recent(cmd.Context(), recentRows())
	if err != nil {
		return err
	}
	return printer(cmd).Recorded(sales.Observation{DayIndex: day, CupsSold: cups}, recent)
}
