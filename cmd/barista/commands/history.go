package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/barista/engine"
)

// HistoryCmd lists recorded sales
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sales",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

// MenuCmd lists the drinks
var MenuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List the menu with taste attributes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := engineOptions(cmd)
		if err != nil {
			return err
		}
		return printer(cmd).Menu(engine.New(opts).Menu())
	},
}

func init() {
	HistoryCmd.Flags().IntP("limit", "n", 0, "Only show the last N rows (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	e, err := openEngine(cmd)
	if err != nil {
		return err
	}

	if limit > 0 {
		recent, err := e.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printer(cmd).History(recent)
	}

	history, err := e.History(cmd.Context())
	if err != nil {
		return err
	}
	return printer(cmd).History(history)
}
