package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/availability"
)

var probeCmd = &cobra.Command{
	Use:   "probe [date]",
	Short: "Show the demo slots offered for a date",
	Long: `Runs the availability check the agent uses for checkDesiredDate and prints
the JSON it would receive. Accepts RFC 3339 timestamps or YYYY-MM-DD.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := calendarLocation()
		if err != nil {
			return err
		}
		probe := availability.New(loc)
		if _, err := probe.ParseDate(args[0]); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}

		raw, err := json.MarshalIndent(probe.CheckRaw(args[0]), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
