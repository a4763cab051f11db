package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/policy"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
	configx "github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/config"
)

var (
	objectivesJSON string
	cliDetails     statex.FixedDetails

	instructionsCmd = &cobra.Command{
		Use:   "instructions",
		Short: "Print the instruction the agent would get for a set of objectives",
		Long: `Evaluates the instruction policy against an objective snapshot given as a
JSON object, for example --objectives '{"name_confirmed":"yes"}'. Call details
default to the CALL_* environment and can be overridden with flags.`,
		Args: cobra.NoArgs,
		RunE: runInstructions,
	}
)

func init() {
	rootCmd.AddCommand(instructionsCmd)
	instructionsCmd.Flags().StringVarP(&objectivesJSON, "objectives", "o", "{}", "objective snapshot as a JSON object")
	instructionsCmd.Flags().StringVar(&cliDetails.ProspectName, "prospect-name", "", "prospect name")
	instructionsCmd.Flags().StringVar(&cliDetails.ProspectCompanyName, "prospect-company", "", "prospect company name")
	instructionsCmd.Flags().StringVar(&cliDetails.ProspectBusinessTitle, "prospect-title", "", "prospect business title")
	instructionsCmd.Flags().StringVar(&cliDetails.CustomerName, "customer-name", "", "customer name")
}

func runInstructions(cmd *cobra.Command, _ []string) error {
	defaults, err := configx.New[statex.FixedDetails]("CALL")
	if err != nil {
		return err
	}
	details := cliDetails.Merge(*defaults)

	var raw map[string]any
	if err := json.Unmarshal([]byte(objectivesJSON), &raw); err != nil {
		return fmt.Errorf("parse --objectives: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	store := statex.NewObjectiveStore()
	for _, name := range names {
		store.Set(name, raw[name])
	}

	inst, err := policy.NewEngine().Synthesize(cmd.Context(), details, store.Snapshot())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "stage:    %s\n", inst.Stage)
	fmt.Fprintf(out, "requests: %s\n", strings.Join(inst.Requests, ", "))
	fmt.Fprintf(out, "terminal: %t\n\n", inst.Terminal)
	fmt.Fprintln(out, inst.Text)
	return nil
}
