package main

import (
	"os"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/config"
	logx "github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/logger"
)

var (
	envFile string

	rootCmd = &cobra.Command{
		Use:   "callagent",
		Short: "Objective tracking and instruction service for outbound C2FO sales calls",
		Long: `callagent launches voice calls, tracks the objectives the agent resolves
during the call and answers its tool callbacks with the next instruction.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(envFile)
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			logx.Init(*logCfg)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
