package cmd

import (
	"github.com/spf13/cobra"
	"github.com/stratastor/warren/cmd/config"
	"github.com/stratastor/warren/cmd/health"
	"github.com/stratastor/warren/cmd/logs"
	"github.com/stratastor/warren/cmd/serve"
	"github.com/stratastor/warren/cmd/status"
	"github.com/stratastor/warren/cmd/version"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "warren",
		Short: "Warren: jail orchestration daemon",
	}

	rootCmd.AddCommand(serve.NewServeCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(health.NewHealthCmd())
	rootCmd.AddCommand(status.NewStatusCmd())
	rootCmd.AddCommand(logs.NewLogsCmd())
	rootCmd.AddCommand(config.NewConfigCmd())

	return rootCmd
}
