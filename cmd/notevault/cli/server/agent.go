package server

import (
	"fmt"

	"github.com/mwantia/notevault/internal/agent"
	"github.com/spf13/cobra"

	config "github.com/mwantia/notevault/internal/config/server"
)

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Start the NoteVault agent",
		Long: `Start the NoteVault agent.

The agent opens and migrates the metadata database, connects the configured
blob store and serves Prometheus metrics when metrics.address is set. It runs
until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			agent := agent.NewAgent(cfg)
			if err := agent.Serve(cmd.Context()); err != nil {
				return err
			}

			return nil
		},
	}

	return cmd
}
