package main

import (
	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the store and the workspace as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}

		state := map[string]any{
			ws.ComponentType(): ws.State(),
		}
		repo := ws.Repository()
		if intro, ok := repo.(introspection.Introspectable); ok {
			name := "repository"
			if c, ok := repo.(introspection.Component); ok {
				name = c.ComponentType()
			}
			state[name] = intro.State()
		}
		return printJSON(cmd.OutOrStdout(), state)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
