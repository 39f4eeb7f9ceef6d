package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|system]",
	Short:     "Show or change the workspace theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(core.ThemeLight), string(core.ThemeDark), string(core.ThemeSystem)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			if err := ws.SetTheme(cmd.Context(), core.Theme(args[0])); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), ws.Theme())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
