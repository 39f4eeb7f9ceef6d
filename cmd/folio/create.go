package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createTitle  string
	createParent string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty note",
	Long:  `Create a note with a generated ID, optionally under a parent note. Prints the new ID.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}

		note, ok := ws.Create(cmd.Context(), createParent)
		if !ok {
			return errors.New("create note failed, see log")
		}
		if createTitle != "" {
			note.Metadata.Title = createTitle
			if err := ws.Update(cmd.Context(), note); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createTitle, "title", "", "Note title")
	createCmd.Flags().StringVar(&createParent, "parent", "", "Parent note ID")
}
