package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), withMustExist())
		if err != nil {
			return err
		}

		location, err := store.Locate(args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(cmd.Context(), location); err != nil {
			return fmt.Errorf("delete note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' deleted.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
