package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a note",
	Long:  `Read a note by its ID. Outputs the markdown body by default, or a JSON object with --json.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), withMustExist())
		if err != nil {
			return err
		}

		note, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("read note: %w", err)
		}

		if readJSON {
			return printJSON(cmd.OutOrStdout(), note)
		}
		fmt.Fprint(cmd.OutOrStdout(), note.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
