package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	listJSON    bool
	listSummary bool
	filterTag   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes in the workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), withMustExist())
		if err != nil {
			return err
		}

		if listSummary {
			summaries, err := store.Summaries(cmd.Context())
			if err != nil {
				return fmt.Errorf("list summaries: %w", err)
			}
			if listJSON {
				return printJSON(cmd.OutOrStdout(), summaries)
			}
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.ID, s.Title)
			}
			return nil
		}

		notes, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}

		filtered := notes[:0]
		for _, note := range notes {
			if filterTag != "" && !slices.Contains(note.Metadata.Tags, filterTag) {
				continue
			}
			filtered = append(filtered, note)
		}
		if filtered == nil {
			filtered = []core.Note{}
		}

		if listJSON {
			return printJSON(cmd.OutOrStdout(), filtered)
		}
		for _, note := range filtered {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", note.ID, note.Metadata.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listSummary, "summary", false, "List titles from the index without reading bodies")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag")
}
