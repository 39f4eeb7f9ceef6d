package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	writeContent string
	writeTitle   string
	writeSet     []string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write [id]",
	Short: "Write a note",
	Long: `Create or update the note with the given ID.
Only the given fields change. --set key=value may be repeated;
tags take a comma separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}

		note, err := store.Get(cmd.Context(), id)
		isNew := errors.Is(err, core.ErrNotFound)
		switch {
		case isNew:
			note = core.Note{ID: id}
		case err != nil:
			return fmt.Errorf("read note: %w", err)
		}

		if cmd.Flags().Changed("content") {
			note.Content = writeContent
		}
		if cmd.Flags().Changed("title") {
			note.Metadata.Title = writeTitle
		}
		for _, kv := range writeSet {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid --set %q, want key=value", kv)
			}
			if key == core.KeyTags {
				note.Metadata.Set(key, strings.Split(value, ","))
				continue
			}
			note.Metadata.Set(key, value)
		}

		if isNew {
			if _, err := store.Create(cmd.Context(), note); err != nil {
				return fmt.Errorf("save note: %w", err)
			}
		} else if err := store.Save(cmd.Context(), note); err != nil {
			return fmt.Errorf("save note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' saved.\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeContent, "content", "", "Note body")
	writeCmd.Flags().StringVar(&writeTitle, "title", "", "Note title")
	writeCmd.Flags().StringArrayVar(&writeSet, "set", nil, "Front-matter field as key=value")
}
