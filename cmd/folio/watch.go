package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/adapters/lifecycle"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print note changes as they happen",
	Long: `Watch the workspace root and print one line per note change
("CREATE id", "MODIFY id", "DELETE id") until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, withMustExist())
		if err != nil {
			return err
		}

		events, err := store.Watch(ctx, watchPattern)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}

		source := lifecycle.NewSource(events)
		if err := source.Start(ctx); err != nil {
			return err
		}
		for e := range source.Events() {
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Only report file names matching this glob (e.g. \"daily-*.md\")")
}
