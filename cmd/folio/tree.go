package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/workspace"
)

var treeJSON bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print notes nested under their parents",
	Long: `Print every note once, newest first, indented under its parent.
Notes whose parent is missing or part of a cycle are printed at the top level.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}

		tree := ws.Tree()
		if treeJSON {
			return printJSON(cmd.OutOrStdout(), tree)
		}
		printTree(cmd.OutOrStdout(), tree, 0)
		return nil
	},
}

func printTree(w io.Writer, nodes []workspace.Node, depth int) {
	for _, n := range nodes {
		title := n.Note.Metadata.Title
		if title == "" {
			title = workspace.DefaultTitle
		}
		fmt.Fprintf(w, "%s%s %s (%s)\n", strings.Repeat("  ", depth), n.Note.Metadata.Emoji, title, n.Note.ID)
		printTree(w, n.Children, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Output in JSON format")
}
