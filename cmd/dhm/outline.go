package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/dhm-go/pkg/dhm/tree"
)

func newOutlineCmd() *cobra.Command {
	var showPaths bool

	cmd := &cobra.Command{
		Use:   "outline [input.json]",
		Short: "Print the indicator hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := loadTree(cmd, args[0], false, 0)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range tree.Outline(roots) {
				if showPaths {
					fmt.Fprintf(w, "%s\t%s\n", e.Label, e.Path)
					continue
				}
				fmt.Fprintln(w, e.Label)
			}

			stats := tree.Summarize(roots)
			fmt.Fprintf(w, "\n%d indicators, %d metrics, depth %d\n", stats.Nodes, stats.Metrics, stats.MaxDepth)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPaths, "paths", false, "Print each node's path after its label")
	return cmd
}
