package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/dhm-go/pkg/dhm/output"
	"github.com/ukaji3/dhm-go/pkg/dhm/parser"
	"go.uber.org/zap"
)

func newImportCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
	)

	cmd := &cobra.Command{
		Use:   "import [input.xlsx]",
		Short: "Rebuild a tree from the Metrics sheet of an exported workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pretty") {
				pretty = cfg.Pretty
			}

			roots, err := parser.ReadWorkbook(args[0])
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			logger.Debug("Imported workbook", zap.String("input", args[0]), zap.Int("roots", len(roots)))

			if outputPath != "" {
				return output.WriteJSON(outputPath, roots, pretty)
			}
			data, err := output.ToJSON(roots, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "Pretty-print JSON output")
	return cmd
}
