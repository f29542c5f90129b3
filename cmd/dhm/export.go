package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/dhm-go/pkg/dhm/output"
	"go.uber.org/zap"
)

func newExportCmd() *cobra.Command {
	var (
		outputPath string
		generate   bool
		noCharts   bool
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "export [input.json]",
		Short: "Export metrics to an xlsx workbook with one chart per metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return errors.New("--output is required")
			}

			roots, err := loadTree(cmd, args[0], generate, seed)
			if err != nil {
				return err
			}

			opts := output.DefaultWorkbookOptions()
			opts.Charts = !noCharts
			if err := output.WriteWorkbook(outputPath, roots, opts); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			logger.Info("Wrote workbook", zap.String("output", outputPath), zap.Bool("charts", opts.Charts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output workbook path (.xlsx)")
	cmd.Flags().BoolVar(&generate, "generate", false, "Regenerate series before exporting")
	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "Skip the Charts sheet")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed used with --generate")
	return cmd
}
