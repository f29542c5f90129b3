package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/dhm-go/pkg/dhm"
	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/output"
	"go.uber.org/zap"
)

func newGenerateCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "generate [input.json]",
		Short: "Fill every metric of an indicator tree with a synthetic series",
		Long: `generate infers each metric's unit and range from its name, draws a
12-sprint series within that range, and writes the tree back out with unit,
y_axis_label, timeseries and value overwritten. Other fields are preserved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pretty") {
				pretty = cfg.Pretty
			}

			roots, err := loadTree(cmd, args[0], true, seed)
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := output.WriteJSON(outputPath, roots, pretty); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				logger.Info("Wrote enhanced tree", zap.String("output", outputPath))
				return nil
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
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for reproducible series (default: config seed, else random)")
	return cmd
}

// runOptions builds generation options from flags, falling back to config.
func runOptions(cmd *cobra.Command, seed uint64) dhm.Options {
	opts := dhm.DefaultOptions()
	opts.Logger = logger
	switch {
	case cmd.Flags().Changed("seed"):
		opts = opts.WithSeed(seed)
	case cfg.Seed != nil:
		opts = opts.WithSeed(*cfg.Seed)
	}
	return opts
}

// loadTree reads an input tree, optionally regenerating its series first.
func loadTree(cmd *cobra.Command, path string, generate bool, seed uint64) ([]*models.Indicator, error) {
	roots, err := dhm.Load(path)
	if err != nil {
		return nil, err
	}
	if generate {
		if _, err := dhm.Enhance(roots, runOptions(cmd, seed)); err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
	}
	return roots, nil
}
