package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/report"
	"github.com/ukaji3/dhm-go/pkg/dhm/tree"
)

var (
	goodColor    = color.New(color.FgGreen, color.Bold)
	badColor     = color.New(color.FgRed, color.Bold)
	neutralColor = color.New(color.Faint)
	titleColor   = color.New(color.FgCyan, color.Bold)
)

func newShowCmd() *cobra.Command {
	var (
		path    string
		keyword string
	)

	cmd := &cobra.Command{
		Use:   "show [input.json]",
		Short: "Print an indicator with its metric cards",
		Long: `show prints the indicator at --path (default: the first root) with its
description, data source, metric cards and children. With --metric it prints
the first metric whose name contains the keyword instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := loadTree(cmd, args[0], false, 0)
			if err != nil {
				return err
			}
			direction := report.NewDirection(cfg.LowerIsBetter)
			w := cmd.OutOrStdout()

			if keyword != "" {
				ref, ok := tree.FindMetric(roots, keyword)
				if !ok {
					return fmt.Errorf("no metric matches %q", keyword)
				}
				fmt.Fprintf(w, "%s\n", neutralColor.Sprint(ref.Path))
				printCard(w, report.NewCard(ref.Metric, direction.HigherIsBetter(ref.Metric.Name)), ref.Metric)
				return nil
			}

			n := tree.FindNode(roots, path)
			if n == nil {
				return fmt.Errorf("%s contains no indicators", args[0])
			}
			printNode(w, n, direction)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Indicator path, names joined by / (write / inside a name as ~1, ~ as ~0)")
	cmd.Flags().StringVar(&keyword, "metric", "", "Show the first metric whose name contains this keyword")
	return cmd
}

func printNode(w io.Writer, n *models.Indicator, direction report.Direction) {
	fmt.Fprintln(w, titleColor.Sprint(n.Name))
	if n.Description != "" {
		fmt.Fprintln(w, n.Description)
	}
	if n.DataSource != "" {
		fmt.Fprintf(w, "Data source: %s\n", n.DataSource)
	}

	if len(n.Metrics) > 0 {
		fmt.Fprintln(w, "\nMetrics:")
		for _, m := range n.Metrics {
			printCard(w, report.NewCard(m, direction.HigherIsBetter(m.Name)), m)
		}
	}

	if len(n.Children) > 0 {
		names := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			names = append(names, c.Name)
		}
		fmt.Fprintf(w, "\nChildren: %s\n", strings.Join(names, ", "))
	}
}

func printCard(w io.Writer, c report.Card, m *models.Metric) {
	fmt.Fprintf(w, "  %s\n", c.Name)
	if !c.HasData {
		fmt.Fprintln(w, "    No data for this metric.")
		return
	}

	trendColor := neutralColor
	switch {
	case c.Good:
		trendColor = goodColor
	case c.Trend != report.TrendNeutral:
		trendColor = badColor
	}
	fmt.Fprintf(w, "    %s %s (vs start)\n", c.Value, trendColor.Sprint(strings.TrimSpace(c.Trend.Arrow()+" "+c.Delta)))
	fmt.Fprintf(w, "    %s: %s\n", c.YAxisLabel, formatSeries(m.Timeseries))
	if c.Target != nil {
		fmt.Fprintf(w, "    Target: %g\n", *c.Target)
	}
}

func formatSeries(points []float64) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return strings.Join(parts, " ")
}
