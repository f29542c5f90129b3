package output

import (
	"fmt"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/tree"
	"github.com/ukaji3/dhm-go/pkg/dhm/units"
	"github.com/xuri/excelize/v2"
)

const (
	// MetricsSheet holds one row per metric.
	MetricsSheet = "Metrics"
	// ChartsSheet holds one line chart per metric with data.
	ChartsSheet = "Charts"

	// seriesCol is the first column (1-based) holding series values.
	seriesCol = 7

	chartWidth   = 480
	chartHeight  = 240
	rowsPerChart = 14
)

var metricHeaders = []string{"Path", "Metric", "Unit", "Y Axis", "Value", "Target"}

// WorkbookOptions configures workbook export.
type WorkbookOptions struct {
	// Charts adds the Charts sheet.
	Charts bool
	// Inferencer bounds chart y axes by each metric's inferred range.
	// If nil, axes scale automatically.
	Inferencer *units.Inferencer
}

// DefaultWorkbookOptions returns options with charts bounded by the
// default unit rules.
func DefaultWorkbookOptions() WorkbookOptions {
	return WorkbookOptions{
		Charts:     true,
		Inferencer: units.Default(),
	}
}

// ToWorkbook lays out every metric of roots in a new workbook.
// The caller must Close the returned file.
func ToWorkbook(roots []*models.Indicator, opts WorkbookOptions) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), MetricsSheet); err != nil {
		f.Close()
		return nil, err
	}

	refs := tree.Metrics(roots)
	points := 0
	for _, ref := range refs {
		points = max(points, len(ref.Metric.Timeseries))
	}

	if err := writeMetricRows(f, refs, points); err != nil {
		f.Close()
		return nil, err
	}

	if opts.Charts {
		if _, err := f.NewSheet(ChartsSheet); err != nil {
			f.Close()
			return nil, err
		}
		if err := addCharts(f, refs, points, opts.Inferencer); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteWorkbook exports roots to an xlsx file at path.
func WriteWorkbook(path string, roots []*models.Indicator, opts WorkbookOptions) error {
	f, err := ToWorkbook(roots, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func writeMetricRows(f *excelize.File, refs []tree.MetricRef, points int) error {
	header := make([]interface{}, 0, len(metricHeaders)+points)
	for _, h := range metricHeaders {
		header = append(header, h)
	}
	for i := 1; i <= points; i++ {
		header = append(header, fmt.Sprintf("Sprint %d", i))
	}
	if err := f.SetSheetRow(MetricsSheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(MetricsSheet, "A1", lastHeader, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(MetricsSheet, "A", "B", 36); err != nil {
		return err
	}

	for i, ref := range refs {
		m := ref.Metric
		row := []interface{}{ref.Path, m.Name, m.Unit, m.YAxisLabel, nil, nil}
		if m.Value != nil {
			row[4] = *m.Value
		}
		if m.Target != nil {
			row[5] = *m.Target
		}
		for _, v := range m.Timeseries {
			row = append(row, v)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(MetricsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func addCharts(f *excelize.File, refs []tree.MetricRef, points int, inf *units.Inferencer) error {
	if points == 0 {
		return nil
	}
	categories, err := sheetRange(1, seriesCol, seriesCol+points-1)
	if err != nil {
		return err
	}

	placed := 0
	for i, ref := range refs {
		m := ref.Metric
		if !m.HasData() {
			continue
		}
		row := i + 2

		name, err := excelize.CoordinatesToCellName(2, row, true)
		if err != nil {
			return err
		}
		values, err := sheetRange(row, seriesCol, seriesCol+len(m.Timeseries)-1)
		if err != nil {
			return err
		}

		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       MetricsSheet + "!" + name,
				Categories: categories,
				Values:     values,
				Line:       excelize.ChartLine{Smooth: true},
			}},
			Title:     []excelize.RichTextRun{{Text: m.Name}},
			Legend:    excelize.ChartLegend{Position: "none"},
			XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Sprint"}}},
			YAxis:     yAxis(m, inf),
			Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
		}

		anchor, err := excelize.CoordinatesToCellName(1, 1+placed*rowsPerChart)
		if err != nil {
			return err
		}
		if err := f.AddChart(ChartsSheet, anchor, chart); err != nil {
			return fmt.Errorf("chart for %q: %w", m.Name, err)
		}
		placed++
	}
	return nil
}

// yAxis bounds the axis by the metric's inferred range when the metric
// still carries the inferred unit.
func yAxis(m *models.Metric, inf *units.Inferencer) excelize.ChartAxis {
	axis := excelize.ChartAxis{
		MajorGridLines: true,
		Title:          []excelize.RichTextRun{{Text: m.YAxisLabel}},
	}
	if inf == nil {
		return axis
	}
	spec := inf.Infer(m.Name)
	if string(spec.Unit) != m.Unit {
		return axis
	}
	axis.Minimum = &spec.Min
	axis.Maximum = &spec.Max
	return axis
}

// sheetRange returns an absolute single-row range on the Metrics sheet.
func sheetRange(row, fromCol, toCol int) (string, error) {
	from, err := excelize.CoordinatesToCellName(fromCol, row, true)
	if err != nil {
		return "", err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!%s:%s", MetricsSheet, from, to), nil
}
