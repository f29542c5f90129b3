// Package parser reads indicator trees back from exported workbooks.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/output"
	"github.com/ukaji3/dhm-go/pkg/dhm/tree"
	"github.com/xuri/excelize/v2"
)

// Column positions (0-based) on the Metrics sheet.
const (
	colPath = iota
	colMetric
	colUnit
	colLabel
	colValue
	colTarget
	colSeries
)

// ReadWorkbook rebuilds a tree from the Metrics sheet of a workbook written
// by output.WriteWorkbook. Every row below the header is one metric, and
// nodes are recreated from the Path column, so nodes without metrics are
// not recoverable.
func ReadWorkbook(path string) ([]*models.Indicator, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ExtractTree(f)
}

// ExtractTree rebuilds a tree from an open workbook.
func ExtractTree(f *excelize.File) ([]*models.Indicator, error) {
	rows, err := f.GetRows(output.MetricsSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", output.MetricsSheet)
	}

	var roots []*models.Indicator
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		m, err := parseMetricRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		n := ensureNode(&roots, cell(row, colPath))
		n.Metrics = append(n.Metrics, m)
	}
	return roots, nil
}

func parseMetricRow(row []string) (*models.Metric, error) {
	m := &models.Metric{
		Name:       cell(row, colMetric),
		Unit:       cell(row, colUnit),
		YAxisLabel: cell(row, colLabel),
	}

	var err error
	if m.Value, err = parseOptional(cell(row, colValue)); err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	if m.Target, err = parseOptional(cell(row, colTarget)); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	for col := colSeries; col < len(row); col++ {
		if row[col] == "" {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("sprint %d: %w", col-colSeries+1, err)
		}
		m.Timeseries = append(m.Timeseries, v)
	}
	return m, nil
}

// ensureNode returns the node at path, creating it and any missing ancestors.
func ensureNode(roots *[]*models.Indicator, path string) *models.Indicator {
	nodes := roots
	var n *models.Indicator
	for _, name := range tree.Split(path) {
		n = nil
		for _, c := range *nodes {
			if c.Name == name {
				n = c
				break
			}
		}
		if n == nil {
			n = &models.Indicator{Name: name}
			*nodes = append(*nodes, n)
		}
		nodes = &n.Children
	}
	return n
}

// cell returns the value at col, or "" past the end of a trimmed row.
func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func parseOptional(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
