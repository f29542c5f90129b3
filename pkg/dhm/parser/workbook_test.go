package parser

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/output"
	"github.com/ukaji3/dhm-go/pkg/dhm/tree"
	"github.com/xuri/excelize/v2"
)

func TestReadWorkbook(t *testing.T) {
	value := 7.5
	roots := []*models.Indicator{
		{
			Name:    "Delivery Health",
			Metrics: []*models.Metric{{Name: "Team Score", Unit: "score", YAxisLabel: "Score (0–10)", Timeseries: []float64{6, 7.5}, Value: &value}},
			Children: []*models.Indicator{
				{Name: "Flow", Metrics: []*models.Metric{{Name: "Open Items"}}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := output.WriteWorkbook(path, roots, output.DefaultWorkbookOptions()); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	got, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook failed: %v", err)
	}

	var paths []string
	for _, e := range tree.Outline(got) {
		paths = append(paths, e.Path)
	}
	if !slices.Equal(paths, []string{"Delivery Health", "Delivery Health/Flow"}) {
		t.Errorf("unexpected nodes: %v", paths)
	}

	m := got[0].Metrics[0]
	if m.Name != "Team Score" || m.Unit != "score" || m.YAxisLabel != "Score (0–10)" {
		t.Errorf("unexpected metric: %+v", m)
	}
	if m.Value == nil || *m.Value != 7.5 || m.Target != nil {
		t.Errorf("unexpected value/target: %v / %v", m.Value, m.Target)
	}
	if !slices.Equal(m.Timeseries, []float64{6, 7.5}) {
		t.Errorf("unexpected series: %v", m.Timeseries)
	}

	if empty := got[0].Children[0].Metrics[0]; empty.HasData() || empty.Value != nil {
		t.Errorf("metric without data should stay empty, got %+v", empty)
	}
}

func TestExtractTreeInvalidNumber(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", output.MetricsSheet); err != nil {
		t.Fatal(err)
	}
	f.SetSheetRow(output.MetricsSheet, "A1", &[]interface{}{"Path", "Metric", "Unit", "Y Axis", "Value", "Target", "Sprint 1"})
	f.SetSheetRow(output.MetricsSheet, "A2", &[]interface{}{"Root", "Broken", "", "", "", "", "lots"})

	if _, err := ExtractTree(f); err == nil {
		t.Errorf("expected error for a non-numeric sprint value")
	}
}

func TestEnsureNode(t *testing.T) {
	var roots []*models.Indicator
	a := ensureNode(&roots, "A/B")
	b := ensureNode(&roots, "A/B")
	c := ensureNode(&roots, "C")

	if a != b {
		t.Errorf("same path should resolve to the same node")
	}
	if len(roots) != 2 || roots[0].Name != "A" || c.Name != "C" {
		t.Errorf("unexpected roots: %+v", roots)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0] != a {
		t.Errorf("expected B under A")
	}
}

func TestReadWorkbookKeepsUnusualNames(t *testing.T) {
	roots := []*models.Indicator{
		{Name: "", Metrics: []*models.Metric{{Name: "Story Count", Timeseries: []float64{3, 4}}}},
		{
			Name:    "CI/CD Pipeline",
			Metrics: []*models.Metric{{Name: "Build Duration"}},
			Children: []*models.Indicator{
				{Name: "Deploys ~ Prod", Metrics: []*models.Metric{{Name: " Lead Time "}}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := output.WriteWorkbook(path, roots, output.DefaultWorkbookOptions()); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}
	got, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook failed: %v", err)
	}

	if before, after := tree.Summarize(roots), tree.Summarize(got); before != after {
		t.Errorf("shape changed: before %+v, after %+v", before, after)
	}

	type entry struct{ Path, Metric string }
	list := func(roots []*models.Indicator) []entry {
		var entries []entry
		for _, ref := range tree.Metrics(roots) {
			entries = append(entries, entry{ref.Path, ref.Metric.Name})
		}
		return entries
	}
	if diff := cmp.Diff(list(roots), list(got)); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
	if len(got) != 2 || got[0].Name != "" || got[1].Name != "CI/CD Pipeline" {
		t.Errorf("unexpected roots: %+v", got)
	}
}
