package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/xuri/excelize/v2"
)

func sampleRoots() []*models.Indicator {
	value := 42.5
	target := 80.0
	return []*models.Indicator{
		{
			Name: "Quality",
			Metrics: []*models.Metric{
				{
					Name:       "Code Coverage %",
					Unit:       "%",
					YAxisLabel: "%",
					Timeseries: []float64{40, 41.5, 42.5},
					Value:      &value,
					Target:     &target,
				},
				{Name: "Open Defects"},
			},
			Children: []*models.Indicator{
				{Name: "Tests & Checks"},
			},
		},
	}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleRoots(), false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"Tests & Checks"`) {
		t.Errorf("expected unescaped ampersand, got %s", data)
	}

	var back []map[string]any
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(back) != 1 || back[0]["indicator"] != "Quality" {
		t.Errorf("unexpected output: %s", data)
	}
}

func TestToJSONPrettyAndEmpty(t *testing.T) {
	data, err := ToJSON(nil, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [] for empty forest, got %s", data)
	}

	data, err = NodeToJSON(sampleRoots()[0].Children[0], true)
	if err != nil {
		t.Fatalf("NodeToJSON failed: %v", err)
	}
	expected := "{\n  \"indicator\": \"Tests & Checks\"\n}"
	if string(data) != expected {
		t.Errorf("got %q, expected %q", data, expected)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(path, sampleRoots(), true); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n  {") {
		t.Errorf("expected indented output, got %q", data[:min(len(data), 20)])
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.xlsx")
	if err := WriteWorkbook(path, sampleRoots(), DefaultWorkbookOptions()); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if !slices.Equal(sheets, []string{MetricsSheet, ChartsSheet}) {
		t.Errorf("unexpected sheets: %v", sheets)
	}

	rows, err := f.GetRows(MetricsSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 metric rows, got %d", len(rows))
	}

	expectedHeader := []string{"Path", "Metric", "Unit", "Y Axis", "Value", "Target", "Sprint 1", "Sprint 2", "Sprint 3"}
	if !slices.Equal(rows[0], expectedHeader) {
		t.Errorf("header = %v, expected %v", rows[0], expectedHeader)
	}
	expectedRow := []string{"Quality", "Code Coverage %", "%", "%", "42.5", "80", "40", "41.5", "42.5"}
	if !slices.Equal(rows[1], expectedRow) {
		t.Errorf("row = %v, expected %v", rows[1], expectedRow)
	}
	if rows[2][1] != "Open Defects" {
		t.Errorf("expected metric without data to be listed, got %v", rows[2])
	}
}

func TestToWorkbookWithoutCharts(t *testing.T) {
	f, err := ToWorkbook(sampleRoots(), WorkbookOptions{})
	if err != nil {
		t.Fatalf("ToWorkbook failed: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); !slices.Equal(sheets, []string{MetricsSheet}) {
		t.Errorf("expected only the metrics sheet, got %v", sheets)
	}
}
