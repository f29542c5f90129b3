package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/dhm-go/pkg/dhm/models"
)

func sampleRoots() []*models.Indicator {
	return []*models.Indicator{
		{
			Name: "Delivery Health",
			Metrics: []*models.Metric{
				{Name: "Total Work in Progress"},
			},
			Children: []*models.Indicator{
				{
					Name: "Flow",
					Metrics: []*models.Metric{
						{Name: "Average Cycle Time (Days)"},
						{Name: "% Carry-over"},
					},
					Children: []*models.Indicator{
						{Name: "Blockers", Metrics: []*models.Metric{{Name: "# of Blocked Items"}}},
					},
				},
				{Name: "Quality"},
			},
		},
		{
			Name:    "Team",
			Metrics: []*models.Metric{{Name: "BAU Interrupt %"}},
		},
	}
}

func TestWalkPreOrder(t *testing.T) {
	type visit struct {
		Path  string
		Depth int
	}
	var got []visit
	err := Walk(sampleRoots(), func(path string, depth int, _ *models.Indicator) error {
		got = append(got, visit{path, depth})
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	expected := []visit{
		{"Delivery Health", 0},
		{"Delivery Health/Flow", 1},
		{"Delivery Health/Flow/Blockers", 2},
		{"Delivery Health/Quality", 1},
		{"Team", 0},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSkipChildrenAndStop(t *testing.T) {
	var paths []string
	_ = Walk(sampleRoots(), func(path string, _ int, n *models.Indicator) error {
		paths = append(paths, path)
		if n.Name == "Flow" {
			return SkipChildren
		}
		return nil
	})
	expected := []string{"Delivery Health", "Delivery Health/Flow", "Delivery Health/Quality", "Team"}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("SkipChildren mismatch (-want +got):\n%s", diff)
	}

	stop := errors.New("stop")
	count := 0
	err := Walk(sampleRoots(), func(string, int, *models.Indicator) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) || count != 1 {
		t.Errorf("expected walk to stop after first node, got err=%v count=%d", err, count)
	}
}

func TestMetrics(t *testing.T) {
	var got []string
	for _, ref := range Metrics(sampleRoots()) {
		got = append(got, ref.Path+": "+ref.Metric.Name)
	}
	expected := []string{
		"Delivery Health: Total Work in Progress",
		"Delivery Health/Flow: Average Cycle Time (Days)",
		"Delivery Health/Flow: % Carry-over",
		"Delivery Health/Flow/Blockers: # of Blocked Items",
		"Team: BAU Interrupt %",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestFindNode(t *testing.T) {
	roots := sampleRoots()
	tests := []struct {
		path     string
		expected string
	}{
		{"", "Delivery Health"},
		{"Delivery Health/Flow/Blockers", "Blockers"},
		{"Delivery Health/Quality/", "Delivery Health"},
		{"Team", "Team"},
		{"Delivery Health/Missing", "Delivery Health"},
		{"Nope", "Delivery Health"},
	}
	for _, tt := range tests {
		n := FindNode(roots, tt.path)
		if n == nil || n.Name != tt.expected {
			t.Errorf("FindNode(%q) = %v, expected %q", tt.path, n, tt.expected)
		}
	}

	if n := FindNode(nil, "x"); n != nil {
		t.Errorf("expected nil for empty forest, got %v", n)
	}
}

func TestLookup(t *testing.T) {
	roots := sampleRoots()
	if n, ok := Lookup(roots, "Delivery Health/Flow"); !ok || n.Name != "Flow" {
		t.Errorf("expected to resolve Flow, got %v, %v", n, ok)
	}
	if _, ok := Lookup(roots, "Delivery Health/Missing"); ok {
		t.Errorf("expected unresolved path")
	}
	if _, ok := Lookup(roots, ""); ok {
		t.Errorf("expected empty path to be unresolved")
	}
}

func TestJoinAndSplit(t *testing.T) {
	tests := []struct {
		names []string
		path  string
	}{
		{[]string{"Delivery Health", "Flow"}, "Delivery Health/Flow"},
		{[]string{"CI/CD Pipeline"}, "CI~1CD Pipeline"},
		{[]string{"Team ~ Ops", "a/b~c"}, "Team ~0 Ops/a~1b~0c"},
		{[]string{""}, ""},
		{[]string{"", "Child"}, "/Child"},
		{[]string{"~1"}, "~01"},
	}
	for _, tt := range tests {
		if got := Join(tt.names...); got != tt.path {
			t.Errorf("Join(%q) = %q, expected %q", tt.names, got, tt.path)
		}
		if diff := cmp.Diff(tt.names, Split(tt.path)); diff != "" {
			t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.path, diff)
		}
	}
}

func TestPathsWithSeparatorInNames(t *testing.T) {
	roots := []*models.Indicator{
		{Name: "Team"},
		{Name: "", Children: []*models.Indicator{{Name: "Orphan"}}},
		{Name: "CI/CD Pipeline", Children: []*models.Indicator{{Name: "Build"}}},
	}

	var paths []string
	_ = Walk(roots, func(path string, _ int, _ *models.Indicator) error {
		paths = append(paths, path)
		return nil
	})
	expected := []string{"Team", "", "/Orphan", "CI~1CD Pipeline", "CI~1CD Pipeline/Build"}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	for _, path := range paths {
		n, ok := Lookup(roots, path)
		if !ok {
			t.Errorf("Lookup(%q) did not resolve", path)
			continue
		}
		if got := FindNode(roots, path); path != "" && got != n {
			t.Errorf("FindNode(%q) = %q, expected %q", path, got.Name, n.Name)
		}
	}
	if n, ok := Lookup(roots, "CI~1CD Pipeline/Build"); !ok || n.Name != "Build" {
		t.Errorf("expected to resolve Build under CI/CD Pipeline, got %v", n)
	}
	if _, ok := Lookup(roots, "CI/CD Pipeline"); ok {
		t.Errorf("an unescaped separator should not resolve")
	}
}

func TestFindAndPickMetric(t *testing.T) {
	roots := sampleRoots()

	ref, ok := FindMetric(roots, "CYCLE TIME")
	if !ok || ref.Metric.Name != "Average Cycle Time (Days)" || ref.Path != "Delivery Health/Flow" {
		t.Errorf("FindMetric(cycle time) = %+v, %v", ref, ok)
	}

	if _, ok := FindMetric(roots, "estimation"); ok {
		t.Errorf("expected no match for estimation")
	}

	ref, ok = PickMetric(roots, "estimation")
	if !ok || ref.Metric.Name != "Total Work in Progress" {
		t.Errorf("PickMetric should fall back to the first metric, got %+v", ref)
	}

	if _, ok := PickMetric([]*models.Indicator{{Name: "Empty"}}, "x"); ok {
		t.Errorf("expected no pick from a tree without metrics")
	}
}

func TestSearchMetrics(t *testing.T) {
	refs := SearchMetrics(sampleRoots(), "%")
	if len(refs) != 2 {
		t.Fatalf("expected 2 matches for %%, got %d", len(refs))
	}
	if all := SearchMetrics(sampleRoots(), ""); len(all) != 5 {
		t.Errorf("empty keyword should match all 5 metrics, got %d", len(all))
	}
}

func TestSummarize(t *testing.T) {
	expected := Stats{Nodes: 5, Metrics: 5, MaxDepth: 2}
	if got := Summarize(sampleRoots()); got != expected {
		t.Errorf("Summarize = %+v, expected %+v", got, expected)
	}
}

func TestOutline(t *testing.T) {
	got := Outline(sampleRoots())
	expected := []Entry{
		{Path: "Delivery Health", Depth: 0, Label: "▶ Delivery Health", HasChildren: true},
		{Path: "Delivery Health/Flow", Depth: 1, Label: "    ▶ Flow", HasChildren: true},
		{Path: "Delivery Health/Flow/Blockers", Depth: 2, Label: "        • Blockers"},
		{Path: "Delivery Health/Quality", Depth: 1, Label: "    • Quality"},
		{Path: "Team", Depth: 0, Label: "• Team"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Outline mismatch (-want +got):\n%s", diff)
	}
}
