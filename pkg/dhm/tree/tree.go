// Package tree provides traversal and lookup over indicator trees.
package tree

import (
	"errors"
	"strings"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
)

// Separator joins indicator names into a path. Inside a name, "~" is
// written as "~0" and the separator as "~1", so every name survives a
// round trip through a path.
const Separator = "/"

var (
	escaper   = strings.NewReplacer("~", "~0", Separator, "~1")
	unescaper = strings.NewReplacer("~1", Separator, "~0", "~")
)

// SkipChildren can be returned by a WalkFunc to skip a node's children.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node. path is the chain of escaped
// indicator names from the root, depth is 0 for roots.
type WalkFunc func(path string, depth int, n *models.Indicator) error

// Walk visits roots and their descendants in pre-order. It stops at the
// first error returned by fn other than SkipChildren.
func Walk(roots []*models.Indicator, fn WalkFunc) error {
	for _, n := range roots {
		if err := walk(n, EscapeName(n.Name), 0, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(n *models.Indicator, path string, depth int, fn WalkFunc) error {
	if err := fn(path, depth, n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range n.Children {
		if err := walk(c, path+Separator+EscapeName(c.Name), depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// EscapeName encodes one indicator name as a path segment.
func EscapeName(name string) string {
	return escaper.Replace(name)
}

// Join builds the path of the node reached through names, root first.
func Join(names ...string) string {
	segs := make([]string, len(names))
	for i, name := range names {
		segs[i] = EscapeName(name)
	}
	return strings.Join(segs, Separator)
}

// Split is the inverse of Join. The empty path is the single empty name.
func Split(path string) []string {
	segs := strings.Split(path, Separator)
	for i, seg := range segs {
		segs[i] = unescaper.Replace(seg)
	}
	return segs
}

// MetricRef is a metric together with the path of its owning node.
type MetricRef struct {
	Path   string
	Metric *models.Metric
}

// Metrics flattens all metrics, each node's own metrics before its children's.
func Metrics(roots []*models.Indicator) []MetricRef {
	var refs []MetricRef
	_ = Walk(roots, func(path string, _ int, n *models.Indicator) error {
		for _, m := range n.Metrics {
			refs = append(refs, MetricRef{Path: path, Metric: m})
		}
		return nil
	})
	return refs
}

// FindNode resolves a path built by Join. An empty or unresolvable path
// yields the first root; no roots yields nil.
func FindNode(roots []*models.Indicator, path string) *models.Indicator {
	if len(roots) == 0 {
		return nil
	}
	if path == "" {
		return roots[0]
	}
	if n := lookup(roots, Split(path)); n != nil {
		return n
	}
	return roots[0]
}

// Lookup is like FindNode but reports whether path resolved exactly.
// The empty path resolves only to an unnamed root.
func Lookup(roots []*models.Indicator, path string) (*models.Indicator, bool) {
	n := lookup(roots, Split(path))
	return n, n != nil
}

func lookup(nodes []*models.Indicator, parts []string) *models.Indicator {
	for _, n := range nodes {
		if n.Name != parts[0] {
			continue
		}
		if len(parts) == 1 {
			return n
		}
		return lookup(n.Children, parts[1:])
	}
	return nil
}

// FindMetric returns the first metric whose name contains keyword,
// ignoring case.
func FindMetric(roots []*models.Indicator, keyword string) (MetricRef, bool) {
	refs := SearchMetrics(roots, keyword)
	if len(refs) == 0 {
		return MetricRef{}, false
	}
	return refs[0], true
}

// PickMetric is like FindMetric but falls back to the first metric of the
// tree when nothing matches. It reports false only for a tree without metrics.
func PickMetric(roots []*models.Indicator, keyword string) (MetricRef, bool) {
	if ref, ok := FindMetric(roots, keyword); ok {
		return ref, true
	}
	all := Metrics(roots)
	if len(all) == 0 {
		return MetricRef{}, false
	}
	return all[0], true
}

// SearchMetrics returns every metric whose name contains keyword, ignoring
// case. An empty keyword matches everything.
func SearchMetrics(roots []*models.Indicator, keyword string) []MetricRef {
	kw := strings.ToLower(keyword)
	var refs []MetricRef
	for _, ref := range Metrics(roots) {
		if strings.Contains(strings.ToLower(ref.Metric.Name), kw) {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Stats summarizes the size of a tree.
type Stats struct {
	Nodes    int `json:"nodes"`
	Metrics  int `json:"metrics"`
	MaxDepth int `json:"max_depth"`
}

// Summarize counts nodes and metrics. MaxDepth is 0 for a forest of leaves.
func Summarize(roots []*models.Indicator) Stats {
	var s Stats
	_ = Walk(roots, func(_ string, depth int, n *models.Indicator) error {
		s.Nodes++
		s.Metrics += len(n.Metrics)
		s.MaxDepth = max(s.MaxDepth, depth)
		return nil
	})
	return s
}
