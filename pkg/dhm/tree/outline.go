package tree

import (
	"strings"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
)

// Entry is one line of a navigation outline.
type Entry struct {
	// Path is the node path, usable with FindNode.
	Path string `json:"path"`
	// Depth is 0 for roots.
	Depth int `json:"depth"`
	// Label is the indented display label.
	Label string `json:"label"`
	// HasChildren reports whether the node has children.
	HasChildren bool `json:"has_children"`
}

const (
	branchIcon = "▶ "
	leafIcon   = "• "
	indent     = "    "
)

// Outline lists every node in pre-order with an indented label that shows
// the hierarchy.
func Outline(roots []*models.Indicator) []Entry {
	var entries []Entry
	_ = Walk(roots, func(path string, depth int, n *models.Indicator) error {
		icon := leafIcon
		if len(n.Children) > 0 {
			icon = branchIcon
		}
		entries = append(entries, Entry{
			Path:        path,
			Depth:       depth,
			Label:       strings.Repeat(indent, depth) + icon + n.Name,
			HasChildren: len(n.Children) > 0,
		})
		return nil
	})
	return entries
}
