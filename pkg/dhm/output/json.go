// Package output serializes indicator trees.
package output

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
)

// ToJSON serializes roots. Pretty output is indented by two spaces.
func ToJSON(roots []*models.Indicator, pretty bool) ([]byte, error) {
	if roots == nil {
		roots = []*models.Indicator{}
	}
	return encode(roots, pretty)
}

// NodeToJSON serializes a single indicator subtree.
func NodeToJSON(n *models.Indicator, pretty bool) ([]byte, error) {
	return encode(n, pretty)
}

func encode(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON serializes roots and writes them to path. The file is only
// created once serialization succeeded.
func WriteJSON(path string, roots []*models.Indicator, pretty bool) error {
	data, err := ToJSON(roots, pretty)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
