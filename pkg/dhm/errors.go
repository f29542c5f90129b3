package dhm

import (
	"errors"
	"fmt"

	"github.com/ukaji3/dhm-go/pkg/dhm/units"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a JSON list of indicators.
var ErrInvalidFormat = errors.New("invalid tree format")

// ProcessingError reports a metric whose series could not be generated,
// with the unit rule and value domain that were inferred for it.
type ProcessingError struct {
	Path   string // escaped node path, see tree.Join
	Metric string
	Rule   string // "" when no rule matched and the fallback applied
	Spec   units.Spec
	Err    error
}

func (e *ProcessingError) Error() string {
	rule := e.Rule
	if rule == "" {
		rule = "fallback"
	}
	return fmt.Sprintf("%s: metric %q (%s rule, range [%v, %v]): %v",
		e.Path, e.Metric, rule, e.Spec.Min, e.Spec.Max, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
