package trend

import (
	"errors"
	"fmt"
)

// ErrNoData means every row was discarded during cleaning: the station has
// nothing to analyze for the configured columns. A valid outcome, not a
// malformed input.
var ErrNoData = errors.New("no usable observations after cleaning")

// ConfigurationError reports a required column missing from the input table.
// The estimator never guesses substitute columns.
type ConfigurationError struct {
	Column string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("required column %q not present in table", e.Column)
}

// InsufficientDataError reports a depth band with too few points to fit a
// trend. Recoverable: the sibling band is still processed.
type InsufficientDataError struct {
	Band   Band
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("band %q has %d point(s), need at least 2 for a trend fit", e.Band, e.Points)
}
