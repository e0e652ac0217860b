package graph

import (
	"fmt"
	"regexp"
)

// Labels and property keys end up spliced into Cypher text, so they are
// restricted to plain identifiers. Everything else is rejected before any
// query string is built.
var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateLabel checks that label is safe to interpolate into a query:
// non-empty, starts with an ASCII letter, and continues with ASCII
// letters, digits or underscore. This applies to entity labels and
// relationship types alike.
func ValidateLabel(label string) error {
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return nil
}

// validateProperties rejects empty keys, keys outside the identifier
// pattern, and non-scalar values. Property values themselves are always
// parameter-bound, but keys appear in the generated clause text.
func validateProperties(props map[string]any) error {
	for k, v := range props {
		if !labelPattern.MatchString(k) {
			return fmt.Errorf("%w: key %q", ErrInvalidProperty, k)
		}
		switch v.(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
		default:
			return fmt.Errorf("%w: key %q has non-scalar value %T", ErrInvalidProperty, k, v)
		}
	}
	return nil
}
