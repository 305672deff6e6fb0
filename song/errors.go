package song

import "fmt"

// NormalizationError reports a required canonical field that is still
// missing after the foreign record has been mapped through the field table.
type NormalizationError struct {
	Field string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization error: required field %q missing after mapping", e.Field)
}

// CastError reports a value that could not be parsed into the target type
// of its canonical field.
type CastError struct {
	Field    string
	Value    string
	Original error
}

func (e *CastError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("cast error: field %q value %q: %v", e.Field, e.Value, e.Original)
	}
	return fmt.Sprintf("cast error: field %q value %q", e.Field, e.Value)
}

func (e *CastError) Unwrap() error {
	return e.Original
}
