package apperr

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromOzzo converts an ozzo-validation error into a ValidationError
// carrying the first offending field (fields sorted for determinism).
// Returns nil when err is nil.
func FromOzzo(err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return Validation("", err.Error())
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	if len(fields) == 0 {
		return Validation("", err.Error())
	}
	f := fields[0]
	return Validation(f, errs[f].Error())
}
