package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bundleValidate checks SignalBundle struct tags. validator.Validate caches
// struct metadata and is safe for concurrent use.
var bundleValidate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError reports every malformed field of a SignalBundle at once.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return "invalid signal bundle: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error { return e.err }

// Validate checks that the bundle is structurally valid: no negative counts,
// a close ratio within [0,100] and a non-negative README length.
func (b *SignalBundle) Validate() error {
	if b == nil {
		return &ValidationError{Fields: []string{"bundle is nil"}}
	}
	err := bundleValidate.Struct(b)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating signal bundle: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s: %v fails %s", fieldPath(fe.Namespace()), fe.Value(), describeTag(fe)))
	}
	return &ValidationError{Fields: fields, err: err}
}

// fieldPath trims the leading type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return ">= " + fe.Param()
	case "lte":
		return "<= " + fe.Param()
	default:
		return fe.Tag()
	}
}
