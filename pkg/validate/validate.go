// Package validate wraps github.com/go-playground/validator to enforce the
// struct-tag invariants named in spec §3.2 (drawing number format, machine
// template position format, positive dimensions) instead of scattering
// regexp checks through the codec. Grounded on the teacher's
// common/net/http/withBody.go ValidateStruct/newValidator pattern.
package validate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
	})

	return instance
}

// FieldError is a simplified, dependency-free view of a validator field
// failure, safe to surface to callers outside this package.
type FieldError struct {
	Field string
	Tag   string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s failed %q", f.Field, f.Tag)
}

// Struct validates s against its `validate:"..."` tags and returns the
// failing fields, or nil if s is valid.
func Struct(s any) []FieldError {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Tag: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}

	return out
}

// JoinMessages renders field errors as a single human-readable string.
func JoinMessages(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}

	return strings.Join(parts, "; ")
}
