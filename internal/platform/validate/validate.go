// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Handlers use it for request shape checks; services reuse it for the rules
// they must re-check on every write (handle length, link syntax).
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// Length fails if the Unicode character count is outside [min, max].
func (v *Validator) Length(field, value string, min, max int) *Validator {
	count := utf8.RuneCountInString(value)
	if count < min || count > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d characters", min, max))
	}
	return v
}

// Email fails unless the value is a bare RFC 5322 address. Display-name
// forms such as "Uni <a@b.edu>" are rejected.
func (v *Validator) Email(field, value string) *Validator {
	if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// URL fails if the value is not a syntactically valid URL.
// Scheme-less hosts such as "example.edu" are accepted.
func (v *Validator) URL(field, value string) *Validator {
	if !govalidator.IsURL(value) {
		v.add(field, "Not a valid URL")
	}
	return v
}

// OptionalURL applies [Validator.URL] only to present, non-empty values.
func (v *Validator) OptionalURL(field string, value *string) *Validator {
	if value != nil && *value != "" {
		v.URL(field, *value)
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("schools", len(schools) == 0, "Schools field is required")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// FieldFailure creates a VALIDATION_ERROR for a single field.
func FieldFailure(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
