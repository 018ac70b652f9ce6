package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one config entry that failed shape validation (§4.A
// "Reject entries failing shape validation").
type ValidationError struct {
	Server  string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("server %q: %s", e.Server, e.Message)
}

// ValidationErrors collects every ValidationError found during a single transform
// pass, so the caller sees every problem at once instead of failing on the first.
type ValidationErrors struct {
	Errors []ValidationError
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "no configuration errors"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}
	parts := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d configuration errors: %s", len(ve.Errors), strings.Join(parts, "; "))
}

func (ve *ValidationErrors) Add(server, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Server: server, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}
