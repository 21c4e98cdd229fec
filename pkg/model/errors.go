package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error tags distinguish the two error kinds at adapter boundaries.
// Validation errors never reach the network; provider errors always do.
var (
	TagValidation = goerr.NewTag("validation")
	TagProvider   = goerr.NewTag("provider")
)

// NewValidationError creates a local precondition failure (empty input,
// too-few items, oversized file, duplicate entry).
func NewValidationError(msg string, options ...goerr.Option) error {
	return goerr.New(msg, append(options, goerr.T(TagValidation))...)
}

// NewProviderError creates a normalized external-call failure. The message
// is the generic user-facing string; the original cause is logged by the
// caller, not carried here.
func NewProviderError(msg string, options ...goerr.Option) error {
	return goerr.New(msg, append(options, goerr.T(TagProvider))...)
}

// IsValidation reports whether err is a local precondition failure.
func IsValidation(err error) bool {
	return goerr.HasTag(err, TagValidation)
}

// IsProvider reports whether err is a normalized external-call failure.
func IsProvider(err error) bool {
	return goerr.HasTag(err, TagProvider)
}
