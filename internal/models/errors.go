package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput is matched by errors for unknown or empty component types and languages
	ErrInvalidInput = errors.New("invalid input")
	// ErrGeneration is matched by errors returned when the component generator fails
	ErrGeneration = errors.New("component generation failed")
	// ErrAdmissionTimeout is matched when no generation slot frees up in time
	ErrAdmissionTimeout = errors.New("admission timeout")
)

// InvalidInputError reports which request field was rejected
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// GenerationError wraps a generator failure for a cache key
type GenerationError struct {
	Key CacheKey
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Key, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// AdmissionTimeoutError is returned when the limiter could not admit work within Timeout
type AdmissionTimeoutError struct {
	Timeout time.Duration
}

func (e *AdmissionTimeoutError) Error() string {
	return fmt.Sprintf("no generation slot available within %s", e.Timeout)
}

func (e *AdmissionTimeoutError) Is(target error) bool { return target == ErrAdmissionTimeout }
