package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrMissingTextField = errors.New("text field missing from metadata")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrNoEmbedder       = errors.New("no embedding provider configured")
	ErrUnsupportedDSN   = errors.New("unsupported database DSN")
	ErrToolNotFound     = errors.New("tool not found")
)

// StoreError annotates a failure with the adapter operation and namespace it happened in.
type StoreError struct {
	Op        string
	Namespace string
	Err       error
	Context   map[string]any
}

func (e *StoreError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("%s [namespace=%s]: %v", e.Op, e.Namespace, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op, namespace string, err error) *StoreError {
	return &StoreError{Op: op, Namespace: namespace, Err: err}
}

func WithContext(err *StoreError, key string, val any) *StoreError {
	if err.Context == nil {
		err.Context = make(map[string]any)
	}
	err.Context[key] = val
	return err
}
