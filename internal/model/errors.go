package model

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrInvalidDate       = errors.New("invalid date")
	ErrWriteFailed       = errors.New("write failed")
	ErrIncompleteRoster  = errors.New("incomplete roster")
	ErrArchiveFailed     = errors.New("archive failed")
)

// MigrationError reports a fatal failure and the state the run was in.
type MigrationError struct {
	State State
	Err   error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration failed while %s: %v", e.State, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}
