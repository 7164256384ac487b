// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrDataAccess matches any DataAccessError via errors.Is.
	ErrDataAccess = errors.New("data access failed")

	// ErrInvalidArgument is returned for out-of-range limits.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DataAccessError reports that a source was unreachable or returned malformed
// rows. The engine surfaces it unchanged and never substitutes zero values for
// a failed fetch.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDataAccess) true for every DataAccessError.
func (e *DataAccessError) Is(target error) bool {
	return target == ErrDataAccess
}

// NewDataAccessError wraps err for operation op. An error that already is a
// DataAccessError is returned as-is so the innermost operation name survives.
func NewDataAccessError(op string, err error) error {
	if err == nil {
		return nil
	}
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Op: op, Err: err}
}

func validateLimit(limit int) error {
	if limit < 1 || limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidArgument, MaxLimit, limit)
	}
	return nil
}
