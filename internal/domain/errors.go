package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotPeriodTaken is returned when a snapshot already exists for the ISO week
	ErrSnapshotPeriodTaken = errors.New("snapshot already exists for this period")
	// ErrSnapshotOutOfOrder is returned when a snapshot is not newer than the latest one
	ErrSnapshotOutOfOrder = errors.New("snapshot timestamp is not after the latest snapshot")
	// ErrRefreshInProgress is returned when a refresh is triggered while one is running
	ErrRefreshInProgress = errors.New("refresh already in progress")
	// ErrNoResult is returned when no successful refresh has completed yet
	ErrNoResult = errors.New("no valuation result available")
	// ErrStaleResult is returned when the latest result belongs to an earlier snapshot period
	ErrStaleResult = errors.New("latest valuation result is from an earlier period, refresh first")
)

// ConfigError reports a malformed holdings configuration or engine input.
// It fails the whole refresh.
type ConfigError struct {
	Field  string
	Code   string // instrument code, empty when not tied to one holding
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("config error: %s: %s %s", e.Code, e.Field, e.Reason)
	}
	return fmt.Sprintf("config error: %s %s", e.Field, e.Reason)
}

// RangeError reports an input value outside its domain, such as a negative price
type RangeError struct {
	Field string
	Code  string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value out of range: %s %s = %g", e.Code, e.Field, e.Value)
}

// IsFatal reports whether err must fail a refresh rather than degrade a metric
func IsFatal(err error) bool {
	var cfgErr *ConfigError
	var rangeErr *RangeError
	return errors.As(err, &cfgErr) || errors.As(err, &rangeErr)
}

// IsConfigError reports whether err wraps a ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
