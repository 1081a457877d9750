package core

import "fmt"

// ConnectionError is returned when opening the underlying driver connection
// fails. Close failures are swallowed by the lifecycle manager and never
// surface as ConnectionError.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SecurityError is returned when the security provider cannot resolve a
// condition for a table.
type SecurityError struct {
	Table string
	Err   error
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security condition lookup for table %q failed: %v", e.Table, e.Err)
}

func (e *SecurityError) Unwrap() error { return e.Err }

// CommandError is returned when a single-row insert, update, or delete
// affects zero rows. The caller's intent was exactly one row, so a silent
// no-op is surfaced as a failure.
type CommandError struct {
	Op    string
	Table string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s on table %q affected no rows", e.Op, e.Table)
}

// DriverError wraps an opaque failure from the driver layer.
type DriverError struct {
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver error: %v", e.Err)
}

func (e *DriverError) Unwrap() error { return e.Err }
