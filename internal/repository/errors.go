package repository

import "fmt"

// ConnectivityError means the target store could not be reached at the
// start of the run. Always fatal: no remote call is made after it.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("sms: target store unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ValidationError means a record cannot produce a staging row. Per-record:
// the record is skipped and the run continues.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "sms: invalid record: " + e.Reason
}

// InsertError means a staging insert failed. Per-record: the row is skipped
// and the run continues.
type InsertError struct {
	Table string
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("sms: insert into %s failed: %v", e.Table, e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}
