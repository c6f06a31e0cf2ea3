package reconcile

import "fmt"

// ReconciliationError reports a record whose mutation could not be applied.
// The record's transaction has been rolled back when this is returned.
type ReconciliationError struct {
	Code string
	Err  error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile product %s: %v", e.Code, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
