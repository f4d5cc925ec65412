package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// UpstreamError wraps a failure of the backing store while it was producing
// designs.
type UpstreamError struct {
	Op   string
	Code string // SQLSTATE when the driver reported one
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store: %s failed (sqlstate %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(op string, err error) error {
	ue := &UpstreamError{Op: op, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		ue.Code = string(pqErr.Code)
	}
	return ue
}
