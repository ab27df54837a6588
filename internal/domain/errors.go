package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a project or sub-record does not exist.
type NotFoundError struct {
	Resource string // "project", "milestone", "change"
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidDocumentError indicates the incoming document failed structural
// validation. The reconciliation transaction aborts with no persisted change.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid incoming document: %s", e.Reason)
}

// IsInvalidDocument reports whether err is an InvalidDocumentError.
func IsInvalidDocument(err error) bool {
	var id *InvalidDocumentError
	return errors.As(err, &id)
}

// EmptyReasonError indicates a change confirmation arrived without the
// required human-supplied reason. The entry is rejected at the boundary and
// never constructed as a Change record.
type EmptyReasonError struct {
	MilestoneName string
}

func (e *EmptyReasonError) Error() string {
	return fmt.Sprintf("change for milestone %q requires a non-empty reason", e.MilestoneName)
}
