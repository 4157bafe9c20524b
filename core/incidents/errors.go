package incidents

import "fmt"

// ValidationError covers a missing required field and store-level rejection
// of the incident row (foreign-key violation on the attack type).
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid incident: field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid incident: field %s is required", e.Field)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AttachmentError is raised when blob storage or the batched incident_files
// insert fails. Saved lists blobs already written to disk at the point of
// failure; those are orphans until the sweep collects them.
type AttachmentError struct {
	Saved []string
	Err   error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("persist attachments (%d blobs stored): %v", len(e.Saved), e.Err)
}

func (e *AttachmentError) Unwrap() error { return e.Err }
