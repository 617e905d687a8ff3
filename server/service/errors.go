package service

import "fmt"

type ErrorKind string

const (
	KindRejectedInput       ErrorKind = "rejected_input"
	KindStorageWriteFailed  ErrorKind = "storage_write_failed"
	KindMetadataWriteFailed ErrorKind = "metadata_write_failed"
)

// Error tags a terminal pipeline failure with its taxonomy kind. Message is
// safe to show callers; Cause carries the underlying error for the log.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func rejectedInput(message string) *Error {
	return &Error{Kind: KindRejectedInput, Message: message}
}

func storageWriteFailed(cause error) *Error {
	return &Error{Kind: KindStorageWriteFailed, Message: "object storage rejected the upload", Cause: cause}
}

func metadataWriteFailed(cause error) *Error {
	return &Error{Kind: KindMetadataWriteFailed, Message: "could not record file metadata", Cause: cause}
}
