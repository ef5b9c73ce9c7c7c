package services

import "fmt"

// DocumentParseError means the upload could not be read or rendered as a PDF.
type DocumentParseError struct {
	Message string
	Cause   error
}

func (e *DocumentParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document parse error: %s", e.Message)
}

func (e *DocumentParseError) Unwrap() error {
	return e.Cause
}

// EmptyDocumentError means the PDF parsed but has no pages.
type EmptyDocumentError struct{}

func (e *EmptyDocumentError) Error() string {
	return "document has no pages"
}

// TransientInferenceError is returned once every attempt against the model
// has failed. Its message is the message of the last attempt.
type TransientInferenceError struct {
	Attempts int
	Err      error
}

func (e *TransientInferenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("inference failed after %d attempts", e.Attempts)
	}
	return e.Err.Error()
}

func (e *TransientInferenceError) Unwrap() error {
	return e.Err
}

type UnknownModeError struct {
	Mode string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown analysis mode: %q", e.Mode)
}

// UploadError rejects an upload before any parsing happens.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("invalid upload: %s", e.Message)
}
