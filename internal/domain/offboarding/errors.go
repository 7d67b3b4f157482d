package offboarding

import "errors"

var (
	ErrNotFound              = errors.New("exit record not found")
	ErrInvalidOrInactiveUser = errors.New("employee missing or already inactive")
	ErrDuplicateRecord       = errors.New("exit record already exists for employee")
	ErrInvalidDocumentType   = errors.New("unrecognized document type")
	ErrDocumentNotGenerated  = errors.New("document has not been generated")
	ErrDispatchFailed        = errors.New("document dispatch failed")
	ErrAlreadyArchived       = errors.New("exit record already archived")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrVersionConflict       = errors.New("exit record modified concurrently")
)
