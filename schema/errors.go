package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidKeyType indicates an unknown collection type tag.
	ErrInvalidKeyType = errors.New("invalid key type")
	// ErrInvalidOp indicates an unknown notification operation.
	ErrInvalidOp = errors.New("invalid operation")
	// ErrInvalidServer indicates an empty or malformed server name.
	ErrInvalidServer = errors.New("invalid server")
	// ErrTabNotFound indicates a requested tab could not be found.
	ErrTabNotFound = errors.New("tab not found")
)
