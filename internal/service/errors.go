package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes and response error codes.
var (
	ErrNotFound           = errors.New("record not found")
	ErrNameTaken          = errors.New("name already exists")
	ErrInUse              = errors.New("record is referenced by students")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InUseError carries the live student count that blocked a permanent delete.
type InUseError struct {
	Count int
}

func (e *InUseError) Error() string {
	return "record is referenced by students"
}

func (e *InUseError) Is(target error) bool {
	return target == ErrInUse
}
