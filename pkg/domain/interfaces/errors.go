package interfaces

import "errors"

// Sentinel errors returned by every repository backend
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)
