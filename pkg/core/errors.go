package core

import "errors"

// Common errors.
var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrReadOnly     = errors.New("notebook is in read-only mode")
	ErrEmptyID      = errors.New("id cannot be empty")
	ErrDuplicateTag = errors.New("tag id already exists")
)
