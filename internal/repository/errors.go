package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a storage uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("repository: duplicate record")
	// ErrUnavailable signals a transient backend failure; callers may retry the whole operation.
	ErrUnavailable = errors.New("repository: store unavailable")
)
