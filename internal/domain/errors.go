package domain

import "errors"

var (
	// ErrRepositoryNotFound indicates an operation referenced a repository
	// key that was never registered.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrRepositoryNotIndexed indicates a content operation was attempted
	// against a repository that has not reached the ready state.
	ErrRepositoryNotIndexed = errors.New("repository not indexed")

	// ErrInvalidPattern indicates a caller-supplied search or file pattern
	// failed to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownRemote indicates an unrecognized remote kind.
	ErrUnknownRemote = errors.New("unknown remote kind")

	// ErrFileNotFound indicates a path that is not part of the repository index.
	ErrFileNotFound = errors.New("file not found in index")
)
