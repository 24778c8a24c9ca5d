package runner

import "errors"

// Errors used by the package.
var (
	ErrShardNotFound  = errors.New("shard not found")
	ErrNotStarted     = errors.New("sharder is not started")
	ErrAlreadyStarted = errors.New("sharder is already started")
)
