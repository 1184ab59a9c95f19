package processing

import "errors"

// Upstream image-generation failures, classified so an operator can tell a
// bad key from an exhausted quota from a transient limit.
var (
	ErrCredential  = errors.New("image generator rejected credentials")
	ErrQuota       = errors.New("image generator quota exhausted")
	ErrRateLimited = errors.New("image generator rate limited")
	ErrUpstream    = errors.New("image generator request failed")
	ErrUnreachable = errors.New("image generator unreachable")
)
