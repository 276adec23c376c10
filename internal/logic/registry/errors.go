package registry

import "errors"

// ErrVersionConflict is returned by CompareAndSwap when the registry changed since the given version.
var ErrVersionConflict = errors.New("registry version conflict")
