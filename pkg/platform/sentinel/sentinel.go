package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the upload file store
// return these (usually wrapped) and services translate them into domain
// errors:
//   - ErrNotFound: the case, document or stored file does not exist
//   - ErrInvalidState: a stored path or record is not where it should be
//
// For bad input use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)
