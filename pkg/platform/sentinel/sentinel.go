package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and publishers return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: document does not exist in the store
//   - ErrConflict: a conditional write lost to an existing document
//   - ErrUnavailable: backend or broker temporarily unavailable
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
