package types

import "errors"

// Serialization errors. Both are fatal: the first signals an entity model
// without a matching wire rule, the second a folder list that contradicts
// the entity's multiple-folders setting.
var (
	ErrUnsupportedValue = errors.New("unsupported field value shape")
	ErrTooManyFolders   = errors.New("too many folders: multiple folders are not allowed")
)

// Parse errors.
var (
	ErrEmptyDocument   = errors.New("empty document")
	ErrInvalidDocument = errors.New("invalid document")
)

// Model errors.
var (
	ErrReferenceMismatch = errors.New("entity does not match reference")
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrInvalidFixture    = errors.New("invalid entity fixture")
)

// ErrRemote wraps non-success responses returned through a transport.
var ErrRemote = errors.New("remote call failed")

// ErrMissingID is returned by operations that address an existing entity
// when the entity has no id yet.
var ErrMissingID = errors.New("entity has no id")

// Capture store errors.
var (
	ErrCaptureNotFound = errors.New("capture not found")
	ErrStoreClosed     = errors.New("capture store is closed")
)
