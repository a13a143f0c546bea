package painter

import "errors"

var (
	// ErrNoImageSelected is returned when an import is attempted without a
	// source. It is an expected, user-cancellable outcome, not a fault.
	ErrNoImageSelected = errors.New("no image selected")

	// ErrImageNotFound is returned for unknown image IDs.
	ErrImageNotFound = errors.New("image not found")

	// ErrLocked is returned when a geometry edit targets a locked image.
	ErrLocked = errors.New("image is locked")

	// ErrNoSession is returned by Editor.Move and Editor.End without an
	// active drag session.
	ErrNoSession = errors.New("no active drag session")
)
