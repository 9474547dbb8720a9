package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Load Errors.

	// ErrUnsupportedFormat indicates the file extension is not in the image allow-list.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrDecode indicates the file could not be decoded as an image.
	ErrDecode = errors.New("image decode failed")

	// ErrUnreadable indicates the file exists but cannot be read
	// (a directory, missing permissions, an I/O error).
	ErrUnreadable = errors.New("image unreadable")

	// Detection Errors.

	// ErrNoArrows indicates the arrow detector found no arrows.
	// Extraction continues in diagrams-only mode.
	ErrNoArrows = errors.New("no arrows found")

	// ErrNoDiagrams indicates the unified detector found no diagrams.
	// Extraction of that image stops.
	ErrNoDiagrams = errors.New("no diagrams found")

	// ErrInference indicates a model server call failed.
	ErrInference = errors.New("inference failed")

	// ErrUpsample indicates super-resolution failed for a view.
	ErrUpsample = errors.New("upsample failed")

	// Startup Errors.

	// ErrModelLoad indicates a required model could not be initialised.
	// It is fatal for the whole run.
	ErrModelLoad = errors.New("model load failed")

	// ErrOutputDirRequired indicates directory extraction was requested
	// without an output directory.
	ErrOutputDirRequired = errors.New("output directory required for directory extraction")
)

// IsLoadFailure reports whether err means the source image cannot be processed
// at all (missing, unreadable, unsupported or undecodable file).
func IsLoadFailure(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrUnreadable) ||
		errors.Is(err, ErrNotFound)
}
