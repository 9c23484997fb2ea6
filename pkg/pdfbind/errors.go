package pdfbind

import "errors"

// Error kinds, usable with errors.Is. Scan and pattern errors abort the
// whole operation; decode and write errors abort only the group they
// occur in.
var (
	ErrNotFound      = errors.New("path does not exist")
	ErrNotADirectory = errors.New("path is not a directory")
	ErrBadPattern    = errors.New("invalid grouping pattern")
	ErrEmptyBatch    = errors.New("no groups to convert")
	ErrNoImages      = errors.New("no images to render")
	ErrDecode        = errors.New("image decode failed")
)
