// Package pdfbind turns directory trees of images into grouped, paginated
// PDF documents.
package pdfbind

// ImageEntry is one discovered image file.
type ImageEntry struct {
	Path string // absolute path
	Name string // base name
	Ext  string // lowercase extension, with the dot
}

// Folder is a directory that directly contains at least one qualifying
// image. Key is the directory's path relative to the scan root's parent,
// so the selected root folder name survives into output naming.
type Folder struct {
	Key    string
	Images []ImageEntry
}

// ScanResult holds every recorded folder, in traversal order.
type ScanResult struct {
	Folders []Folder
}

// Group is a named, ordered set of images destined for a single PDF.
// Fallback marks the bucket of images no pattern matched while at least
// one sibling image did match; its document is routed differently from
// named groups, and a captured name that merely ends in "_other" is not
// confused with it.
type Group struct {
	Name     string
	Images   []ImageEntry
	Fallback bool
}
