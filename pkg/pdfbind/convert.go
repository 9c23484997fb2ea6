package pdfbind

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

const otherSuffix = "_other"

// ProgressFunc is invoked exactly once per group, synchronously and in
// order, after that group's attempt concludes. outPath is empty when the
// group failed; err is nil when it succeeded.
type ProgressFunc func(done, total int, outPath string, err error)

// ConvertOptions controls a batch conversion.
type ConvertOptions struct {
	// OutDir overrides where documents are written. When empty, each
	// document lands next to its images: inside the source folder, or in
	// its parent for an "_other" fallback group so it cannot collide with
	// the matched-pattern document of the same folder.
	OutDir string

	Mode         Mode
	PageW, PageH float64 // nominal page size; A4 when zero

	// DeleteAfter removes each group's source images once its document
	// has been written and validated, then removes the source directory
	// if that left it empty. Both are best-effort.
	DeleteAfter bool

	// ArchiveDir copies a group's sources here before DeleteAfter removes
	// them. A failed archive suppresses the deletion.
	ArchiveDir string

	// FullName joins all path segments of the group name with hyphens
	// instead of using only the last one.
	FullName bool
}

// ConvertAll renders every group to a PDF, in the given order, tolerating
// per-group failure: a failed group is reported through progress and the
// batch moves on. The returned slice holds the output paths of the groups
// that succeeded, in completion order.
func ConvertAll(groups []Group, opts ConvertOptions, progress ProgressFunc) ([]string, error) {
	if len(groups) == 0 {
		return nil, ErrEmptyBatch
	}

	if opts.PageW == 0 || opts.PageH == 0 {
		opts.PageW, opts.PageH = A4Width, A4Height
	}

	var created []string
	total := len(groups)

	for n, g := range groups {
		if len(g.Images) == 0 {
			continue
		}

		outPath, err := convertGroup(g, opts)
		if err != nil {
			klog.Errorf("convert %s: %v", g.Name, err)
			if progress != nil {
				progress(n+1, total, "", err)
			}
			continue
		}

		created = append(created, outPath)
		if opts.DeleteAfter {
			cleanupSources(g, opts.ArchiveDir)
		}
		if progress != nil {
			progress(n+1, total, outPath, nil)
		}
	}

	return created, nil
}

func convertGroup(g Group, opts ConvertOptions) (string, error) {
	outDir, err := outputDir(g, opts.OutDir)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(outDir, outputName(g.Name, opts.FullName)+".pdf")
	klog.Infof("converting %s: %d images -> %s", g.Name, len(g.Images), outPath)

	if err := WriteDocument(g.Images, outPath, opts.Mode, opts.PageW, opts.PageH); err != nil {
		// no partial documents
		if rerr := os.Remove(outPath); rerr != nil && !os.IsNotExist(rerr) {
			klog.Warningf("remove partial %s: %v", outPath, rerr)
		}
		return "", err
	}
	return outPath, nil
}

// outputDir decides where a group's document goes: the explicit override
// when given, otherwise derived from where the images actually live.
func outputDir(g Group, override string) (string, error) {
	if override != "" {
		if err := os.MkdirAll(override, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", override, err)
		}
		return override, nil
	}

	actual := filepath.Dir(g.Images[0].Path)
	if g.Fallback {
		return filepath.Dir(actual), nil
	}
	return actual, nil
}

// outputName derives the document base name from a group name, which may
// contain path separators when it came from a folder key.
func outputName(group string, full bool) string {
	parts := strings.Split(group, string(filepath.Separator))
	if full {
		return strings.Join(parts, "-")
	}
	return parts[len(parts)-1]
}

// cleanupSources archives and deletes a converted group's images and, when
// their directory ends up empty, the directory itself. Every failure here
// is logged and swallowed: the document already exists and must not be
// considered lost.
func cleanupSources(g Group, archiveDir string) {
	if archiveDir != "" {
		for _, img := range g.Images {
			dst := filepath.Join(archiveDir, g.Name, img.Name)
			if err := copy.Copy(img.Path, dst); err != nil {
				klog.Warningf("archive %s: %v; keeping sources", img.Path, err)
				return
			}
		}
	}

	for _, img := range g.Images {
		if err := os.Remove(img.Path); err != nil {
			klog.Warningf("delete %s: %v", img.Path, err)
		}
	}

	dir := filepath.Dir(g.Images[0].Path)
	des, err := os.ReadDir(dir)
	if err != nil || len(des) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil {
		klog.Warningf("remove dir %s: %v", dir, err)
	}
}
