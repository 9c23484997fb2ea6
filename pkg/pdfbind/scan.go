package pdfbind

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Scan walks root depth-first and records every directory that directly
// contains at least one image whose lowercase extension is in exts.
// Directories with no direct images are omitted, even when their
// descendants contain some; each qualifying directory is recorded on its
// own. Children at each level are visited in natural order and every
// recorded image list is re-sorted the same way.
func Scan(root string, exts map[string]bool) (*ScanResult, error) {
	fi, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs %s: %w", root, err)
	}

	res := &ScanResult{}
	// keys are relative to the root's parent, not the root itself
	if err := scanDir(abs, filepath.Dir(abs), exts, res); err != nil {
		return nil, err
	}

	klog.Infof("scan %s: %d folders with images", root, len(res.Folders))
	return res, nil
}

func scanDir(dir, base string, exts map[string]bool, res *ScanResult) error {
	des, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	sort.Slice(des, func(i, j int) bool {
		return NaturalLess(des[i].Name(), des[j].Name())
	})

	var images []ImageEntry
	for _, de := range des {
		p := filepath.Join(dir, de.Name())
		switch {
		case de.IsDir():
			if err := scanDir(p, base, exts, res); err != nil {
				return err
			}
		case de.IsRegular():
			ext := strings.ToLower(filepath.Ext(de.Name()))
			if exts[ext] {
				images = append(images, ImageEntry{Path: p, Name: de.Name(), Ext: ext})
			}
		}
	}

	if len(images) == 0 {
		return nil
	}

	sort.Slice(images, func(i, j int) bool {
		return NaturalLess(images[i].Name, images[j].Name)
	})

	key, err := filepath.Rel(base, dir)
	if err != nil {
		return fmt.Errorf("rel %s: %w", dir, err)
	}

	klog.V(1).Infof("%s: %d images", key, len(images))
	res.Folders = append(res.Folders, Folder{Key: key, Images: images})
	return nil
}
