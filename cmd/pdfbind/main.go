package main

import (
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"
	"github.com/pdfbind/pdfbind/pkg/pdfbind"
	"github.com/pdfbind/pdfbind/pkg/settings"
)

var (
	inDir       = flag.String("in", "", "directory tree to scan for images")
	outDir      = flag.String("out", "", "directory to write PDFs to (default: next to the images)")
	configPath  = flag.String("config", "", "settings file location (default: <user config dir>/pdfbind/config.json)")
	patternFlag = flag.String("pattern", "", "grouping regexp override; a named capture selects the PDF name")
	pageFlag    = flag.String("page", "", `fixed page size as "WIDTHxHEIGHT" in points (implies a fixed page; default A4)`)
	fitPage     = flag.Bool("fit-page-to-image", false, "size each page to its image, overriding the settings file")
	noFit       = flag.Bool("no-fit", false, "with a fixed page, draw images at original size instead of fitting")
	deleteAfter = flag.Bool("delete", false, "delete source images after a successful conversion")
	archiveDir  = flag.String("archive", "", "copy source images here before --delete removes them")
	fullName    = flag.Bool("full-name", false, "include the full folder path in PDF names")
	watchFlag   = flag.Bool("watch", false, "watch the input tree for changes and reconvert")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *inDir == "" {
		klog.Exitf("--in is a required flag")
	}

	cfgFile := *configPath
	if cfgFile == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			klog.Exitf("user config dir: %v", err)
		}
		cfgFile = filepath.Join(base, "pdfbind", "config.json")
	}
	cfg := settings.Load(cfgFile).Config

	if err := run(cfg); err != nil {
		klog.Exitf("convert failed: %v", err)
	}

	if *watchFlag {
		if err := watch(cfg); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
	}
}

// run performs one scan → group → convert cycle.
func run(cfg *settings.Config) error {
	exprs := cfg.EnabledPatterns()
	if *patternFlag != "" {
		exprs = []string{*patternFlag}
	}

	rules, err := pdfbind.CompileRules(exprs)
	if err != nil {
		return err
	}

	res, err := pdfbind.Scan(*inDir, cfg.Extensions())
	if err != nil {
		return err
	}
	if len(res.Folders) == 0 {
		klog.Warningf("no images found under %s", *inDir)
		return nil
	}

	var groups []pdfbind.Group
	for _, f := range res.Folders {
		groups = append(groups, pdfbind.GroupImages(f.Key, f.Images, rules)...)
	}

	opts := pdfbind.ConvertOptions{
		OutDir:      *outDir,
		Mode:        mode(cfg),
		DeleteAfter: *deleteAfter,
		ArchiveDir:  *archiveDir,
		FullName:    *fullName,
	}
	if *pageFlag != "" {
		w, h, err := pdfbind.ParsePageSize(*pageFlag)
		if err != nil {
			return err
		}
		opts.PageW, opts.PageH = w, h
	}

	failed := 0
	created, err := pdfbind.ConvertAll(groups, opts, func(done, total int, outPath string, err error) {
		if err != nil {
			failed++
			klog.Errorf("[%d/%d] failed: %v", done, total, err)
			return
		}
		klog.Infof("[%d/%d] %s", done, total, outPath)
	})
	if err != nil {
		return err
	}

	klog.Infof("created %d PDFs, %d groups failed", len(created), failed)
	return nil
}

func mode(cfg *settings.Config) pdfbind.Mode {
	switch {
	case *noFit:
		return pdfbind.FixedNoFit
	case *fitPage:
		return pdfbind.FitPageToImage
	case *pageFlag != "", !cfg.FitPageToImage:
		return pdfbind.FixedFit
	default:
		return pdfbind.FitPageToImage
	}
}

// shouldReconvert reports whether a changed path warrants a rebuild. Only
// supported image files count: the conversion writes its PDFs into the
// watched folders, and reacting to those would retrigger it forever.
func shouldReconvert(name string, exts map[string]bool) bool {
	return exts[strings.ToLower(filepath.Ext(name))]
}

// watch watches the input tree for changes and reconverts
func watch(cfg *settings.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	exts := cfg.Extensions()
	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !shouldReconvert(event.Name, exts) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					klog.Infof("change detected: %s", event)
					if err := run(cfg); err != nil {
						klog.Errorf("reconvert failed: %v", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				klog.Errorf("watch error: %v", err)
			}
		}
	}()

	dirs := []string{*inDir}
	res, err := pdfbind.Scan(*inDir, cfg.Extensions())
	if err == nil {
		for _, f := range res.Folders {
			dirs = append(dirs, filepath.Dir(f.Images[0].Path))
		}
	}

	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
	}

	<-make(chan struct{})
	return nil
}
