package pdfbind

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"k8s.io/klog/v2"
)

// WriteDocument renders the ordered images into a single PDF at outPath,
// one page per image, each page sized and the image placed per mode.
// The file is validated before the call reports success, so a produced
// document is safe to act on (including deleting its sources).
func WriteDocument(images []ImageEntry, outPath string, mode Mode, pageW, pageH float64) error {
	if len(images) == 0 {
		return ErrNoImages
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(outPath), err)
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for n, img := range images {
		info, err := probeImage(img.Path)
		if err != nil {
			return err
		}

		l := Layout(float64(info.width), float64(info.height), mode, pageW, pageH)
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: l.PageW, Ht: l.PageH})

		name := img.Path
		opts := gofpdf.ImageOptions{ImageType: pdfImageType(info.format)}
		if embeddable(info) {
			doc.RegisterImageOptions(img.Path, opts)
		} else {
			r, err := normalizeImage(img.Path)
			if err != nil {
				return err
			}
			opts.ImageType = "JPG"
			name = fmt.Sprintf("%s#%d", img.Path, n)
			doc.RegisterImageOptionsReader(name, opts, r)
		}

		// layout geometry has a bottom-left origin; gofpdf draws from the
		// top left
		top := l.PageH - (l.Y + l.DrawH)
		doc.ImageOptions(name, l.X, top, l.DrawW, l.DrawH, false, opts, 0, "")
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("render %s: %w", outPath, err)
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	if err := pdfapi.ValidateFile(outPath, nil); err != nil {
		return fmt.Errorf("validate %s: %w", outPath, err)
	}

	klog.V(1).Infof("wrote %s (%d pages)", outPath, len(images))
	return nil
}

// pdfImageType maps a decoder format name to gofpdf's type string. Only
// JPEG and PNG reach the writer as-is; everything else was normalized to
// JPEG first.
func pdfImageType(format string) string {
	if format == "png" {
		return "PNG"
	}
	return "JPG"
}
