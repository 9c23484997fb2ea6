package pdfbind

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how each image is placed on its page.
type Mode int

const (
	// FitPageToImage sizes every page exactly to its image: no margins,
	// no scaling, one page size per image.
	FitPageToImage Mode = iota
	// FixedFit uses the nominal page size and scales the image to fit,
	// preserving aspect ratio and centering on both axes.
	FixedFit
	// FixedNoFit uses the nominal page size and draws the image at its
	// original pixel size, top edge anchored to the page top. Images
	// larger than the page overflow.
	FixedNoFit
)

// A4 page dimensions in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// ParsePageSize parses a nominal page size given as "WIDTHxHEIGHT" in
// points, e.g. "595.28x841.89".
func ParsePageSize(s string) (w, h float64, err error) {
	a, b, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		w, err = strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err == nil {
			h, err = strconv.ParseFloat(strings.TrimSpace(b), 64)
		}
	}
	if !ok || err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid page size %q (want WIDTHxHEIGHT in points)", s)
	}
	return w, h, nil
}

// PageLayout is the geometry for one page: the page dimensions plus the
// image draw rectangle, in points, with a bottom-left origin as in the PDF
// imaging model.
type PageLayout struct {
	PageW, PageH float64
	X, Y         float64
	DrawW, DrawH float64
}

// Layout computes the page geometry for a single image of imgW x imgH
// pixels. pageW and pageH are the nominal page size, ignored by
// [FitPageToImage].
func Layout(imgW, imgH float64, mode Mode, pageW, pageH float64) PageLayout {
	switch mode {
	case FixedFit:
		l := PageLayout{PageW: pageW, PageH: pageH}
		imageAspect := imgW / imgH
		pageAspect := pageW / pageH
		if imageAspect >= pageAspect {
			// width-bound; equal aspects land here too
			l.DrawW = pageW
			l.DrawH = pageW / imageAspect
		} else {
			l.DrawH = pageH
			l.DrawW = pageH * imageAspect
		}
		l.X = (pageW - l.DrawW) / 2
		l.Y = (pageH - l.DrawH) / 2
		return l
	case FixedNoFit:
		return PageLayout{
			PageW: pageW, PageH: pageH,
			X: 0, Y: pageH - imgH,
			DrawW: imgW, DrawH: imgH,
		}
	default:
		return PageLayout{
			PageW: imgW, PageH: imgH,
			X: 0, Y: 0,
			DrawW: imgW, DrawH: imgH,
		}
	}
}
