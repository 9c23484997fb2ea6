package pdfbind

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"

	_ "image/gif"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const normalizedQuality = 90

// imageInfo is the result of probing an image header.
type imageInfo struct {
	width  int
	height int
	format string // registered decoder name: "jpeg", "png", ...
	model  color.Model
}

// probeImage reads an image's dimensions and color model without decoding
// pixel data.
func probeImage(path string) (imageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return imageInfo{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return imageInfo{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return imageInfo{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	return imageInfo{width: cfg.Width, height: cfg.Height, format: format, model: cfg.ColorModel}, nil
}

// embeddable reports whether the file can be handed to the PDF writer
// as-is: a JPEG or PNG in an RGB-family or grayscale color model.
// Everything else (CMYK JPEG, paletted PNG, GIF, BMP, TIFF, WebP) goes
// through normalizeImage first.
func embeddable(info imageInfo) bool {
	if info.format != "jpeg" && info.format != "png" {
		return false
	}
	switch info.model {
	case color.RGBAModel, color.RGBA64Model,
		color.NRGBAModel, color.NRGBA64Model,
		color.YCbCrModel,
		color.GrayModel, color.Gray16Model:
		return true
	}
	return false
}

// normalizeImage decodes the image, converts it to RGB, and re-encodes it
// as a JPEG stream for embedding.
func normalizeImage(path string) (io.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, clone.AsRGBA(img), &jpeg.Options{Quality: normalizedQuality}); err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return &buf, nil
}
