package pdfbind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutFitPageToImage(t *testing.T) {
	// nominal page size is ignored entirely
	l := Layout(1200, 800, FitPageToImage, A4Width, A4Height)
	assert.Equal(t, PageLayout{PageW: 1200, PageH: 800, X: 0, Y: 0, DrawW: 1200, DrawH: 800}, l)
}

func TestLayoutFixedFit(t *testing.T) {
	tests := []struct {
		name       string
		imgW, imgH float64
		want       PageLayout
	}{
		{
			name: "wide image is width-bound and vertically centered",
			imgW: 2000, imgH: 1000,
			want: PageLayout{PageW: 600, PageH: 800, X: 0, Y: 250, DrawW: 600, DrawH: 300},
		},
		{
			name: "tall image is height-bound and horizontally centered",
			imgW: 300, imgH: 1200,
			want: PageLayout{PageW: 600, PageH: 800, X: 200, Y: 0, DrawW: 200, DrawH: 800},
		},
		{
			name: "equal aspect ratios take the width-bound branch",
			imgW: 300, imgH: 400,
			want: PageLayout{PageW: 600, PageH: 800, X: 0, Y: 0, DrawW: 600, DrawH: 800},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Layout(tc.imgW, tc.imgH, FixedFit, 600, 800))
		})
	}
}

func TestParsePageSize(t *testing.T) {
	w, h, err := ParsePageSize("600x800")
	assert.NoError(t, err)
	assert.Equal(t, 600.0, w)
	assert.Equal(t, 800.0, h)

	w, h, err = ParsePageSize("595.28X841.89")
	assert.NoError(t, err)
	assert.Equal(t, 595.28, w)
	assert.Equal(t, 841.89, h)

	for _, bad := range []string{"", "600", "x800", "600x", "0x800", "600x-1", "axb"} {
		_, _, err := ParsePageSize(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLayoutFixedNoFit(t *testing.T) {
	// original size, top edge on the page top
	l := Layout(200, 300, FixedNoFit, 600, 800)
	assert.Equal(t, PageLayout{PageW: 600, PageH: 800, X: 0, Y: 500, DrawW: 200, DrawH: 300}, l)

	// an oversized image overflows the page bottom
	l = Layout(700, 900, FixedNoFit, 600, 800)
	assert.Equal(t, PageLayout{PageW: 600, PageH: 800, X: 0, Y: -100, DrawW: 700, DrawH: 900}, l)
}
