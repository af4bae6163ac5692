package fontatlas

import (
	"fmt"
	"image"
	"os"
	"unicode"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// faceHandle is a scoped handle onto a vector font file: it owns the raw
// font bytes and a native face bound against them, and releases everything
// on every exit path of the function that opens it (see openFace and its
// callers, which always pair open with Close via defer).
//
// faceHandle is neither copied nor moved once constructed: its font.Face
// holds pointers into the owned byte buffer.
type faceHandle struct {
	data      []byte
	ttf       *truetype.Font
	goFace    font.Face
	scale     fixed.Int26_6
	hinting   font.Hinting
	numGlyphs int
}

// openFace reads path into memory, parses it as a TrueType/OpenType font,
// and fixes the pixel size and hinting mode for subsequent rendering.
// antialiasing false selects full (monochrome-oriented) hinting; the
// rasterizers additionally threshold the resulting mask to 0/255 in that
// case, approximating a 1-bit-per-pixel target.
func openFace(path string, pixelHeight int, antialiasing bool) (*faceHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMissing, err)
	}
	if len(data) == 0 {
		return nil, ErrSourceMissing
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMissing, err)
	}
	if !hasUsableCharmap(ttf) {
		return nil, ErrCharmapUnavailable
	}

	hinting := font.HintingNone
	if !antialiasing {
		hinting = font.HintingFull
	}
	scale := fixed.Int26_6(pixelHeight << 6)
	goFace := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(pixelHeight),
		DPI:     72,
		Hinting: hinting,
	})

	return &faceHandle{
		data:      data,
		ttf:       ttf,
		goFace:    goFace,
		scale:     scale,
		hinting:   hinting,
		numGlyphs: ttf.NumGlyphs(),
	}, nil
}

// hasUsableCharmap reports whether ttf maps at least one common rune to a
// real glyph. truetype.Font.Index returns 0, unconditionally, for any font
// whose cmap table truetype can't parse or that lacks a Unicode subtable, so
// this is the only way to distinguish that case from a font that legitimately
// just doesn't cover the probed runes.
func hasUsableCharmap(ttf *truetype.Font) bool {
	for _, r := range []rune{'A', 'a', '0', ' '} {
		if ttf.Index(r) != 0 {
			return true
		}
	}
	return false
}

// Close releases the native face. The handle must not be used afterward.
func (fh *faceHandle) Close() error {
	return fh.goFace.Close()
}

// NumGlyphs returns the number of glyphs the font provides, used as a
// packer capacity hint.
func (fh *faceHandle) NumGlyphs() int {
	return fh.numGlyphs
}

// Metrics returns the face's line metrics at the fixed pixel size.
func (fh *faceHandle) Metrics() font.Metrics {
	return fh.goFace.Metrics()
}

// Index returns the glyph index for r, or 0 if the font has no glyph for it.
func (fh *faceHandle) Index(r rune) truetype.Index {
	return fh.ttf.Index(r)
}

// Glyph renders r's antialiased (or hinted monochrome) mask at the origin.
func (fh *faceHandle) Glyph(r rune) (rect image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	return fh.goFace.Glyph(fixed.Point26_6{}, r)
}

// GlyphBounds returns r's bounding box and advance in 26.6 units.
func (fh *faceHandle) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	return fh.goFace.GlyphBounds(r)
}

// firstCodePoint and nextCodePoint enumerate every code point the font
// exposes a glyph for, in Unicode order, terminating when the returned
// glyph index is zero. The font's cmap is not exposed by truetype.Font, so
// this scans the Unicode range directly and asks the font whether it maps
// each candidate rune to a real glyph — the same termination contract
// described in the design (enumerate, stop at glyph id zero), just
// implemented as a scan instead of a native first/next primitive.
func (fh *faceHandle) firstCodePoint() (rune, truetype.Index) {
	return fh.codePointFrom(0)
}

func (fh *faceHandle) nextCodePoint(after rune) (rune, truetype.Index) {
	return fh.codePointFrom(after + 1)
}

func (fh *faceHandle) codePointFrom(start rune) (rune, truetype.Index) {
	for r := start; r <= unicode.MaxRune; r++ {
		if idx := fh.ttf.Index(r); idx != 0 {
			return r, idx
		}
	}
	return 0, 0
}
