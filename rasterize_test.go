package fontatlas

import "testing"

func TestThresholdImage(t *testing.T) {
	im := NewImage(4, 1, 1)
	copy(im.Pix, []byte{0, 127, 128, 255})
	thresholdImage(im)
	want := []byte{0, 0, 255, 255}
	for i, w := range want {
		if im.Pix[i] != w {
			t.Errorf("thresholdImage pixel %d = %d, want %d", i, im.Pix[i], w)
		}
	}
}

func TestColorParts(t *testing.T) {
	r, g, b, a := colorParts(0xAABBCCDD)
	if r != 0xDD || g != 0xCC || b != 0xBB || a != 0xAA {
		t.Errorf("colorParts(0xAABBCCDD) = (%x,%x,%x,%x), want (dd,cc,bb,aa)", r, g, b, a)
	}
}

func TestCompositeOutlinedSkipsInnerWhenColorsMatch(t *testing.T) {
	inner := &RenderedGlyph{Image: NewImage(2, 2, 1), CodePoint: 'M', AdvanceX: 9}
	for i := range inner.Image.Pix {
		inner.Image.Pix[i] = 255
	}
	outer := &RenderedGlyph{Image: NewImage(4, 4, 1)}
	for i := range outer.Image.Pix {
		outer.Image.Pix[i] = 255
	}

	g := compositeOutlined(inner, outer, 0xFFFFFFFF, 0xFFFFFFFF, 0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px := g.Image.At(x, y)
			if px[3] != 255 {
				t.Errorf("pixel (%d,%d) alpha = %d, want 255 (pure outline color, no inner composite)", x, y, px[3])
			}
		}
	}
	if g.AdvanceX != inner.AdvanceX {
		t.Errorf("AdvanceX = %d, want %d", g.AdvanceX, inner.AdvanceX)
	}
}

func TestCompositeOutlinedOverwritesCoveredAreaWithMainColor(t *testing.T) {
	// Same pen anchor for both passes (OffsetX/Y equal, so dx=dy=0): the
	// inner 2x2 body sits at the top-left corner of the outer 4x4 image.
	inner := &RenderedGlyph{Image: NewImage(2, 2, 1)}
	for i := range inner.Image.Pix {
		inner.Image.Pix[i] = 255
	}
	outer := &RenderedGlyph{Image: NewImage(4, 4, 1)}
	for i := range outer.Image.Pix {
		outer.Image.Pix[i] = 255
	}

	g := compositeOutlined(inner, outer, 0xFFFFFFFF, 0xFF000000, 0)
	covered := g.Image.At(0, 0)
	if covered[0] != 0xFF || covered[1] != 0xFF || covered[2] != 0xFF {
		t.Errorf("covered pixel = %v, want near-white (main color)", covered)
	}
	uncovered := g.Image.At(3, 3)
	if uncovered[0] != 0 || uncovered[1] != 0 || uncovered[2] != 0 {
		t.Errorf("uncovered pixel = %v, want near-black (outline color)", uncovered)
	}
}
