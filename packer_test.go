package fontatlas

import "testing"

func glyphOfSize(cp rune, w, h int) *RenderedGlyph {
	return &RenderedGlyph{CodePoint: cp, Image: NewImage(w, h, 1)}
}

func TestPackerPlacesWithinBoundsAndPadding(t *testing.T) {
	glyphs := []*RenderedGlyph{
		glyphOfSize('a', 10, 10),
		glyphOfSize('b', 20, 8),
		glyphOfSize('c', 5, 5),
	}
	pk := newPacker(64, 64, 2)
	if err := pk.Pack(glyphs); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	for _, g := range glyphs {
		if g.Rect.MinX < 0 || g.Rect.MinY < 0 || g.Rect.MaxX > 64 || g.Rect.MaxY > 64 {
			t.Errorf("glyph %q rect %v out of bounds", g.CodePoint, g.Rect)
		}
		if g.Rect.Dx() != g.Image.Width || g.Rect.Dy() != g.Image.Height {
			t.Errorf("glyph %q rect size %dx%d != image size %dx%d", g.CodePoint, g.Rect.Dx(), g.Rect.Dy(), g.Image.Width, g.Image.Height)
		}
	}
	for i := range glyphs {
		for j := range glyphs {
			if i == j || glyphs[i].Page != glyphs[j].Page {
				continue
			}
			if rectsOverlapOrTouch(glyphs[i].Rect, glyphs[j].Rect, 2) {
				t.Errorf("glyphs %q and %q are closer than padding: %v vs %v", glyphs[i].CodePoint, glyphs[j].CodePoint, glyphs[i].Rect, glyphs[j].Rect)
			}
		}
	}
}

func rectsOverlapOrTouch(a, b IntRect, padding int) bool {
	return a.MinX-padding < b.MaxX && b.MinX-padding < a.MaxX &&
		a.MinY-padding < b.MaxY && b.MinY-padding < a.MaxY
}

func TestPackerOverflowsToNewPage(t *testing.T) {
	var glyphs []*RenderedGlyph
	for i := 0; i < 20; i++ {
		glyphs = append(glyphs, glyphOfSize(rune('a'+i), 30, 30))
	}
	pk := newPacker(64, 64, 2)
	if err := pk.Pack(glyphs); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if pk.PageCount() < 2 {
		t.Errorf("PageCount() = %d, want at least 2 for 20 30x30 glyphs on a 64x64 page", pk.PageCount())
	}
}

func TestPackerRejectsOversizedRect(t *testing.T) {
	glyphs := []*RenderedGlyph{glyphOfSize('a', 100, 100)}
	pk := newPacker(64, 64, 2)
	if err := pk.Pack(glyphs); err != ErrRectTooLarge {
		t.Errorf("Pack with oversized rect: got %v, want ErrRectTooLarge", err)
	}
}

func TestPackerRejectsReuse(t *testing.T) {
	pk := newPacker(64, 64, 2)
	if err := pk.Pack(nil); err != nil {
		t.Fatalf("first Pack: %v", err)
	}
	if err := pk.Pack(nil); err != ErrPackerReused {
		t.Errorf("second Pack: got %v, want ErrPackerReused", err)
	}
}

func TestPackerZeroSizeGlyphConsumesNoSpace(t *testing.T) {
	glyphs := []*RenderedGlyph{glyphOfSize(' ', 0, 0)}
	pk := newPacker(64, 64, 2)
	if err := pk.Pack(glyphs); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if glyphs[0].Rect != (IntRect{}) {
		t.Errorf("zero-size glyph rect = %v, want zero value", glyphs[0].Rect)
	}
}
