package fontatlas

// Glyph is one sprite-font index entry (§3): the placement of a code
// point's rendered image within one atlas page, and the metrics needed to
// draw and advance past it.
type Glyph struct {
	Rect     IntRect
	OffsetX  int
	OffsetY  int
	AdvanceX int
	Page     int
}

// SpriteFont is the built or loaded product: a face name and size for
// provenance, a line height, an ordered set of atlas page textures, and the
// code-point-to-glyph map. It is assembled from a finished Builder by
// FromBuilder or populated wholesale by Load, and is non-copyable in spirit (copying the
// Textures slice does not duplicate GPU resources, so callers should treat
// a SpriteFont as owned by one holder at a time, same as the texture cache
// co-ownership described in §5).
type SpriteFont struct {
	FaceName   string
	PixelSize  int
	LineHeight int
	Textures   []Texture
	Glyphs     map[rune]Glyph
}

// FromBuilder assembles a SpriteFont from a finished Builder and the
// settings used to produce it.
func FromBuilder(b *Builder, faceName string, pixelSize int) *SpriteFont {
	return &SpriteFont{
		FaceName:   faceName,
		PixelSize:  pixelSize,
		LineHeight: b.LineHeight(),
		Textures:   b.Textures(),
		Glyphs:     b.Glyphs(),
	}
}

// Glyph looks up cp's index entry.
func (sf *SpriteFont) Glyph(cp rune) (Glyph, bool) {
	g, ok := sf.Glyphs[cp]
	return g, ok
}
