package fontatlas

import (
	"math"
	"strconv"
)

// CommonSettings is shared by every build recipe: the font to load, the
// target pixel height, whether to antialias or target 1-bit hinting, and
// the fixed size of every atlas page this build produces.
type CommonSettings struct {
	SrcPath       string
	Height        int
	AntiAliasing  bool
	TextureWidth  int
	TextureHeight int
}

// SimpleSettings renders each glyph directly, with an optional triangular
// blur and a single fill color.
type SimpleSettings struct {
	CommonSettings
	BlurRadius int
	Color      uint32
}

// ContourSettings replaces each glyph with its stroked outline.
type ContourSettings struct {
	CommonSettings
	Thickness  float32
	BlurRadius int
	Color      uint32
}

// OutlinedSettings renders a solid glyph body plus a colored outline,
// composited together.
type OutlinedSettings struct {
	CommonSettings
	MainColor         uint32
	OutlineColor      uint32
	OutlineThickness  float32
	OutlineBlurRadius int
}

const packerPadding = 2

// Builder orchestrates one recipe: open face, rasterize every code point,
// pack the results, upload page textures, populate the glyph map. It
// mirrors kroppt/gfx.LoadFontTexture's open-iterate-build-cache shape,
// generalized across the three recipes and multi-page packing (§4.6).
type Builder struct {
	textures   []Texture
	glyphs     map[rune]Glyph
	lineHeight int
}

// Textures returns the built sprite-font's atlas pages, in page-index order.
func (b *Builder) Textures() []Texture { return b.textures }

// Glyphs returns the built sprite-font's code-point-to-glyph map.
func (b *Builder) Glyphs() map[rune]Glyph { return b.glyphs }

// LineHeight returns the baseline-to-baseline distance in pixels.
func (b *Builder) LineHeight() int { return b.lineHeight }

// empty leaves the builder in the empty-but-valid state §5 and §7 specify
// for a global build failure: no glyphs, no textures, line height zero.
func (b *Builder) empty() {
	b.textures = nil
	b.glyphs = map[rune]Glyph{}
	b.lineHeight = 0
}

// buildPages colorizes each rasterizer's grayscale page (Simple/Contour) or
// passes through an already-RGBA page (Outlined), uploads it, registers it
// with cache under a synthetic per-build key, and returns the page textures
// together with the code-point-to-glyph map.
func buildPages(rendered []*RenderedGlyph, pk *packer, color uint32, alreadyRGBA bool, texW, texH int, cache *TextureCache, srcPath string) ([]Texture, map[rune]Glyph) {
	pages := make([]*Image, pk.PageCount())
	for i := range pages {
		if alreadyRGBA {
			pages[i] = NewImage(texW, texH, 4)
		} else {
			pages[i] = NewImage(texW, texH, 1)
		}
	}

	glyphs := make(map[rune]Glyph, len(rendered))
	for _, g := range rendered {
		if g.Image.Width > 0 && g.Image.Height > 0 {
			_ = pages[g.Page].Paste(g.Image, g.Rect.MinX, g.Rect.MinY)
		}
		glyphs[g.CodePoint] = Glyph{
			Rect:     g.Rect,
			OffsetX:  g.OffsetX,
			OffsetY:  g.OffsetY,
			AdvanceX: g.AdvanceX,
			Page:     g.Page,
		}
	}

	textures := make([]Texture, len(pages))
	for i, p := range pages {
		rgba := p
		if !alreadyRGBA {
			rgba = p.ToRGBA(color)
		}
		tex := newGLTexture(rgba)
		textures[i] = tex
		if cache != nil {
			cache.Put(pageCacheKey(srcPath, i), tex)
		}
	}
	return textures, glyphs
}

func pageCacheKey(srcPath string, page int) string {
	return srcPath + "#" + strconv.Itoa(page)
}

// NewSimpleBuilder builds a sprite-font using the Simple recipe (§4.4,
// §4.6). log and cache are injected collaborators (§9); elapsedMS, if
// non-nil, receives the build's wall-clock duration in milliseconds.
func NewSimpleBuilder(s SimpleSettings, log Logger, cache *TextureCache, elapsedMS *int64) *Builder {
	b := &Builder{}
	start := monotonicNow()

	fh, err := openFace(s.SrcPath, s.Height, s.AntiAliasing)
	if err != nil {
		log.Errorf("simple build: %v", err)
		b.empty()
		recordElapsed(elapsedMS, start)
		return b
	}
	defer fh.Close()

	rendered := rasterizeSimple(fh, s, log)
	pk := newPacker(s.TextureWidth, s.TextureHeight, packerPadding)
	if err := pk.Pack(rendered); err != nil {
		log.Errorf("simple build: %v", err)
		b.empty()
		recordElapsed(elapsedMS, start)
		return b
	}

	b.textures, b.glyphs = buildPages(rendered, pk, s.Color, false, s.TextureWidth, s.TextureHeight, cache, s.SrcPath)
	b.lineHeight = round26_6(fh.Metrics().Height)
	recordElapsed(elapsedMS, start)
	return b
}

// NewContourBuilder builds a sprite-font using the Contour recipe.
func NewContourBuilder(s ContourSettings, log Logger, cache *TextureCache, elapsedMS *int64) *Builder {
	b := &Builder{}
	start := monotonicNow()

	fh, err := openFace(s.SrcPath, s.Height, s.AntiAliasing)
	if err != nil {
		log.Errorf("contour build: %v", err)
		b.empty()
		recordElapsed(elapsedMS, start)
		return b
	}
	defer fh.Close()

	rendered := rasterizeContour(fh, s, log)
	pk := newPacker(s.TextureWidth, s.TextureHeight, packerPadding)
	if err := pk.Pack(rendered); err != nil {
		log.Errorf("contour build: %v", err)
		b.empty()
		recordElapsed(elapsedMS, start)
		return b
	}

	b.textures, b.glyphs = buildPages(rendered, pk, s.Color, false, s.TextureWidth, s.TextureHeight, cache, s.SrcPath)
	b.lineHeight = round26_6(fh.Metrics().Height) + int(math.Round(float64(s.Thickness)))
	recordElapsed(elapsedMS, start)
	return b
}

// NewOutlinedBuilder builds a sprite-font using the Outlined recipe.
func NewOutlinedBuilder(s OutlinedSettings, log Logger, cache *TextureCache, elapsedMS *int64) *Builder {
	b := &Builder{}
	start := monotonicNow()

	fh, err := openFace(s.SrcPath, s.Height, s.AntiAliasing)
	if err != nil {
		log.Errorf("outlined build: %v", err)
		b.empty()
		recordElapsed(elapsedMS, start)
		return b
	}
	defer fh.Close()

	rendered := rasterizeOutlined(fh, s, log)
	pk := newPacker(s.TextureWidth, s.TextureHeight, packerPadding)
	if err := pk.Pack(rendered); err != nil {
		log.Errorf("outlined build: %v", err)
		b.empty()
		recordElapsed(elapsedMS, start)
		return b
	}

	b.textures, b.glyphs = buildPages(rendered, pk, 0, true, s.TextureWidth, s.TextureHeight, cache, s.SrcPath)
	b.lineHeight = round26_6(fh.Metrics().Height) + int(math.Round(float64(2*s.OutlineThickness)))
	recordElapsed(elapsedMS, start)
	return b
}
