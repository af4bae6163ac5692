package fontatlas

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// xmlFont mirrors §6's index document: root element font, with info,
// common, pages and chars children. Field order matches struct field order
// for MarshalIndent's output; the loader tolerates attribute order per §6.
type xmlFont struct {
	XMLName xml.Name   `xml:"font"`
	Info    xmlInfo    `xml:"info"`
	Common  *xmlCommon `xml:"common"`
	Pages   xmlPages   `xml:"pages"`
	Chars   xmlChars   `xml:"chars"`
}

type xmlInfo struct {
	Face string `xml:"face,attr"`
	Size int    `xml:"size,attr"`
}

type xmlCommon struct {
	LineHeight int `xml:"lineHeight,attr"`
	Pages      int `xml:"pages,attr"`
}

type xmlPages struct {
	Page []xmlPage `xml:"page"`
}

type xmlPage struct {
	ID   int    `xml:"id,attr"`
	File string `xml:"file,attr"`
}

type xmlChars struct {
	Count int       `xml:"count,attr"`
	Char  []xmlChar `xml:"char"`
}

type xmlChar struct {
	ID       uint32 `xml:"id,attr"`
	X        int    `xml:"x,attr"`
	Y        int    `xml:"y,attr"`
	Width    int    `xml:"width,attr"`
	Height   int    `xml:"height,attr"`
	XOffset  int    `xml:"xoffset,attr"`
	YOffset  int    `xml:"yoffset,attr"`
	AdvanceX int    `xml:"advance_x,attr"`
	Page     int    `xml:"page,attr"`
}

// pageFileName returns the conventional page filename for stem's i-th page
// (§6: "<stem>_<i>.png").
func pageFileName(stem string, i int) string {
	return fmt.Sprintf("%s_%d.png", stem, i)
}

// Save writes sf to path: one PNG per atlas page alongside path, plus the
// XML index at path itself. Every page texture must have a retained
// CPU-side image (ErrNoCPUImage otherwise), and path's extension, if
// present, must be "fnt" (ErrBadExtension otherwise). The extension is
// checked before any file is written. Save is not atomic: page PNGs written
// before a later page turns out to lack its CPU-side image, or before the
// index write fails, stay on disk.
func Save(sf *SpriteFont, path string, log Logger) error {
	ext := filepath.Ext(path)
	if ext != "" && ext != ".fnt" {
		log.Errorf("save %q: %v", path, ErrBadExtension)
		return ErrBadExtension
	}

	dir := filepath.Dir(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	for i, tex := range sf.Textures {
		img := tex.Image()
		if img == nil {
			log.Errorf("save %q: page %d: %v", path, i, ErrNoCPUImage)
			return ErrNoCPUImage
		}
		f, err := os.Create(filepath.Join(dir, pageFileName(stem, i)))
		if err != nil {
			log.Errorf("save %q: page %d: %v", path, i, err)
			return fmt.Errorf("save page %d: %w", i, err)
		}
		err = png.Encode(f, img.ToGoImage())
		closeErr := f.Close()
		if err != nil {
			log.Errorf("save %q: page %d: %v", path, i, err)
			return fmt.Errorf("save page %d: %w", i, err)
		}
		if closeErr != nil {
			log.Errorf("save %q: page %d: %v", path, i, closeErr)
			return fmt.Errorf("save page %d: %w", i, closeErr)
		}
	}

	doc := xmlFont{
		Info:   xmlInfo{Face: sf.FaceName, Size: sf.PixelSize},
		Common: &xmlCommon{LineHeight: sf.LineHeight, Pages: len(sf.Textures)},
	}
	for i := range sf.Textures {
		doc.Pages.Page = append(doc.Pages.Page, xmlPage{ID: i, File: pageFileName(stem, i)})
	}

	ids := make([]int, 0, len(sf.Glyphs))
	for cp := range sf.Glyphs {
		ids = append(ids, int(cp))
	}
	sort.Ints(ids)
	doc.Chars.Count = len(ids)
	for _, id := range ids {
		g := sf.Glyphs[rune(id)]
		doc.Chars.Char = append(doc.Chars.Char, xmlChar{
			ID:       uint32(id),
			X:        g.Rect.MinX,
			Y:        g.Rect.MinY,
			Width:    g.Rect.Dx(),
			Height:   g.Rect.Dy(),
			XOffset:  g.OffsetX,
			YOffset:  g.OffsetY,
			AdvanceX: g.AdvanceX,
			Page:     g.Page,
		})
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		log.Errorf("save %q: %v", path, err)
		return fmt.Errorf("save index: %w", err)
	}
	contents := append([]byte(xml.Header), out...)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		log.Errorf("save %q: %v", path, err)
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// Load parses the index at path, resolving each page through cache (by
// directory_of(path) + file, loading and registering it from its PNG file
// on a cache miss), and returns the reconstructed sprite-font. Duplicate
// char ids overwrite earlier entries (last wins, per §4.7). Kerning pairs,
// if present in the file, are intentionally not loaded (§9 Open Question
// (c)).
func Load(path string, cache *TextureCache, log Logger) (*SpriteFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("load %q: %v", path, err)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var doc xmlFont
	if err := xml.Unmarshal(data, &doc); err != nil {
		log.Errorf("load %q: %v", path, err)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Common == nil {
		log.Errorf("load %q: %v", path, ErrParse)
		return nil, ErrParse
	}
	if len(doc.Pages.Page) != doc.Common.Pages {
		log.Errorf("load %q: %v", path, ErrParse)
		return nil, ErrParse
	}

	dir := filepath.Dir(path)
	textures := make([]Texture, len(doc.Pages.Page))
	for _, p := range doc.Pages.Page {
		if p.ID < 0 || p.ID >= len(textures) {
			continue
		}
		tex, err := resolvePageTexture(cache, dir, p.File, log)
		if err != nil {
			return nil, err
		}
		textures[p.ID] = tex
	}

	glyphs := make(map[rune]Glyph, len(doc.Chars.Char))
	for _, c := range doc.Chars.Char {
		glyphs[rune(c.ID)] = Glyph{
			Rect: IntRect{
				MinX: c.X, MinY: c.Y,
				MaxX: c.X + c.Width, MaxY: c.Y + c.Height,
			},
			OffsetX:  c.XOffset,
			OffsetY:  c.YOffset,
			AdvanceX: c.AdvanceX,
			Page:     c.Page,
		}
	}

	return &SpriteFont{
		FaceName:   doc.Info.Face,
		PixelSize:  doc.Info.Size,
		LineHeight: doc.Common.LineHeight,
		Textures:   textures,
		Glyphs:     glyphs,
	}, nil
}

func resolvePageTexture(cache *TextureCache, dir, file string, log Logger) (Texture, error) {
	key := filepath.Join(dir, file)
	if tex, ok := cache.Get(key); ok {
		return tex, nil
	}

	f, err := os.Open(key)
	if err != nil {
		log.Errorf("load page %q: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrTextureNotFound, err)
	}
	defer f.Close()

	goImg, err := png.Decode(f)
	if err != nil {
		log.Errorf("load page %q: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrTextureNotFound, err)
	}

	// Page PNGs are written from Image.ToGoImage's *image.NRGBA (straight,
	// non-premultiplied alpha). color.Color.RGBA() always returns
	// premultiplied components regardless of the source model, so every
	// partially transparent pixel must be converted back through NRGBA
	// before landing in our own straight-alpha buffer.
	b := goImg.Bounds()
	img := NewImage(b.Dx(), b.Dy(), 4)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			px := color.NRGBAModel.Convert(goImg.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			img.Set(x, y, []byte{px.R, px.G, px.B, px.A})
		}
	}

	tex := newGLTexture(img)
	cache.Put(key, tex)
	return tex, nil
}
