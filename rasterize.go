package fontatlas

import (
	"image"
	"math"

	"github.com/golang/freetype/raster"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/fixed"
)

// RenderedGlyph is the transient output of one rasterizer pass: a pixel
// image plus the metrics needed to place it relative to the pen and to
// advance past it. It is populated by a rasterizer, handed to the packer
// (which fills in Page and Rect), and then folded into a SpriteFont's
// glyph map. Treat it as move-only: share the Image pointer, don't copy it.
type RenderedGlyph struct {
	Image     *Image
	CodePoint rune
	OffsetX   int
	OffsetY   int
	AdvanceX  int
	Page      int
	Rect      IntRect
}

// blur replaces g.Image with its triangular blur at the given radius and
// shifts the offset to compensate for the image growing by radius on each
// side. A radius of zero is a no-op.
func (g *RenderedGlyph) blur(radius int) {
	if radius <= 0 {
		return
	}
	g.Image = g.Image.BlurTriangle(radius)
	g.OffsetX -= radius
	g.OffsetY -= radius
}

func thresholdImage(im *Image) {
	for i, v := range im.Pix {
		if v >= 128 {
			im.Pix[i] = 255
		} else {
			im.Pix[i] = 0
		}
	}
}

func copyAlphaMask(dst *Image, mask image.Image, maskp image.Point, dr image.Rectangle) {
	if alpha, ok := mask.(*image.Alpha); ok {
		for y := 0; y < dr.Dy(); y++ {
			so := (maskp.Y+y)*alpha.Stride + maskp.X
			do := y * dr.Dx()
			copy(dst.Pix[do:do+dr.Dx()], alpha.Pix[so:so+dr.Dx()])
		}
		return
	}
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			dst.Pix[y*dr.Dx()+x] = byte(a >> 8)
		}
	}
}

// renderMask rasterizes cp's filled, antialiased-or-hinted glyph mask using
// the face's font.Face, returning nil, false if the font has no usable
// glyph or bounds for cp.
func renderMask(fh *faceHandle, cp rune, antialiasing bool) (*RenderedGlyph, bool) {
	dr, mask, maskp, advance, ok := fh.Glyph(cp)
	if !ok {
		return nil, false
	}
	bounds, _, boundsOk := fh.GlyphBounds(cp)
	if !boundsOk {
		return nil, false
	}

	img := NewImage(dr.Dx(), dr.Dy(), 1)
	if dr.Dx() > 0 && dr.Dy() > 0 {
		copyAlphaMask(img, mask, maskp, dr)
		if !antialiasing {
			thresholdImage(img)
		}
	}

	ascent := fh.Metrics().Ascent
	return &RenderedGlyph{
		Image:     img,
		CodePoint: cp,
		OffsetX:   round26_6(bounds.Min.X),
		OffsetY:   round26_6(ascent + bounds.Min.Y),
		AdvanceX:  round26_6(advance),
	}, true
}

// addContourFill feeds one TrueType contour's quadratic outline into r as a
// fill path, ported from golang/freetype/truetype's own face.go drawContour
// (the teacher's freetype dependency's sibling rasterization code): two
// consecutive off-curve points imply an on-curve point at their midpoint.
func addContourFill(r *raster.Rasterizer, ps []truetype.Point, dx, dy fixed.Int26_6) {
	if len(ps) == 0 {
		return
	}
	start := fixed.Point26_6{X: dx + ps[0].X, Y: dy - ps[0].Y}
	var others []truetype.Point
	if ps[0].Flags&0x01 != 0 {
		others = ps[1:]
	} else {
		last := fixed.Point26_6{X: dx + ps[len(ps)-1].X, Y: dy - ps[len(ps)-1].Y}
		if ps[len(ps)-1].Flags&0x01 != 0 {
			start = last
			others = ps[:len(ps)-1]
		} else {
			start = fixed.Point26_6{X: (start.X + last.X) / 2, Y: (start.Y + last.Y) / 2}
			others = ps
		}
	}
	r.Start(start)
	q0, on0 := start, true
	for _, p := range others {
		q := fixed.Point26_6{X: dx + p.X, Y: dy - p.Y}
		on := p.Flags&0x01 != 0
		if on {
			if on0 {
				r.Add1(q)
			} else {
				r.Add2(q0, q)
			}
		} else if !on0 {
			mid := fixed.Point26_6{X: (q0.X + q.X) / 2, Y: (q0.Y + q.Y) / 2}
			r.Add2(q0, mid)
		}
		q0, on0 = q, on
	}
	if on0 {
		r.Add1(start)
	} else {
		r.Add2(q0, start)
	}
}

const quadSteps = 8

func lerpFixed(a, b fixed.Point26_6, t float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: a.X + fixed.Int26_6(float64(b.X-a.X)*t),
		Y: a.Y + fixed.Int26_6(float64(b.Y-a.Y)*t),
	}
}

func quadPoint(p0, p1, p2 fixed.Point26_6, t float64) fixed.Point26_6 {
	a := lerpFixed(p0, p1, t)
	b := lerpFixed(p1, p2, t)
	return lerpFixed(a, b, t)
}

// flattenContour mirrors addContourFill's walk over the same contour, but
// emits a straight-line polyline (subdividing each quadratic segment into
// quadSteps segments) instead of feeding the rasterizer's curve primitives,
// since raster.Rasterizer.AddStroke strokes a polyline.
func flattenContour(ps []truetype.Point, dx, dy fixed.Int26_6) []fixed.Point26_6 {
	if len(ps) == 0 {
		return nil
	}
	start := fixed.Point26_6{X: dx + ps[0].X, Y: dy - ps[0].Y}
	var others []truetype.Point
	if ps[0].Flags&0x01 != 0 {
		others = ps[1:]
	} else {
		last := fixed.Point26_6{X: dx + ps[len(ps)-1].X, Y: dy - ps[len(ps)-1].Y}
		if ps[len(ps)-1].Flags&0x01 != 0 {
			start = last
			others = ps[:len(ps)-1]
		} else {
			start = fixed.Point26_6{X: (start.X + last.X) / 2, Y: (start.Y + last.Y) / 2}
			others = ps
		}
	}

	poly := []fixed.Point26_6{start}
	appendQuad := func(ctrl, end fixed.Point26_6) {
		from := poly[len(poly)-1]
		for i := 1; i <= quadSteps; i++ {
			poly = append(poly, quadPoint(from, ctrl, end, float64(i)/quadSteps))
		}
	}

	q0, on0 := start, true
	for _, p := range others {
		q := fixed.Point26_6{X: dx + p.X, Y: dy - p.Y}
		on := p.Flags&0x01 != 0
		if on {
			if on0 {
				poly = append(poly, q)
			} else {
				appendQuad(q0, q)
			}
		} else if !on0 {
			mid := fixed.Point26_6{X: (q0.X + q.X) / 2, Y: (q0.Y + q.Y) / 2}
			appendQuad(q0, mid)
		}
		q0, on0 = q, on
	}
	if on0 {
		poly = append(poly, start)
	} else {
		appendQuad(q0, start)
	}
	return poly
}

// strokeGlyph rasterizes cp's outline stroked with a round cap/join stroker
// of the given half-width (raster.Rasterizer.AddStroke's width parameter is
// the distance from the path to each edge of the stroked ribbon, i.e. half
// the visible stroke thickness). When fillAlso is set, the original filled
// contour is rasterized into the same accumulator first, so the nonzero
// winding rule unions the stroke ribbon with the solid glyph body instead of
// leaving a hollow ring — the same native-engine idiom as Contour (hollow
// outline, fillAlso=false) and Outlined's outer pass (solid inflated body,
// fillAlso=true with a half-width equal to the full desired outward reach,
// since only the ribbon's outer half ever shows past the already-filled
// interior).
func strokeGlyph(fh *faceHandle, cp rune, halfWidth fixed.Int26_6, fillAlso bool) (*RenderedGlyph, bool) {
	idx := fh.Index(cp)
	if idx == 0 {
		return nil, false
	}
	var buf truetype.GlyphBuf
	if err := buf.Load(fh.ttf, fh.scale, idx, fh.hinting); err != nil {
		return nil, false
	}

	if len(buf.End) == 0 {
		return &RenderedGlyph{
			Image:     NewImage(0, 0, 1),
			CodePoint: cp,
			AdvanceX:  round26_6(buf.AdvanceWidth),
		}, true
	}

	xmin := fixed.Int26_6(buf.B.XMin) - halfWidth
	xmax := fixed.Int26_6(buf.B.XMax) + halfWidth
	ymin := fixed.Int26_6(buf.B.YMin) - halfWidth
	ymax := fixed.Int26_6(buf.B.YMax) + halfWidth
	pixW := xmax.Ceil() - xmin.Floor()
	pixH := ymax.Ceil() - ymin.Floor()
	if pixW <= 0 || pixH <= 0 {
		return &RenderedGlyph{
			Image:     NewImage(0, 0, 1),
			CodePoint: cp,
			AdvanceX:  round26_6(buf.AdvanceWidth),
		}, true
	}

	dx := -xmin
	dy := ymax

	r := raster.NewRasterizer(pixW, pixH)
	r.UseNonZeroWinding = true
	alpha := image.NewAlpha(image.Rect(0, 0, pixW, pixH))
	painter := raster.NewAlphaSrcPainter(alpha)

	e0 := 0
	for _, e1 := range buf.End {
		ps := buf.Point[e0:e1]
		if fillAlso {
			addContourFill(r, ps, dx, dy)
		}
		if poly := flattenContour(ps, dx, dy); len(poly) > 1 {
			r.AddStroke(poly, halfWidth, raster.RoundCapper, raster.RoundJoiner)
		}
		e0 = e1
	}
	r.Rasterize(painter)

	img := NewImage(pixW, pixH, 1)
	copy(img.Pix, alpha.Pix)

	ascent := fh.Metrics().Ascent
	return &RenderedGlyph{
		Image:     img,
		CodePoint: cp,
		OffsetX:   round26_6(xmin),
		OffsetY:   round26_6(ascent - ymax),
		AdvanceX:  round26_6(buf.AdvanceWidth),
	}, true
}

func colorParts(color uint32) (r, g, b, a byte) {
	return byte(color), byte(color >> 8), byte(color >> 16), byte(color >> 24)
}

// compositeOutlined builds the final RGBA glyph for the Outlined recipe:
// the outer (inflated) image colorized with outlineColor, with the inner
// glyph mask-weighted-overwritten on top (not alpha blended) so its soft
// antialiased edge is preserved against the outline rather than blended
// with it.
//
// outer is expected to be already blurred: its offset then carries the
// blur's -outlineBlurRadius shift, so the difference of the two pen-relative
// (y-down) offsets places the inner body inside the blurred outline with the
// blur margin counted exactly once.
func compositeOutlined(inner, outer *RenderedGlyph, mainColor, outlineColor uint32, outlineBlurRadius int) *RenderedGlyph {
	dst := outer.Image.ToRGBA(outlineColor)

	if mainColor != outlineColor {
		dx := inner.OffsetX - outer.OffsetX
		dy := inner.OffsetY - outer.OffsetY
		mr, mg, mb, ma := colorParts(mainColor)
		mainChan := [4]byte{mr, mg, mb, ma}
		for y := 0; y < inner.Image.Height; y++ {
			for x := 0; x < inner.Image.Width; x++ {
				ox, oy := x+dx, y+dy
				if ox < 0 || oy < 0 || ox >= dst.Width || oy >= dst.Height {
					continue
				}
				m := uint32(inner.Image.At(x, y)[0])
				back := dst.At(ox, oy)
				var px [4]byte
				for c := 0; c < 4; c++ {
					px[c] = byte((m*uint32(mainChan[c]) + (255-m)*uint32(back[c])) / 255)
				}
				dst.Set(ox, oy, px[:])
			}
		}
	}

	return &RenderedGlyph{
		Image:     dst,
		CodePoint: inner.CodePoint,
		OffsetX:   outer.OffsetX,
		OffsetY:   outer.OffsetY,
		AdvanceX:  inner.AdvanceX,
	}
}

func rasterizeSimple(fh *faceHandle, s SimpleSettings, log Logger) []*RenderedGlyph {
	var out []*RenderedGlyph
	for cp, idx := fh.firstCodePoint(); idx != 0; cp, idx = fh.nextCodePoint(cp) {
		g, ok := renderMask(fh, cp, s.AntiAliasing)
		if !ok {
			log.Warnf("simple: skipping glyph for code point %U", cp)
			continue
		}
		g.blur(s.BlurRadius)
		out = append(out, g)
	}
	return out
}

func rasterizeContour(fh *faceHandle, s ContourSettings, log Logger) []*RenderedGlyph {
	halfWidth := fixed.Int26_6(s.Thickness * 32)
	var out []*RenderedGlyph
	for cp, idx := fh.firstCodePoint(); idx != 0; cp, idx = fh.nextCodePoint(cp) {
		g, ok := strokeGlyph(fh, cp, halfWidth, false)
		if !ok {
			log.Warnf("contour: skipping glyph for code point %U", cp)
			continue
		}
		if !s.AntiAliasing {
			thresholdImage(g.Image)
		}
		g.AdvanceX += int(math.Round(float64(s.Thickness)))
		g.blur(s.BlurRadius)
		out = append(out, g)
	}
	return out
}

func rasterizeOutlined(fh *faceHandle, s OutlinedSettings, log Logger) []*RenderedGlyph {
	outerHalfWidth := fixed.Int26_6(s.OutlineThickness * 64)
	var out []*RenderedGlyph
	for cp, idx := fh.firstCodePoint(); idx != 0; cp, idx = fh.nextCodePoint(cp) {
		inner, ok := renderMask(fh, cp, s.AntiAliasing)
		if !ok {
			log.Warnf("outlined: skipping glyph for code point %U", cp)
			continue
		}
		outer, ok := strokeGlyph(fh, cp, outerHalfWidth, true)
		if !ok {
			log.Warnf("outlined: skipping glyph for code point %U", cp)
			continue
		}
		if !s.AntiAliasing {
			thresholdImage(outer.Image)
		}
		outer.blur(s.OutlineBlurRadius)

		g := compositeOutlined(inner, outer, s.MainColor, s.OutlineColor, s.OutlineBlurRadius)
		g.AdvanceX = inner.AdvanceX + int(math.Round(float64(2*s.OutlineThickness)))
		out = append(out, g)
	}
	return out
}
