package fontatlas

// IntRect is an integer-pixel rectangle within a texture page, with Min
// inclusive and Max exclusive, mirroring image.Rectangle's convention but
// kept as a plain value type so the serialized index format (serialize.go)
// doesn't need to import the image package.
type IntRect struct {
	MinX, MinY, MaxX, MaxY int
}

// Dx and Dy return the rectangle's width and height.
func (r IntRect) Dx() int { return r.MaxX - r.MinX }
func (r IntRect) Dy() int { return r.MaxY - r.MinY }

// skylineNode is one segment of a page's skyline: the packer's free space
// above y=0 is bounded from above by a sequence of these, left to right,
// covering [0,pageWidth) with no gaps.
type skylineNode struct {
	x, width, y int
}

// page accumulates placed rectangles against one skyline.
type page struct {
	width, height int
	skyline       []skylineNode
}

func newPage(width, height int) *page {
	return &page{
		width:   width,
		height:  height,
		skyline: []skylineNode{{x: 0, width: width, y: 0}},
	}
}

// fit returns the lowest y at which a rect of the given size can sit
// starting at skyline index i, and whether it fits within the page at all.
func (p *page) fit(i, width int) (y int, ok bool) {
	x := p.skyline[i].x
	if x+width > p.width {
		return 0, false
	}
	widthLeft := width
	j := i
	y = 0
	for widthLeft > 0 {
		if j >= len(p.skyline) {
			return 0, false
		}
		if p.skyline[j].y > y {
			y = p.skyline[j].y
		}
		widthLeft -= p.skyline[j].width
		j++
	}
	return y, true
}

// place finds the best (lowest, then leftmost) skyline position for a
// width x height rect, splits/merges the skyline nodes it covers, and
// returns the rect's top-left corner. ok is false if the rect does not fit
// anywhere on the page.
func (p *page) place(width, height int) (x, y int, ok bool) {
	bestY := p.height + 1
	bestX := 0
	bestI := -1
	for i := range p.skyline {
		fy, fits := p.fit(i, width)
		if !fits {
			continue
		}
		if fy+height > p.height {
			continue
		}
		if fy < bestY || (fy == bestY && p.skyline[i].x < bestX) {
			bestY = fy
			bestX = p.skyline[i].x
			bestI = i
		}
	}
	if bestI < 0 {
		return 0, 0, false
	}
	p.insert(bestX, bestY, width, height)
	return bestX, bestY, true
}

// insert rewrites the skyline to reflect a newly placed rect occupying
// [x,x+width) at height y+height, merging adjacent nodes left at the same
// resulting height.
func (p *page) insert(x, y, width, height int) {
	newNode := skylineNode{x: x, width: width, y: y + height}

	var out []skylineNode
	inserted := false
	for _, n := range p.skyline {
		nEnd := n.x + n.width
		newEnd := newNode.x + newNode.width

		if nEnd <= newNode.x || n.x >= newEnd {
			out = append(out, n)
			continue
		}
		if !inserted {
			if n.x < newNode.x {
				out = append(out, skylineNode{x: n.x, width: newNode.x - n.x, y: n.y})
			}
			out = append(out, newNode)
			inserted = true
		}
		if nEnd > newEnd {
			out = append(out, skylineNode{x: newEnd, width: nEnd - newEnd, y: n.y})
		}
	}
	if !inserted {
		out = append(out, newNode)
	}

	merged := out[:0]
	for _, n := range out {
		if len(merged) > 0 && merged[len(merged)-1].y == n.y && merged[len(merged)-1].x+merged[len(merged)-1].width == n.x {
			merged[len(merged)-1].width += n.width
		} else {
			merged = append(merged, n)
		}
	}
	p.skyline = merged
}

// packer assigns disjoint, padded rectangles to one or more fixed-size
// pages using a skyline best-fit strategy, generalizing the single-page
// row packer in dantero-ps-mini-mc-go's internal/graphics/font.go atlas
// builder to multiple pages and arbitrary insertion order. A packer is
// single-use: once Pack has run, calling it again returns ErrPackerReused.
type packer struct {
	pageWidth, pageHeight int
	padding               int
	pages                 []*page
	used                  bool
}

func newPacker(pageWidth, pageHeight, padding int) *packer {
	return &packer{pageWidth: pageWidth, pageHeight: pageHeight, padding: padding}
}

// Pack places every glyph's image into a page, writing back Page and Rect.
// Rect bounds the glyph's own pixels; padding is reserved around it on the
// page so neighboring glyphs never touch. Glyphs with a zero-size image
// (space, and other whitespace/invisible code points) consume no page
// space and are assigned Page 0 with an empty Rect.
func (pk *packer) Pack(glyphs []*RenderedGlyph) error {
	if pk.used {
		return ErrPackerReused
	}
	pk.used = true

	padded := 2 * pk.padding
	for _, g := range glyphs {
		w, h := g.Image.Width, g.Image.Height
		if w == 0 || h == 0 {
			g.Page = 0
			g.Rect = IntRect{}
			continue
		}
		if w+padded > pk.pageWidth || h+padded > pk.pageHeight {
			return ErrRectTooLarge
		}

		placed := false
		for pi, pg := range pk.pages {
			if x, y, ok := pg.place(w+padded, h+padded); ok {
				g.Page = pi
				g.Rect = IntRect{MinX: x + pk.padding, MinY: y + pk.padding, MaxX: x + pk.padding + w, MaxY: y + pk.padding + h}
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		pg := newPage(pk.pageWidth, pk.pageHeight)
		pk.pages = append(pk.pages, pg)
		x, y, ok := pg.place(w+padded, h+padded)
		if !ok {
			return ErrRectTooLarge
		}
		g.Page = len(pk.pages) - 1
		g.Rect = IntRect{MinX: x + pk.padding, MinY: y + pk.padding, MaxX: x + pk.padding + w, MaxY: y + pk.padding + h}
	}

	if len(pk.pages) == 0 {
		pk.pages = append(pk.pages, newPage(pk.pageWidth, pk.pageHeight))
	}
	return nil
}

// PageCount returns how many pages Pack used (at least one, even if every
// glyph was zero-sized).
func (pk *packer) PageCount() int {
	return len(pk.pages)
}
