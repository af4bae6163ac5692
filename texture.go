package fontatlas

import (
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
)

// Texture is the GPU-upload collaborator §1 places out of scope as an
// external interface: the builder and loader only ever talk to a Texture,
// never to go-gl/gl directly, so a headless caller can swap in a test
// double.
type Texture interface {
	Width() int
	Height() int
	SetPixelArea(r IntRect, data []byte) error
	Destroy()
	// Image returns the retained CPU-side pixel buffer, or nil if the
	// texture was constructed without one (e.g. loaded from the cache by a
	// caller that discarded its source bytes). Save requires a non-nil
	// Image on every page.
	Image() *Image
}

// glTexture wraps an OpenGL texture, adapted from kroppt/gfx.Texture:
// trilinear minification and linear magnification are fixed at
// construction, matching the builder's §4.6 requirement, and the source
// image is retained for Save.
type glTexture struct {
	id     uint32
	width  int
	height int
	img    *Image
}

// newGLTexture uploads img (4-component RGBA) as a new GPU texture with
// trilinear minification and linear magnification filtering.
func newGLTexture(img *Image) Texture {
	t := &glTexture{width: img.Width, height: img.Height, img: img}

	var ptr unsafe.Pointer
	if len(img.Pix) > 0 {
		ptr = unsafe.Pointer(&img.Pix[0])
	}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Width), int32(img.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return t
}

func (t *glTexture) Width() int  { return t.width }
func (t *glTexture) Height() int { return t.height }

func (t *glTexture) SetPixelArea(r IntRect, data []byte) error {
	if r.MinX < 0 || r.MinY < 0 || r.MaxX > t.width || r.MaxY > t.height {
		return ErrOutOfBounds
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TextureSubImage2D(t.id, 0, int32(r.MinX), int32(r.MinY), int32(r.Dx()), int32(r.Dy()), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&data[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

func (t *glTexture) Destroy() {
	gl.DeleteTextures(1, &t.id)
}

func (t *glTexture) Image() *Image {
	return t.img
}

// TextureCache is the process-wide path-keyed texture cache §5 and §9
// describe as a collaborator injected into the core rather than kept as a
// package-level variable, generalizing kroppt/gfx.font.go's package-level
// fontMap.
type TextureCache struct {
	byPath map[string]Texture
}

// NewTextureCache returns an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{byPath: make(map[string]Texture)}
}

// Put registers t under path, for later retrieval by Get. A page texture is
// a shared, weakly-co-owned resource between its sprite-font and the cache
// (§5): calling Put does not take ownership away from the caller.
func (c *TextureCache) Put(path string, t Texture) {
	c.byPath[path] = t
}

// Get returns the texture previously registered under path, if any.
func (c *TextureCache) Get(path string) (Texture, bool) {
	t, ok := c.byPath[path]
	return t, ok
}

// Delete removes path's entry, without destroying the texture itself: the
// cache is only a weak co-owner (§5).
func (c *TextureCache) Delete(path string) {
	delete(c.byPath, path)
}
