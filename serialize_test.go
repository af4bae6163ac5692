package fontatlas

import (
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(w io.Writer, img *Image) error {
	return png.Encode(w, img.ToGoImage())
}

type fakeTexture struct {
	w, h int
	img  *Image
}

func (f *fakeTexture) Width() int  { return f.w }
func (f *fakeTexture) Height() int { return f.h }
func (f *fakeTexture) SetPixelArea(r IntRect, data []byte) error {
	return f.img.Paste(&Image{Width: r.Dx(), Height: r.Dy(), Components: 4, Pix: data}, r.MinX, r.MinY)
}
func (f *fakeTexture) Destroy()     {}
func (f *fakeTexture) Image() *Image { return f.img }

func newFakeTexture(w, h int) *fakeTexture {
	return &fakeTexture{w: w, h: h, img: NewImage(w, h, 4)}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	sf := &SpriteFont{
		FaceName:   "testface",
		PixelSize:  20,
		LineHeight: 24,
		Textures:   []Texture{newFakeTexture(16, 16)},
		Glyphs: map[rune]Glyph{
			'B': {Rect: IntRect{MinX: 2, MinY: 2, MaxX: 6, MaxY: 8}, OffsetX: 1, OffsetY: 2, AdvanceX: 5, Page: 0},
			'A': {Rect: IntRect{MinX: 8, MinY: 2, MaxX: 12, MaxY: 9}, OffsetX: 0, OffsetY: 1, AdvanceX: 6, Page: 0},
		},
	}

	path := filepath.Join(dir, "out.fnt")
	log := NewNopLogger()
	if err := Save(sf, path, log); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cache := NewTextureCache()
	loaded, err := Load(path, cache, log)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.LineHeight != sf.LineHeight {
		t.Errorf("LineHeight = %d, want %d", loaded.LineHeight, sf.LineHeight)
	}
	if len(loaded.Textures) != len(sf.Textures) {
		t.Errorf("len(Textures) = %d, want %d", len(loaded.Textures), len(sf.Textures))
	}
	if len(loaded.Glyphs) != len(sf.Glyphs) {
		t.Fatalf("len(Glyphs) = %d, want %d", len(loaded.Glyphs), len(sf.Glyphs))
	}
	for cp, want := range sf.Glyphs {
		got, ok := loaded.Glyphs[cp]
		if !ok {
			t.Errorf("glyph %q missing after reload", cp)
			continue
		}
		if got != want {
			t.Errorf("glyph %q = %+v, want %+v", cp, got, want)
		}
	}
}

func TestSaveRejectsBadExtension(t *testing.T) {
	dir := t.TempDir()
	sf := &SpriteFont{Textures: []Texture{newFakeTexture(4, 4)}, Glyphs: map[rune]Glyph{}}
	if err := Save(sf, filepath.Join(dir, "out.txt"), NewNopLogger()); err != ErrBadExtension {
		t.Errorf("Save with .txt path: got %v, want ErrBadExtension", err)
	}
}

func TestSaveRejectsMissingCPUImage(t *testing.T) {
	dir := t.TempDir()
	sf := &SpriteFont{Textures: []Texture{&fakeTexture{w: 4, h: 4, img: nil}}, Glyphs: map[rune]Glyph{}}
	if err := Save(sf, filepath.Join(dir, "out.fnt"), NewNopLogger()); err != ErrNoCPUImage {
		t.Errorf("Save with no CPU image: got %v, want ErrNoCPUImage", err)
	}
}

func TestLoadHandWrittenIndex(t *testing.T) {
	dir := t.TempDir()

	page := NewImage(16, 16, 4)
	for i := range page.Pix {
		page.Pix[i] = 255
	}
	pngPath := filepath.Join(dir, "hand_0.png")
	f, err := os.Create(pngPath)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	if err := writeTestPNG(f, page); err != nil {
		t.Fatalf("write png: %v", err)
	}
	f.Close()

	indexXML := `<?xml version="1.0"?>
<font>
    <info face="Hand" size="16"/>
    <common lineHeight="24" pages="1"/>
    <pages>
        <page id="0" file="hand_0.png"/>
    </pages>
    <chars count="3">
        <char id="65" x="0" y="0" width="8" height="8" xoffset="0" yoffset="0" advance_x="9" page="0"/>
        <char id="66" x="8" y="0" width="8" height="8" xoffset="0" yoffset="0" advance_x="9" page="0"/>
        <char id="1071" x="0" y="8" width="8" height="8" xoffset="0" yoffset="0" advance_x="9" page="0"/>
    </chars>
</font>`
	indexPath := filepath.Join(dir, "hand.fnt")
	if err := os.WriteFile(indexPath, []byte(indexXML), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	cache := NewTextureCache()
	sf, err := Load(indexPath, cache, NewNopLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sf.LineHeight != 24 {
		t.Errorf("LineHeight = %d, want 24", sf.LineHeight)
	}
	if len(sf.Textures) != 1 {
		t.Fatalf("len(Textures) = %d, want 1", len(sf.Textures))
	}
	wantCPs := []rune{'A', 'B', 0x042F}
	if len(sf.Glyphs) != len(wantCPs) {
		t.Fatalf("len(Glyphs) = %d, want %d", len(sf.Glyphs), len(wantCPs))
	}
	for _, cp := range wantCPs {
		g, ok := sf.Glyphs[cp]
		if !ok {
			t.Errorf("glyph %U missing", cp)
			continue
		}
		if g.Page != 0 {
			t.Errorf("glyph %U page = %d, want 0", cp, g.Page)
		}
	}
}

func TestSaveEmitsCharsInAscendingCodePointOrder(t *testing.T) {
	dir := t.TempDir()
	sf := &SpriteFont{
		Textures: []Texture{newFakeTexture(8, 8)},
		Glyphs: map[rune]Glyph{
			'c': {Rect: IntRect{MaxX: 1, MaxY: 1}},
			'a': {Rect: IntRect{MaxX: 1, MaxY: 1}},
			'b': {Rect: IntRect{MaxX: 1, MaxY: 1}},
		},
	}
	path := filepath.Join(dir, "order.fnt")
	if err := Save(sf, path, NewNopLogger()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	ia, ib, ic := indexOf(string(data), `id="97"`), indexOf(string(data), `id="98"`), indexOf(string(data), `id="99"`)
	if !(ia < ib && ib < ic) {
		t.Errorf("chars not in ascending code point order: a@%d b@%d c@%d", ia, ib, ic)
	}
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
