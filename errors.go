package fontatlas

// constErr is a sentinel error type: a plain string that implements error,
// so it can be declared as a package-level const and compared with errors.Is.
type constErr string

func (e constErr) Error() string { return string(e) }

// ErrSourceMissing indicates the font file could not be opened or read.
const ErrSourceMissing constErr = "font source missing or unreadable"

// ErrCharmapUnavailable indicates the font has no usable Unicode charmap.
const ErrCharmapUnavailable constErr = "no unicode charmap available"

// ErrRectTooLarge indicates a rectangle handed to the packer can never fit
// any page of the configured size.
const ErrRectTooLarge constErr = "rect exceeds page size"

// ErrPackerReused indicates Pack was called more than once on the same Packer.
const ErrPackerReused constErr = "packer already packed"

// ErrNoCPUImage indicates a page texture has no retained CPU-side image, so
// it cannot be saved.
const ErrNoCPUImage constErr = "texture has no retained image"

// ErrBadExtension indicates a save path's extension is not "fnt".
const ErrBadExtension constErr = "index path must have .fnt extension"

// ErrParse indicates the index file could not be parsed as a font index.
const ErrParse constErr = "cannot parse font index"

// ErrTextureNotFound indicates a page referenced by the index could not be
// resolved through the texture cache.
const ErrTextureNotFound constErr = "page texture not found"

// ErrComponentMismatch indicates Paste was asked to copy between images with
// different component counts.
const ErrComponentMismatch constErr = "images have different component counts"

// ErrOutOfBounds indicates Paste would write outside the destination image.
const ErrOutOfBounds constErr = "paste destination out of bounds"
