package probe

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes an image file without decoding its pixels.
type Info struct {
	Path   string
	Format string // as registered with package image: "jpeg", "png", "webp", ...
	Width  int
	Height int
	Size   int64
}

// IsJPEG reports whether the payload is a JPEG regardless of extension.
func (i Info) IsJPEG() bool { return i.Format == "jpeg" }

// Inspect reads only the image header. Decoders for the common non-JPEG
// formats are registered so a mislabeled file is reported by its real
// format instead of failing.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{Path: path, Size: st.Size()}, fmt.Errorf("inspect %s: %w", path, err)
	}
	return Info{
		Path:   path,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   st.Size(),
	}, nil
}

// Verify fully decodes the image at path and returns its dimensions.
// EXIF orientation is ignored so the result reflects the stored pixels.
func Verify(path string) (width, height int, err error) {
	img, err := imaging.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("verify %s: %w", path, err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
