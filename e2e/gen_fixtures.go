//go:build ignore

// gen_fixtures creates small JPEG inputs for a jpegtx batch smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "cards"), 0o755)

	// Banner, 400x224: both sides are multiples of 16 so every transform
	// is exact without -trim.
	writeJPEG(filepath.Join(dir, "banner.jpg"), gradient(400, 224), 85)

	// Cards at odd sizes to exercise -trim and partial MCU edges.
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.jpeg", i)
		writeJPEG(filepath.Join(dir, "cards", name), stripes(203+i, 150+i*3), 70+i*5)
	}

	// A PNG with a .jpg name; batch must skip it.
	writePNG(filepath.Join(dir, "mislabeled.jpg"), gradient(64, 64))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func stripes(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 30, G: 90, B: 160, A: 255}
			if (x/8)%2 == 0 {
				c = color.NRGBA{R: 240, G: 200, B: 40, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA, quality int) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		panic(err)
	}
}
