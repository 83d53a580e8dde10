package capture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is the image encoding used for frame files.
type Format uint8

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

// ParseFormat returns the format for a name or file extension, with or
// without the leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return PNG, fmt.Errorf("capture: unknown image format %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return "jpg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tif"
	}
	return "png"
}

func (f Format) String() string {
	return f.Ext()
}

// Lossless reports whether the format keeps every pixel intact.
func (f Format) Lossless() bool {
	return f != JPEG
}

func (f Format) encode(w io.Writer, img image.Image, quality int) error {
	switch f {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return png.Encode(w, img)
}
