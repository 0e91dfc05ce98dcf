package ktx

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeRGBA decodes image data and returns its pixels as non-premultiplied
// RGBA, 4 bytes per pixel. Images without alpha get an opaque alpha channel.
// Embedded color profiles are not applied; pixels are taken to be sRGB.
func DecodeRGBA(data []byte) (width, height int, rgbaPixels []byte, err error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, errors.NewDataErrorf(err, "could not decode image data")
	}
	if config.Width > MaxImageDimension || config.Height > MaxImageDimension {
		return 0, 0, nil, errors.NewDataErrorf(nil, "image of %dx%d pixels exceeds %d pixels per side",
			config.Width, config.Height, MaxImageDimension)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, errors.NewDataErrorf(err, "could not decode image data")
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return 0, 0, nil, errors.NewDataError("could not determine size of image data")
	}

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == width*4 && bounds.Min == (image.Point{}) && len(nrgba.Pix) == width*height*4 {
		return width, height, nrgba.Pix, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return width, height, dst.Pix, nil
}
