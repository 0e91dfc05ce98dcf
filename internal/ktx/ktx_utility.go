// Package ktx converts images into KTX2 containers using either the ETC1S or
// the UASTC compression family.
package ktx

import (
	"os"
	"path/filepath"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/tools"
	"github.com/golang/glog"
)

// MaxImageDimension bounds the width and height of an encoded image.
const MaxImageDimension = 16384

type Converter struct {
	newBlockEncoder BlockEncoderFactory
}

func NewConverter(newBlockEncoder BlockEncoderFactory) *Converter {
	return &Converter{
		newBlockEncoder: newBlockEncoder,
	}
}

// ConvertImageFile applies KTX compression to the given input file and writes
// the result to the given output file, creating its directory if needed.
func (c *Converter) ConvertImageFile(inputFileName string, outputFileName string, options *Options) error {
	inputImageData, err := os.ReadFile(inputFileName)
	if err != nil {
		return errors.Wrapf(err, "reading %s", inputFileName)
	}

	outputImageData, err := c.ConvertImageData(inputImageData, options)
	if err != nil {
		return errors.Wrapf(err, "converting %s", inputFileName)
	}

	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(outputFileName)); err != nil {
		return errors.Wrapf(err, "creating output directory for %s", outputFileName)
	}
	if err := os.WriteFile(outputFileName, outputImageData, 0666); err != nil {
		return errors.Wrapf(err, "writing %s", outputFileName)
	}
	return nil
}

// ConvertImageData applies KTX compression to encoded image data (PNG, JPEG,
// GIF, BMP, TIFF or WebP) and returns the KTX2 bytes.
func (c *Converter) ConvertImageData(inputImageData []byte, options *Options) ([]byte, error) {
	width, height, rgbaPixels, err := DecodeRGBA(inputImageData)
	if err != nil {
		return nil, err
	}
	return c.EncodeImageData(width, height, rgbaPixels, options)
}

// EncodeImageData encodes sRGB RGBA pixels, 4 bytes per pixel, into a KTX2
// container. Nil options select ETC1S with the sRGB transfer function.
func (c *Converter) EncodeImageData(width, height int, rgbaPixels []byte, options *Options) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.NewDataError("could not determine size of image data")
	}
	if width > MaxImageDimension || height > MaxImageDimension {
		return nil, errors.NewDataErrorf(nil, "image of %dx%d pixels exceeds %d pixels per side",
			width, height, MaxImageDimension)
	}
	if len(rgbaPixels) != width*height*4 {
		return nil, errors.NewDataErrorf(nil, "expected %d bytes of RGBA pixels for %dx%d image, got %d",
			width*height*4, width, height, len(rgbaPixels))
	}

	if options == nil {
		options = DefaultOptions()
	}
	params := ResolveEncoderParams(options)

	blockEncoder, err := c.newBlockEncoder()
	if err != nil {
		return nil, errors.NewEncodeError(err, "creating block encoder")
	}
	if err := blockEncoder.Configure(params); err != nil {
		return nil, errors.NewEncodeError(err, "configuring block encoder")
	}
	if err := blockEncoder.SetSliceSourceImage(rgbaPixels, width, height); err != nil {
		return nil, errors.NewEncodeError(err, "setting %dx%d source image", width, height)
	}

	glog.Infof("Encoding %dx%d pixels to KTX", width, height)
	if glog.V(2) {
		glog.Infof("Encoding options:\n%s", tools.FmtJSONIndentString(options))
	}

	result, err := blockEncoder.Encode()
	if err != nil {
		return nil, errors.NewEncodeError(err, "encoding %dx%d pixels", width, height)
	}
	if len(result) == 0 {
		return nil, errors.NewEncodeError(nil, "block encoder produced no data for %dx%d pixels", width, height)
	}

	glog.Infof("Encoding %dx%d pixels to KTX DONE", width, height)
	return result, nil
}
