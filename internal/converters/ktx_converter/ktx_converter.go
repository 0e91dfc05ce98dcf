package ktx_converter

import (
	"path"
	"strings"

	"github.com/ecopia-map/tiles_pipeline/internal/converters"
	"github.com/ecopia-map/tiles_pipeline/internal/data"
	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/ktx"
)

// KtxConverter re-encodes image content as KTX2. The URI extension is
// replaced with .ktx2.
type KtxConverter struct {
	converter *ktx.Converter
	options   *ktx.Options
}

func NewKtxConverter(converter *ktx.Converter, options *ktx.Options) converters.ContentConverter {
	return &KtxConverter{
		converter: converter,
		options:   options,
	}
}

func (c *KtxConverter) Convert(item *data.ContentItem) (*data.ContentItem, error) {
	switch item.ContentType() {
	case data.ContentTypePng, data.ContentTypeJpeg, data.ContentTypeGif, data.ContentTypeWebp,
		data.ContentTypeBmp, data.ContentTypeTiff:
	default:
		return item, nil
	}

	encoded, err := c.converter.ConvertImageData(item.Data, c.options)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s to KTX", item.URI)
	}
	return data.NewContentItem(ktxURI(item.URI), encoded), nil
}

func ktxURI(uri string) string {
	return strings.TrimSuffix(uri, path.Ext(uri)) + ".ktx2"
}
