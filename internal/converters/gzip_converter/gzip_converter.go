package gzip_converter

import (
	"bytes"
	"io"

	"github.com/ecopia-map/tiles_pipeline/internal/converters"
	"github.com/ecopia-map/tiles_pipeline/internal/data"
	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/klauspost/compress/gzip"
)

// GzipConverter compresses every item that is not gzipped yet. The URI is
// kept, as 3D Tiles servers deliver gzipped content under the plain name.
type GzipConverter struct {
	level int
}

func NewGzipConverter(level int) converters.ContentConverter {
	return &GzipConverter{
		level: level,
	}
}

func (c *GzipConverter) Convert(item *data.ContentItem) (*data.ContentItem, error) {
	if item.ContentType() == data.ContentTypeGzip {
		return item, nil
	}

	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(item.Data); err != nil {
		_ = writer.Close()
		return nil, errors.Wrapf(err, "compressing %s", item.URI)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrapf(err, "compressing %s", item.URI)
	}
	return data.NewContentItem(item.URI, buf.Bytes()), nil
}

type UngzipConverter struct{}

func NewUngzipConverter() converters.ContentConverter {
	return &UngzipConverter{}
}

func (c *UngzipConverter) Convert(item *data.ContentItem) (*data.ContentItem, error) {
	if item.ContentType() != data.ContentTypeGzip {
		return item, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(item.Data))
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing %s", item.URI)
	}
	defer reader.Close()

	uncompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing %s", item.URI)
	}
	return data.NewContentItem(item.URI, uncompressed), nil
}
