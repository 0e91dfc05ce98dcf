package data

import (
	"bytes"
	"path"
	"strings"
)

type ContentType string

const (
	ContentTypeGlb     ContentType = "CONTENT_TYPE_GLB"
	ContentTypeB3dm    ContentType = "CONTENT_TYPE_B3DM"
	ContentTypeI3dm    ContentType = "CONTENT_TYPE_I3DM"
	ContentTypeCmpt    ContentType = "CONTENT_TYPE_CMPT"
	ContentTypePnts    ContentType = "CONTENT_TYPE_PNTS"
	ContentTypeSubtree ContentType = "CONTENT_TYPE_SUBT"
	ContentTypePng     ContentType = "CONTENT_TYPE_PNG"
	ContentTypeJpeg    ContentType = "CONTENT_TYPE_JPEG"
	ContentTypeGif     ContentType = "CONTENT_TYPE_GIF"
	ContentTypeWebp    ContentType = "CONTENT_TYPE_WEBP"
	ContentTypeBmp     ContentType = "CONTENT_TYPE_BMP"
	ContentTypeTiff    ContentType = "CONTENT_TYPE_TIFF"
	ContentTypeKtx2    ContentType = "CONTENT_TYPE_KTX2"
	ContentTypeGzip    ContentType = "CONTENT_TYPE_GZIP"
	ContentTypeGltf    ContentType = "CONTENT_TYPE_GLTF"
	ContentTypeTileset ContentType = "CONTENT_TYPE_TILESET"
	ContentTypeJson    ContentType = "CONTENT_TYPE_JSON"
	ContentTypeUnknown ContentType = "CONTENT_TYPE_UNKNOWN"
)

// ContentItem is a single file of a tileset, addressed by its slash separated
// path relative to the tileset root.
type ContentItem struct {
	URI  string
	Data []byte
}

func NewContentItem(uri string, data []byte) *ContentItem {
	return &ContentItem{
		URI:  uri,
		Data: data,
	}
}

var magics = []struct {
	magic       []byte
	contentType ContentType
}{
	{[]byte("glTF"), ContentTypeGlb},
	{[]byte("b3dm"), ContentTypeB3dm},
	{[]byte("i3dm"), ContentTypeI3dm},
	{[]byte("cmpt"), ContentTypeCmpt},
	{[]byte("pnts"), ContentTypePnts},
	{[]byte("subt"), ContentTypeSubtree},
	{[]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, ContentTypePng},
	{[]byte{0xFF, 0xD8, 0xFF}, ContentTypeJpeg},
	{[]byte("GIF8"), ContentTypeGif},
	{[]byte{0xAB, 'K', 'T', 'X', ' ', '2', '0', 0xBB}, ContentTypeKtx2},
	{[]byte{0x1F, 0x8B}, ContentTypeGzip},
	{[]byte("II*\x00"), ContentTypeTiff},
	{[]byte("MM\x00*"), ContentTypeTiff},
}

// ContentType determines the type of the item from its leading bytes,
// falling back to the file extension for text formats.
func (c *ContentItem) ContentType() ContentType {
	for _, m := range magics {
		if bytes.HasPrefix(c.Data, m.magic) {
			return m.contentType
		}
	}
	if len(c.Data) >= 12 && bytes.Equal(c.Data[:4], []byte("RIFF")) && bytes.Equal(c.Data[8:12], []byte("WEBP")) {
		return ContentTypeWebp
	}
	if len(c.Data) >= 14 && bytes.HasPrefix(c.Data, []byte("BM")) && bytes.Equal(c.Data[6:10], []byte{0, 0, 0, 0}) {
		return ContentTypeBmp
	}

	switch strings.ToLower(path.Ext(c.URI)) {
	case ".gltf":
		return ContentTypeGltf
	case ".json":
		if isTilesetJson(c.Data) {
			return ContentTypeTileset
		}
		return ContentTypeJson
	}
	return ContentTypeUnknown
}

func isTilesetJson(data []byte) bool {
	return bytes.Contains(data, []byte(`"asset"`)) && bytes.Contains(data, []byte(`"root"`))
}
