package pnts

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/ecopia-map/tiles_pipeline/internal/attributes"
	"github.com/ecopia-map/tiles_pipeline/internal/converters"
	"github.com/ecopia-map/tiles_pipeline/internal/data"
	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/golang/glog"
)

const (
	semanticNormalOct16P = "NORMAL_OCT16P"
	semanticNormal       = "NORMAL"
	semanticRGB565       = "RGB565"
	semanticRGB          = "RGB"
	semanticRGBA         = "RGBA"
	semanticBatchID      = "BATCH_ID"
	semanticPointsLength = "POINTS_LENGTH"
	semanticExtensions   = "extensions"
)

// byte size per point of the per-point semantics
var perPointSizes = map[string]int{
	"POSITION":           12,
	"POSITION_QUANTIZED": 6,
	semanticRGBA:         4,
	semanticRGB:          3,
	semanticRGB565:       2,
	semanticNormal:       12,
	semanticNormalOct16P: 4,
}

// byte size of the global semantics that may be stored in the binary body
var globalSizes = map[string]int{
	"RTC_CENTER":              12,
	"QUANTIZED_VOLUME_OFFSET": 12,
	"QUANTIZED_VOLUME_SCALE":  12,
	"CONSTANT_RGBA":           4,
	"BATCH_LENGTH":            4,
}

var componentTypeSizes = map[string]int{
	"UNSIGNED_BYTE":  1,
	"UNSIGNED_SHORT": 2,
	"UNSIGNED_INT":   4,
}

type binaryBodyReference struct {
	ByteOffset    *int   `json:"byteOffset"`
	ComponentType string `json:"componentType,omitempty"`
}

type binaryProperty struct {
	name   string
	ref    binaryBodyReference
	length int
}

// AttributeDecoder replaces the oct-encoded NORMAL_OCT16P normals of point
// clouds with float NORMAL vectors and RGB565 colors with 8 bit RGB.
type AttributeDecoder struct{}

func NewAttributeDecoder() converters.ContentConverter {
	return &AttributeDecoder{}
}

func (c *AttributeDecoder) Convert(item *data.ContentItem) (*data.ContentItem, error) {
	if item.ContentType() != data.ContentTypePnts {
		return item, nil
	}

	p, err := Read(item.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", item.URI)
	}
	changed, err := DecodeAttributes(p)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding attributes of %s", item.URI)
	}
	if !changed {
		return item, nil
	}

	content, err := p.Bytes()
	if err != nil {
		return nil, errors.Wrapf(err, "writing %s", item.URI)
	}
	return data.NewContentItem(item.URI, content), nil
}

// DecodeAttributes rewrites the compressed attributes of the pnts in place.
// It reports whether anything changed. Draco compressed point clouds are left
// alone.
func DecodeAttributes(p *Pnts) (bool, error) {
	_, hasNormals := p.FeatureTable[semanticNormalOct16P]
	_, hasColors := p.FeatureTable[semanticRGB565]
	if !hasNormals && !hasColors {
		return false, nil
	}
	if _, ok := p.FeatureTable[semanticExtensions]; ok {
		glog.Warningln("pnts feature table has extensions, compressed attributes are kept")
		return false, nil
	}

	var pointsLength int
	if err := json.Unmarshal(p.FeatureTable[semanticPointsLength], &pointsLength); err != nil {
		return false, errors.Wrap(err, "reading POINTS_LENGTH")
	}
	if pointsLength < 0 {
		return false, errors.Newf("invalid POINTS_LENGTH %d", pointsLength)
	}

	properties, err := collectBinaryProperties(p, pointsLength)
	if err != nil {
		return false, err
	}

	newTable := make(map[string]json.RawMessage, len(p.FeatureTable))
	for name, value := range p.FeatureTable {
		newTable[name] = value
	}
	var newBinary []byte
	appendProperty := func(name string, content []byte, extra string) {
		newBinary = padBinaryTo(newBinary, 4)
		newTable[name] = json.RawMessage(`{"byteOffset":` + strconv.Itoa(len(newBinary)) + extra + `}`)
		newBinary = append(newBinary, content...)
	}

	var normalOct16P, rgb565 []byte
	for _, property := range properties {
		content := p.FeatureTableBinary[*property.ref.ByteOffset : *property.ref.ByteOffset+property.length]
		switch property.name {
		case semanticNormalOct16P:
			normalOct16P = content
			delete(newTable, property.name)
			continue
		case semanticRGB565:
			rgb565 = content
			delete(newTable, property.name)
			continue
		}
		extra := ""
		if property.ref.ComponentType != "" {
			extra = `,"componentType":"` + property.ref.ComponentType + `"`
		}
		appendProperty(property.name, content, extra)
	}

	if normalOct16P != nil {
		if _, ok := p.FeatureTable[semanticNormal]; !ok {
			appendProperty(semanticNormal, decodeNormals(normalOct16P, pointsLength), "")
		}
	}
	if rgb565 != nil {
		_, hasRGB := p.FeatureTable[semanticRGB]
		_, hasRGBA := p.FeatureTable[semanticRGBA]
		if !hasRGB && !hasRGBA {
			appendProperty(semanticRGB, decodeColors(rgb565, pointsLength), "")
		}
	}

	p.FeatureTable = newTable
	p.FeatureTableBinary = newBinary
	return true, nil
}

func collectBinaryProperties(p *Pnts, pointsLength int) ([]binaryProperty, error) {
	names := make([]string, 0, len(p.FeatureTable))
	for name := range p.FeatureTable {
		names = append(names, name)
	}
	sort.Strings(names)

	var properties []binaryProperty
	for _, name := range names {
		raw := p.FeatureTable[name]
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var ref binaryBodyReference
		if err := json.Unmarshal(raw, &ref); err != nil || ref.ByteOffset == nil {
			continue
		}

		length, err := propertyLength(name, ref, pointsLength)
		if err != nil {
			return nil, err
		}
		if *ref.ByteOffset < 0 || length > len(p.FeatureTableBinary)-*ref.ByteOffset {
			return nil, errors.Newf("%s exceeds the feature table binary (%d+%d > %d)",
				name, *ref.ByteOffset, length, len(p.FeatureTableBinary))
		}
		properties = append(properties, binaryProperty{name: name, ref: ref, length: length})
	}
	return properties, nil
}

func propertyLength(name string, ref binaryBodyReference, pointsLength int) (int, error) {
	if size, ok := perPointSizes[name]; ok {
		return perPointLength(name, size, pointsLength)
	}
	if size, ok := globalSizes[name]; ok {
		return size, nil
	}
	if name == semanticBatchID {
		componentType := ref.ComponentType
		if componentType == "" {
			componentType = "UNSIGNED_SHORT"
		}
		size, ok := componentTypeSizes[componentType]
		if !ok {
			return 0, errors.Newf("invalid BATCH_ID componentType %q", componentType)
		}
		return perPointLength(name, size, pointsLength)
	}
	return 0, errors.Newf("unknown feature table property %s", name)
}

func perPointLength(name string, size int, pointsLength int) (int, error) {
	if pointsLength > math.MaxInt32/size {
		return 0, errors.Newf("%s of %d points is too large", name, pointsLength)
	}
	return size * pointsLength, nil
}

func decodeNormals(normalOct16P []byte, pointsLength int) []byte {
	out := make([]byte, pointsLength*12)
	for i := 0; i < pointsLength; i++ {
		x := binary.LittleEndian.Uint16(normalOct16P[i*4:])
		y := binary.LittleEndian.Uint16(normalOct16P[i*4+2:])
		normal := attributes.OctDecode(int(x), int(y))
		for j, component := range normal {
			binary.LittleEndian.PutUint32(out[i*12+j*4:], math.Float32bits(float32(component)))
		}
	}
	return out
}

func decodeColors(rgb565 []byte, pointsLength int) []byte {
	out := make([]byte, pointsLength*3)
	for i := 0; i < pointsLength; i++ {
		rgba := attributes.DecodeRGB565ToRGBA(binary.LittleEndian.Uint16(rgb565[i*2:]))
		for j := 0; j < 3; j++ {
			out[i*3+j] = uint8(math.Round(rgba[j] * 255.0))
		}
	}
	return out
}

func padBinaryTo(content []byte, multiple int) []byte {
	if paddingSize := len(content) % multiple; paddingSize != 0 {
		content = append(content, make([]byte, multiple-paddingSize)...)
	}
	return content
}
