package pnts

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/ecopia-map/tiles_pipeline/internal/attributes"
	"github.com/ecopia-map/tiles_pipeline/internal/data"
	"github.com/ecopia-map/tiles_pipeline/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le16(values ...uint16) []byte {
	out := make([]byte, 0, len(values)*2)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

func le32f(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func readFloat32s(b []byte, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return out
}

// two points: positions (12 bytes each), then oct normals, then colors,
// then one byte batch ids
func samplePnts(t *testing.T) []byte {
	var body []byte
	body = append(body, le32f(1, 2, 3, 4, 5, 6)...)  // POSITION at 0
	body = append(body, le16(32768, 32768, 0, 0)...) // NORMAL_OCT16P at 24
	body = append(body, le16(0xFFFF, 0xF800)...)     // RGB565 at 32
	body = append(body, 7, 9)                        // BATCH_ID at 36

	p := &Pnts{
		Version: 1,
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`2`),
			"RTC_CENTER":    json.RawMessage(`[10.5,20.5,30.5]`),
			"POSITION":      json.RawMessage(`{"byteOffset":0}`),
			"NORMAL_OCT16P": json.RawMessage(`{"byteOffset":24}`),
			"RGB565":        json.RawMessage(`{"byteOffset":32}`),
			"BATCH_ID":      json.RawMessage(`{"byteOffset":36,"componentType":"UNSIGNED_BYTE"}`),
			"BATCH_LENGTH":  json.RawMessage(`10`),
		},
		FeatureTableBinary: body,
		BatchTableJSON:     []byte(`{"INTENSITY":{"byteOffset":0,"componentType":"UNSIGNED_BYTE","type":"SCALAR"}}`),
		BatchTableBinary:   []byte{100, 200},
	}
	content, err := p.Bytes()
	require.NoError(t, err)
	return content
}

func TestReadWriteRoundTrip(t *testing.T) {
	content := samplePnts(t)
	assert.Equal(t, "pnts", string(content[:4]))
	assert.Equal(t, uint32(len(content)), binary.LittleEndian.Uint32(content[8:]))
	assert.Zero(t, len(content)%8)

	p, err := Read(content)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), p.Version)
	assert.JSONEq(t, `[10.5,20.5,30.5]`, string(p.FeatureTable["RTC_CENTER"]))
	assert.Equal(t, []byte{100, 200}, p.BatchTableBinary[:2])

	again, err := p.Bytes()
	require.NoError(t, err)
	assert.Equal(t, content, again)
}

func TestReadRejectsBrokenHeaders(t *testing.T) {
	_, err := Read([]byte("pnts"))
	assert.Error(t, err)

	content := samplePnts(t)
	bad := append([]byte("b3dm"), content[4:]...)
	_, err = Read(bad)
	assert.Error(t, err)

	_, err = Read(content[:len(content)-8])
	assert.Error(t, err)
}

func TestAttributeDecoder(t *testing.T) {
	item := data.NewContentItem("0/content.pnts", samplePnts(t))
	out, err := NewAttributeDecoder().Convert(item)
	require.NoError(t, err)
	assert.Equal(t, "0/content.pnts", out.URI)

	p, err := Read(out.Data)
	require.NoError(t, err)
	assert.NotContains(t, p.FeatureTable, "NORMAL_OCT16P")
	assert.NotContains(t, p.FeatureTable, "RGB565")
	assert.JSONEq(t, `2`, string(p.FeatureTable["POINTS_LENGTH"]))
	assert.JSONEq(t, `10`, string(p.FeatureTable["BATCH_LENGTH"]))

	offset := func(name string) int {
		var ref binaryBodyReference
		require.NoError(t, json.Unmarshal(p.FeatureTable[name], &ref))
		require.NotNil(t, ref.ByteOffset, name)
		assert.Zero(t, *ref.ByteOffset%4, "%s is aligned", name)
		return *ref.ByteOffset
	}

	positions := readFloat32s(p.FeatureTableBinary[offset("POSITION"):], 6)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, positions)

	batchOffset := offset("BATCH_ID")
	assert.Equal(t, []byte{7, 9}, p.FeatureTableBinary[batchOffset:batchOffset+2])
	assert.Contains(t, string(p.FeatureTable["BATCH_ID"]), "UNSIGNED_BYTE")

	normals := readFloat32s(p.FeatureTableBinary[offset("NORMAL"):], 6)
	expectedFirst := attributes.OctDecode(32768, 32768)
	for i := 0; i < 3; i++ {
		assert.True(t, tools.IsFloatEqual(expectedFirst[i], normals[i]), "normal component %d", i)
	}
	assert.InDelta(t, -1.0, normals[5], 1e-6)

	colorOffset := offset("RGB")
	assert.Equal(t, []byte{255, 255, 255, 255, 0, 0}, p.FeatureTableBinary[colorOffset:colorOffset+6])

	assert.Equal(t, []byte{100, 200}, p.BatchTableBinary[:2])
}

func TestAttributeDecoderKeepsExistingColors(t *testing.T) {
	p := &Pnts{
		Version: 1,
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`1`),
			"POSITION":      json.RawMessage(`{"byteOffset":0}`),
			"RGBA":          json.RawMessage(`{"byteOffset":12}`),
			"RGB565":        json.RawMessage(`{"byteOffset":16}`),
		},
		FeatureTableBinary: append(append(le32f(0, 0, 0), 1, 2, 3, 4), le16(0xFFFF)...),
	}

	changed, err := DecodeAttributes(p)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotContains(t, p.FeatureTable, "RGB565")
	assert.NotContains(t, p.FeatureTable, "RGB")
	assert.Contains(t, p.FeatureTable, "RGBA")
}

func TestAttributeDecoderLeavesPlainPointClouds(t *testing.T) {
	p := &Pnts{
		Version: 1,
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`1`),
			"POSITION":      json.RawMessage(`{"byteOffset":0}`),
		},
		FeatureTableBinary: le32f(1, 2, 3),
	}
	content, err := p.Bytes()
	require.NoError(t, err)

	item := data.NewContentItem("content.pnts", content)
	out, err := NewAttributeDecoder().Convert(item)
	require.NoError(t, err)
	assert.Same(t, item, out)
}

func TestAttributeDecoderRejectsUnknownBinaryProperty(t *testing.T) {
	p := &Pnts{
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`1`),
			"NORMAL_OCT16P": json.RawMessage(`{"byteOffset":0}`),
			"MYSTERY":       json.RawMessage(`{"byteOffset":4}`),
		},
		FeatureTableBinary: make([]byte, 8),
	}
	_, err := DecodeAttributes(p)
	assert.ErrorContains(t, err, "MYSTERY")
}

func TestAttributeDecoderRejectsTruncatedBinary(t *testing.T) {
	p := &Pnts{
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`4`),
			"NORMAL_OCT16P": json.RawMessage(`{"byteOffset":0}`),
		},
		FeatureTableBinary: make([]byte, 8),
	}
	_, err := DecodeAttributes(p)
	assert.Error(t, err)
}

func TestAttributeDecoderRejectsNegativePointsLength(t *testing.T) {
	p := &Pnts{
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`-1`),
			"NORMAL_OCT16P": json.RawMessage(`{"byteOffset":16}`),
		},
		FeatureTableBinary: make([]byte, 8),
	}
	assert.NotPanics(t, func() {
		_, err := DecodeAttributes(p)
		assert.Error(t, err)
	})
}

func TestAttributeDecoderRejectsHugePointsLength(t *testing.T) {
	p := &Pnts{
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`4611686018427387904`),
			"RGB565":        json.RawMessage(`{"byteOffset":0}`),
		},
		FeatureTableBinary: make([]byte, 8),
	}
	assert.NotPanics(t, func() {
		_, err := DecodeAttributes(p)
		assert.Error(t, err)
	})
}

func TestAttributeDecoderConvertReportsNegativePointsLength(t *testing.T) {
	p := &Pnts{
		Version: 1,
		FeatureTable: map[string]json.RawMessage{
			"POINTS_LENGTH": json.RawMessage(`-1`),
			"NORMAL_OCT16P": json.RawMessage(`{"byteOffset":16}`),
		},
		FeatureTableBinary: make([]byte, 8),
	}
	content, err := p.Bytes()
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, err := NewAttributeDecoder().Convert(data.NewContentItem("tile.pnts", content))
		assert.Error(t, err)
	})
}
