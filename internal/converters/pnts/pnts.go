// Package pnts reads and writes 3D Tiles point cloud (pnts) content and
// decodes its compressed per-point attributes.
package pnts

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/tools"
)

const (
	headerByteLength = 28
	alignment        = 8
)

var magic = []byte("pnts")

// Pnts holds the tables of a pnts file. The feature table JSON is kept as raw
// messages so properties this package does not understand survive a
// read/write cycle untouched.
type Pnts struct {
	Version            uint32
	FeatureTable       map[string]json.RawMessage
	FeatureTableBinary []byte
	BatchTableJSON     []byte
	BatchTableBinary   []byte
}

func Read(content []byte) (*Pnts, error) {
	if len(content) < headerByteLength {
		return nil, errors.Newf("pnts data too short: %d bytes", len(content))
	}
	if !bytes.Equal(content[:4], magic) {
		return nil, errors.Newf("invalid pnts magic %q", content[:4])
	}

	header := make([]uint32, 6)
	for i := range header {
		header[i] = binary.LittleEndian.Uint32(content[4+i*4:])
	}
	version, byteLength := header[0], int(header[1])
	featureTableJSONLen, featureTableBinaryLen := int(header[2]), int(header[3])
	batchTableJSONLen, batchTableBinaryLen := int(header[4]), int(header[5])

	if byteLength > len(content) {
		return nil, errors.Newf("pnts byteLength %d exceeds data length %d", byteLength, len(content))
	}
	total := headerByteLength + featureTableJSONLen + featureTableBinaryLen + batchTableJSONLen + batchTableBinaryLen
	if total > byteLength || total < headerByteLength {
		return nil, errors.Newf("pnts table lengths (%d) exceed byteLength %d", total, byteLength)
	}

	offset := headerByteLength
	next := func(length int) []byte {
		b := content[offset : offset+length]
		offset += length
		return b
	}

	p := &Pnts{Version: version}
	featureTableJSON := next(featureTableJSONLen)
	if err := json.Unmarshal(featureTableJSON, &p.FeatureTable); err != nil {
		return nil, errors.Wrap(err, "parsing pnts feature table")
	}
	p.FeatureTableBinary = append([]byte(nil), next(featureTableBinaryLen)...)
	p.BatchTableJSON = append([]byte(nil), bytes.TrimRight(next(batchTableJSONLen), " ")...)
	p.BatchTableBinary = append([]byte(nil), next(batchTableBinaryLen)...)
	return p, nil
}

// Bytes serializes the pnts. Every table is padded so that it ends on an 8
// byte boundary.
func (p *Pnts) Bytes() ([]byte, error) {
	featureTableJSON, err := json.Marshal(p.FeatureTable)
	if err != nil {
		return nil, err
	}
	featureTableBytes := padJSON(featureTableJSON, headerByteLength)
	featureTableBinary := padBinary(p.FeatureTableBinary)

	var batchTableBytes, batchTableBinary []byte
	if len(p.BatchTableJSON) > 0 {
		batchTableBytes = padJSON(p.BatchTableJSON, 0)
		batchTableBinary = padBinary(p.BatchTableBinary)
	}

	byteLength := headerByteLength + len(featureTableBytes) + len(featureTableBinary) + len(batchTableBytes) + len(batchTableBinary)

	outputByte := make([]byte, 0, byteLength)
	outputByte = append(outputByte, magic...)                                                // magic
	outputByte = append(outputByte, tools.ConvertIntToByteArray(int(p.Version))...)          // version number
	outputByte = append(outputByte, tools.ConvertIntToByteArray(byteLength)...)              // byte length
	outputByte = append(outputByte, tools.ConvertIntToByteArray(len(featureTableBytes))...)  // feature table length
	outputByte = append(outputByte, tools.ConvertIntToByteArray(len(featureTableBinary))...) // feature table binary length
	outputByte = append(outputByte, tools.ConvertIntToByteArray(len(batchTableBytes))...)    // batch table length
	outputByte = append(outputByte, tools.ConvertIntToByteArray(len(batchTableBinary))...)   // batch table binary length
	outputByte = append(outputByte, featureTableBytes...)
	outputByte = append(outputByte, featureTableBinary...)
	outputByte = append(outputByte, batchTableBytes...)
	outputByte = append(outputByte, batchTableBinary...)

	return outputByte, nil
}

// padJSON appends spaces so that offset+len(result) is a multiple of 8.
func padJSON(content []byte, offset int) []byte {
	if paddingSize := (offset + len(content)) % alignment; paddingSize != 0 {
		content = append(append([]byte(nil), content...), bytes.Repeat([]byte(" "), alignment-paddingSize)...)
	}
	return content
}

func padBinary(content []byte) []byte {
	if paddingSize := len(content) % alignment; paddingSize != 0 {
		content = append(append([]byte(nil), content...), make([]byte, alignment-paddingSize)...)
	}
	return content
}
