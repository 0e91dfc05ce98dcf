package tools

import (
	"encoding/binary"
	"encoding/json"
	"math"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

func FmtJSONIndentString(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

const FloatMin = 0.000001

func IsFloatEqual(f1, f2 float64) bool {
	return math.Abs(f1-f2) < FloatMin
}

// ConvertIntToByteArray encodes the value as a little endian uint32, the
// integer layout of 3D Tiles binary headers.
func ConvertIntToByteArray(value int) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(value))
	return b
}
