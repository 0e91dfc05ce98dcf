package ktx

type TransferFunction string

const (
	TransferFunctionLinear TransferFunction = "LINEAR"
	TransferFunctionSRGB   TransferFunction = "SRGB"
)

// Options for the KTX compression of one image.
//
// Uastc selects the compression family. Fields of the other family are
// ignored. Nil fields keep the encoder defaults.
type Options struct {
	Uastc bool `json:"uastc" yaml:"uastc"`

	ComputeStats     *bool            `json:"computeStats,omitempty" yaml:"computeStats,omitempty"`
	Debug            *bool            `json:"debug,omitempty" yaml:"debug,omitempty"`
	TransferFunction TransferFunction `json:"transferFunction,omitempty" yaml:"transferFunction,omitempty"`

	// ETC1S
	CompressionLevel *int `json:"compressionLevel,omitempty" yaml:"compressionLevel,omitempty"`
	QualityLevel     *int `json:"qualityLevel,omitempty" yaml:"qualityLevel,omitempty"`

	// UASTC
	Level *int     `json:"level,omitempty" yaml:"level,omitempty"`
	RdoL  *float64 `json:"rdo_l,omitempty" yaml:"rdo_l,omitempty"`
	RdoD  *int     `json:"rdo_d,omitempty" yaml:"rdo_d,omitempty"`
	Zstd  *int     `json:"zstd,omitempty" yaml:"zstd,omitempty"`
}

// DefaultOptions are used when an image is encoded without options.
func DefaultOptions() *Options {
	return &Options{
		Uastc:            false,
		TransferFunction: TransferFunctionSRGB,
	}
}

func Bool(v bool) *bool          { return &v }
func Int(v int) *int             { return &v }
func Float64(v float64) *float64 { return &v }
