package ktx

const (
	maxSelectorClusters = 512
	maxEndpointClusters = 512
)

// EncoderParams is the complete configuration handed to a BlockEncoder.
type EncoderParams struct {
	CreateKTX2File            bool
	KTX2UASTCSupercompression bool
	MipGen                    bool
	MaxSelectorClusters       int
	MaxEndpointClusters       int

	ComputeStats bool
	Debug        bool

	UASTC                 bool
	PackUASTCLevel        int
	RDOUASTC              bool
	RDOUASTCQualityScalar float64
	RDOUASTCDictSize      int

	CompressionLevel int
	QualityLevel     int

	Perceptual           bool
	MipSRGB              bool
	KTX2SRGBTransferFunc bool
}

// BlockEncoder compresses a single RGBA slice into a KTX2 container. A
// BlockEncoder is used for exactly one image.
type BlockEncoder interface {
	Configure(params EncoderParams) error
	SetSliceSourceImage(rgba []byte, width, height int) error
	// Encode returns the exactly sized container bytes.
	Encode() ([]byte, error)
}

type BlockEncoderFactory func() (BlockEncoder, error)

// NewEncoderParams returns the encoder defaults.
func NewEncoderParams() EncoderParams {
	return EncoderParams{
		CreateKTX2File:            false,
		KTX2UASTCSupercompression: false,
		MipGen:                    false,
		MaxSelectorClusters:       maxSelectorClusters,
		MaxEndpointClusters:       maxEndpointClusters,
		PackUASTCLevel:            2,
		RDOUASTCQualityScalar:     1.0,
		RDOUASTCDictSize:          4096,
		CompressionLevel:          2,
		QualityLevel:              128,
		Perceptual:                true,
		MipSRGB:                   true,
		KTX2SRGBTransferFunc:      true,
	}
}

// TransferFunctionFlags maps a transfer function to the perceptual, mip sRGB
// and KTX2 sRGB transfer function flags.
func TransferFunctionFlags(transferFunction TransferFunction) (perceptual, mipSRGB, ktx2SRGBTransferFunc bool) {
	if transferFunction == TransferFunctionSRGB {
		return true, true, true
	}
	return false, false, false
}

// ResolveEncoderParams applies the given options on top of the encoder
// defaults. Container invariants are always forced.
func ResolveEncoderParams(options *Options) EncoderParams {
	params := NewEncoderParams()

	params.CreateKTX2File = true
	params.KTX2UASTCSupercompression = true
	params.MipGen = false
	params.MaxSelectorClusters = maxSelectorClusters
	params.MaxEndpointClusters = maxEndpointClusters

	if options.ComputeStats != nil {
		params.ComputeStats = *options.ComputeStats
	}
	if options.Debug != nil {
		params.Debug = *options.Debug
	}

	if options.Uastc {
		params.UASTC = true
		applyUastcOptions(&params, options)
	} else {
		params.UASTC = false
		applyEtc1sOptions(&params, options)
	}
	return params
}

func applyUastcOptions(params *EncoderParams, options *Options) {
	if options.Level != nil {
		params.PackUASTCLevel = *options.Level
	}
	if options.RdoL != nil {
		params.RDOUASTC = true
		params.RDOUASTCQualityScalar = *options.RdoL
	}
	if options.RdoD != nil {
		params.RDOUASTC = true
		params.RDOUASTCDictSize = *options.RdoD
	}
	applyTransferFunction(params, options.TransferFunction)
	if options.Zstd != nil {
		// zstd only toggles supercompression, which is already enabled
		params.KTX2UASTCSupercompression = true
	}
}

func applyEtc1sOptions(params *EncoderParams, options *Options) {
	if options.CompressionLevel != nil {
		params.CompressionLevel = *options.CompressionLevel
	}
	if options.QualityLevel != nil {
		params.QualityLevel = *options.QualityLevel
	}
	applyTransferFunction(params, options.TransferFunction)
}

func applyTransferFunction(params *EncoderParams, transferFunction TransferFunction) {
	if transferFunction == "" {
		return
	}
	params.Perceptual, params.MipSRGB, params.KTX2SRGBTransferFunc = TransferFunctionFlags(transferFunction)
}
