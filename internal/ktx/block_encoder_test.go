package ktx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferFunctionFlags(t *testing.T) {
	perceptual, mipSRGB, ktx2SRGB := TransferFunctionFlags(TransferFunctionSRGB)
	assert.True(t, perceptual)
	assert.True(t, mipSRGB)
	assert.True(t, ktx2SRGB)

	perceptual, mipSRGB, ktx2SRGB = TransferFunctionFlags(TransferFunctionLinear)
	assert.False(t, perceptual)
	assert.False(t, mipSRGB)
	assert.False(t, ktx2SRGB)

	perceptual, mipSRGB, ktx2SRGB = TransferFunctionFlags("srgb")
	assert.False(t, perceptual)
	assert.False(t, mipSRGB)
	assert.False(t, ktx2SRGB)
}

func TestResolveForcesContainerInvariants(t *testing.T) {
	for _, options := range []*Options{{}, {Uastc: true}, {Uastc: true, Zstd: Int(0)}} {
		params := ResolveEncoderParams(options)
		assert.True(t, params.CreateKTX2File)
		assert.True(t, params.KTX2UASTCSupercompression)
		assert.False(t, params.MipGen)
		assert.Equal(t, 512, params.MaxSelectorClusters)
		assert.Equal(t, 512, params.MaxEndpointClusters)
	}
}

func TestResolveEtc1sIgnoresUastcFields(t *testing.T) {
	params := ResolveEncoderParams(&Options{
		CompressionLevel: Int(5),
		QualityLevel:     Int(255),
		TransferFunction: TransferFunctionLinear,
		Level:            Int(4),
		RdoL:             Float64(3.5),
		RdoD:             Int(8192),
		ComputeStats:     Bool(true),
	})
	defaults := NewEncoderParams()

	assert.False(t, params.UASTC)
	assert.Equal(t, 5, params.CompressionLevel)
	assert.Equal(t, 255, params.QualityLevel)
	assert.False(t, params.Perceptual)
	assert.False(t, params.MipSRGB)
	assert.False(t, params.KTX2SRGBTransferFunc)
	assert.True(t, params.ComputeStats)
	assert.False(t, params.Debug)

	assert.Equal(t, defaults.PackUASTCLevel, params.PackUASTCLevel)
	assert.False(t, params.RDOUASTC)
	assert.Equal(t, defaults.RDOUASTCQualityScalar, params.RDOUASTCQualityScalar)
	assert.Equal(t, defaults.RDOUASTCDictSize, params.RDOUASTCDictSize)
}

func TestResolveUastcIgnoresEtc1sFields(t *testing.T) {
	params := ResolveEncoderParams(&Options{
		Uastc:            true,
		Level:            Int(4),
		RdoL:             Float64(0.5),
		RdoD:             Int(1024),
		CompressionLevel: Int(5),
		QualityLevel:     Int(1),
		TransferFunction: TransferFunctionSRGB,
		Debug:            Bool(true),
	})
	defaults := NewEncoderParams()

	assert.True(t, params.UASTC)
	assert.Equal(t, 4, params.PackUASTCLevel)
	assert.True(t, params.RDOUASTC)
	assert.Equal(t, 0.5, params.RDOUASTCQualityScalar)
	assert.Equal(t, 1024, params.RDOUASTCDictSize)
	assert.True(t, params.Perceptual)
	assert.True(t, params.MipSRGB)
	assert.True(t, params.KTX2SRGBTransferFunc)
	assert.True(t, params.Debug)

	assert.Equal(t, defaults.CompressionLevel, params.CompressionLevel)
	assert.Equal(t, defaults.QualityLevel, params.QualityLevel)
}

func TestResolveWithoutTransferFunctionKeepsDefaults(t *testing.T) {
	params := ResolveEncoderParams(&Options{Uastc: true})
	defaults := NewEncoderParams()

	assert.Equal(t, defaults.Perceptual, params.Perceptual)
	assert.Equal(t, defaults.MipSRGB, params.MipSRGB)
	assert.Equal(t, defaults.KTX2SRGBTransferFunc, params.KTX2SRGBTransferFunc)
}
