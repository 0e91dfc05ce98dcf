package ktx

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/golang/glog"
)

// BasisuBlockEncoder is a BlockEncoder backed by the basisu command line
// encoder. The source slice is handed over as a temporary PNG file.
type BasisuBlockEncoder struct {
	programLocation string
	params          *EncoderParams
	rgba            []byte
	width           int
	height          int
}

func NewBasisuBlockEncoderFactory(programLocation string) BlockEncoderFactory {
	return func() (BlockEncoder, error) {
		return NewBasisuBlockEncoder(programLocation), nil
	}
}

func NewBasisuBlockEncoder(programLocation string) *BasisuBlockEncoder {
	return &BasisuBlockEncoder{
		programLocation: programLocation,
	}
}

func (e *BasisuBlockEncoder) Configure(params EncoderParams) error {
	if !params.CreateKTX2File {
		return errors.New("basisu encoder only writes KTX2 files")
	}
	if params.KTX2SRGBTransferFunc != params.Perceptual {
		glog.Warningf("basisu derives the KTX2 transfer function from the perceptual flag, ktx2 sRGB=%v is ignored",
			params.KTX2SRGBTransferFunc)
	}
	e.params = &params
	return nil
}

func (e *BasisuBlockEncoder) SetSliceSourceImage(rgba []byte, width, height int) error {
	if width <= 0 || height <= 0 || width > MaxImageDimension || height > MaxImageDimension {
		return errors.Newf("unsupported slice size %dx%d", width, height)
	}
	if len(rgba) != width*height*4 {
		return errors.Newf("slice of %dx%d pixels needs %d bytes, got %d", width, height, width*height*4, len(rgba))
	}
	e.rgba = rgba
	e.width = width
	e.height = height
	return nil
}

func (e *BasisuBlockEncoder) Encode() ([]byte, error) {
	if e.params == nil {
		return nil, errors.New("encoder not configured")
	}
	if e.rgba == nil {
		return nil, errors.New("no source image set")
	}

	workDir, err := os.MkdirTemp("", "tiles-pipeline-basisu-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			glog.Warningf("removing basisu work directory %s failed: %v", workDir, err)
		}
	}()

	inputFileLocation := filepath.Join(workDir, "slice.png")
	outputFileLocation := filepath.Join(workDir, "slice.ktx2")
	if err := e.writeSourcePng(inputFileLocation); err != nil {
		return nil, err
	}

	if err := e.invokeBasisu(buildBasisuArgs(*e.params, inputFileLocation, outputFileLocation)); err != nil {
		return nil, err
	}
	return os.ReadFile(outputFileLocation)
}

func (e *BasisuBlockEncoder) writeSourcePng(filePath string) error {
	img := &image.NRGBA{
		Pix:    e.rgba,
		Stride: e.width * 4,
		Rect:   image.Rect(0, 0, e.width, e.height),
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (e *BasisuBlockEncoder) invokeBasisu(cmdParams []string) error {
	runCmd := exec.Command(e.programLocation, cmdParams...)
	glog.V(1).Infoln("start run basisu cmd", runCmd.String())

	var cmdStdout, cmdStderr bytes.Buffer
	runCmd.Stdout = &cmdStdout
	runCmd.Stderr = &cmdStderr

	if err := runCmd.Run(); err != nil {
		glog.Infoln("run failed", runCmd.String(), "cmd-stdout", cmdStdout.String(), "cmd-stderr", cmdStderr.String(), err.Error())
		if errors.Is(err, exec.ErrNotFound) {
			return errors.WithHintf(err, "install basisu or point -basisu at the encoder binary (was %q)", e.programLocation)
		}
		return errors.Wrapf(err, "basisu: %s", cmdStderr.String())
	}
	if e.params.ComputeStats || e.params.Debug {
		glog.Infoln(cmdStdout.String())
	}
	return nil
}

// buildBasisuArgs translates encoder params to basisu command line flags.
func buildBasisuArgs(params EncoderParams, inputFileLocation, outputFileLocation string) []string {
	args := []string{"-ktx2"}

	if params.UASTC {
		args = append(args, "-uastc", "-uastc_level", strconv.Itoa(params.PackUASTCLevel))
		if params.RDOUASTC {
			args = append(args,
				"-uastc_rdo_l", strconv.FormatFloat(params.RDOUASTCQualityScalar, 'f', -1, 64),
				"-uastc_rdo_d", strconv.Itoa(params.RDOUASTCDictSize),
			)
		}
		if !params.KTX2UASTCSupercompression {
			args = append(args, "-ktx2_no_zstandard")
		}
	} else {
		args = append(args,
			"-comp_level", strconv.Itoa(params.CompressionLevel),
			"-q", strconv.Itoa(params.QualityLevel),
			"-max_endpoints", strconv.Itoa(params.MaxEndpointClusters),
			"-max_selectors", strconv.Itoa(params.MaxSelectorClusters),
		)
	}

	if !params.Perceptual {
		args = append(args, "-linear")
	}
	if params.MipGen {
		args = append(args, "-mipmap")
		if params.MipSRGB {
			args = append(args, "-mip_srgb")
		} else {
			args = append(args, "-mip_linear")
		}
	}
	if params.ComputeStats {
		args = append(args, "-stats")
	}
	if params.Debug {
		args = append(args, "-debug")
	}

	return append(args, "-output_file", outputFileLocation, inputFileLocation)
}
