package tools

import (
	"flag"
)

const (
	CommandPipeline = "pipeline"
	CommandKtx      = "ktx"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type CommonFlags struct {
	Basisu       *string `json:"basisu"`
	Silent       *bool   `json:"silent"`
	LogTimestamp *bool   `json:"timestamp"`
	Help         *bool   `json:"help"`
	Version      *bool   `json:"version"`
}

type FlagsForCommandPipeline struct {
	CommonFlags
	Pipeline    *string `json:"pipeline"`
	Overwrite   *bool   `json:"overwrite"`
	Workers     *int    `json:"workers"`
	ScratchDir  *string `json:"scratch_dir"`
	KeepScratch *bool   `json:"keep_scratch"`
}

// FlagsForCommandKtx holds the ktx command line. Optional encoder settings
// are nil unless given explicitly, so encoder defaults apply otherwise.
type FlagsForCommandKtx struct {
	CommonFlags
	Input            *string  `json:"input"`
	Output           *string  `json:"output"`
	Uastc            *bool    `json:"uastc"`
	TransferFunction *string  `json:"transfer_function,omitempty"`
	CompressionLevel *int     `json:"compression_level,omitempty"`
	QualityLevel     *int     `json:"quality_level,omitempty"`
	Level            *int     `json:"level,omitempty"`
	RdoL             *float64 `json:"rdo_l,omitempty"`
	RdoD             *int     `json:"rdo_d,omitempty"`
	Zstd             *int     `json:"zstd,omitempty"`
	ComputeStats     *bool    `json:"compute_stats,omitempty"`
	Debug            *bool    `json:"debug,omitempty"`
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of tiles-pipeline.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineCommonFlags(flagCommand *flag.FlagSet) CommonFlags {
	return CommonFlags{
		Basisu:       defineStringFlagCommand(flagCommand, "basisu", "", GetBasisuProgramLocation(), "Path of the basisu encoder executable. Defaults to $"+basisuEnv+", a basisu next to this executable or the one on the PATH."),
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:         defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:      defineBoolFlagCommand(flagCommand, "version", "", false, "Displays the version of tiles-pipeline."),
	}
}

func ParseFlagsForCommandPipeline(args []string) (FlagsForCommandPipeline, *flag.FlagSet) {
	flagCommand := flag.NewFlagSet("command-pipeline", flag.ExitOnError)

	common := defineCommonFlags(flagCommand)
	pipeline := defineStringFlagCommand(flagCommand, "pipeline", "p", "", "Specifies the pipeline descriptor file (.json, .yaml or .yml).")
	overwrite := defineBoolFlagCommand(flagCommand, "overwrite", "f", false, "Allows writing into a non-empty output folder.")
	workers := defineIntFlagCommand(flagCommand, "workers", "w", 0, "Number of content items processed concurrently. 0 uses one worker per CPU.")
	scratchDir := defineStringFlagCommand(flagCommand, "scratch-dir", "", "", "Folder receiving intermediate tileset stage outputs. Defaults to a fresh folder in the system temp directory.")
	keepScratch := defineBoolFlagCommand(flagCommand, "keep-scratch", "", false, "Keeps intermediate tileset stage outputs below -scratch-dir after the run.")

	_ = flagCommand.Parse(args)

	return FlagsForCommandPipeline{
		CommonFlags: common,
		Pipeline:    pipeline,
		Overwrite:   overwrite,
		Workers:     workers,
		ScratchDir:  scratchDir,
		KeepScratch: keepScratch,
	}, flagCommand
}

func ParseFlagsForCommandKtx(args []string) (FlagsForCommandKtx, *flag.FlagSet) {
	flagCommand := flag.NewFlagSet("command-ktx", flag.ExitOnError)

	common := defineCommonFlags(flagCommand)
	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input image (PNG, JPEG, GIF, BMP, TIFF or WebP).")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output KTX2 file.")
	uastc := defineBoolFlagCommand(flagCommand, "uastc", "u", false, "Encodes UASTC instead of ETC1S.")
	transferFunction := defineStringFlagCommand(flagCommand, "transfer", "", "SRGB", "Transfer function of the input, either SRGB or LINEAR.")
	compressionLevel := defineIntFlagCommand(flagCommand, "compression-level", "", 2, "ETC1S compression level (0-5).")
	qualityLevel := defineIntFlagCommand(flagCommand, "quality-level", "q", 128, "ETC1S quality level (1-255).")
	level := defineIntFlagCommand(flagCommand, "level", "l", 2, "UASTC pack level (0-4).")
	rdoL := defineFloat64FlagCommand(flagCommand, "rdo-l", "", 1.0, "UASTC rate distortion optimization quality scalar. Enables RDO.")
	rdoD := defineIntFlagCommand(flagCommand, "rdo-d", "", 4096, "UASTC rate distortion optimization dictionary size. Enables RDO.")
	zstd := defineIntFlagCommand(flagCommand, "zstd", "", 0, "Zstandard supercompression level. Supercompression is always on.")
	computeStats := defineBoolFlagCommand(flagCommand, "stats", "", false, "Prints encoding statistics.")
	debug := defineBoolFlagCommand(flagCommand, "debug", "", false, "Enables encoder debug output.")

	_ = flagCommand.Parse(args)

	flags := FlagsForCommandKtx{
		CommonFlags: common,
		Input:       input,
		Output:      output,
		Uastc:       uastc,
	}

	// only explicitly given encoder settings override the defaults
	given := map[string]bool{}
	flagCommand.Visit(func(f *flag.Flag) {
		given[f.Name] = true
	})
	if given["transfer"] {
		flags.TransferFunction = transferFunction
	}
	if given["compression-level"] {
		flags.CompressionLevel = compressionLevel
	}
	if given["quality-level"] || given["q"] {
		flags.QualityLevel = qualityLevel
	}
	if given["level"] || given["l"] {
		flags.Level = level
	}
	if given["rdo-l"] {
		flags.RdoL = rdoL
	}
	if given["rdo-d"] {
		flags.RdoD = rdoD
	}
	if given["zstd"] {
		flags.Zstd = zstd
	}
	if given["stats"] {
		flags.ComputeStats = computeStats
	}
	if given["debug"] {
		flags.Debug = debug
	}

	return flags, flagCommand
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
