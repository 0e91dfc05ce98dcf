/*
 * This file is part of the 3D Tiles content pipeline distribution (https://github.com/ecopia-map/tiles_pipeline).
 * Copyright (c) 2026 ecopia-map
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/ktx"
	"github.com/ecopia-map/tiles_pipeline/internal/pipeline"
	"github.com/ecopia-map/tiles_pipeline/internal/scratch"
	"github.com/ecopia-map/tiles_pipeline/pkg"
	"github.com/ecopia-map/tiles_pipeline/pkg/stage_manager/std_stage_manager"
	"github.com/ecopia-map/tiles_pipeline/tools"
	"github.com/golang/glog"
)

const VERSION = "1.0.0"

const logo = `
  _   _ _                    _            _ _
 | |_(_) | ___  ___   _ __  (_)_ __   ___| (_)_ __   ___
 | __| | |/ _ \/ __| | '_ \ | | '_ \ / _ \ | | '_ \ / _ \
 | |_| | |  __/\__ \ | |_) || | |_) |  __/ | | | | |  __/
  \__|_|_|\___||___/ | .__/ |_| .__/ \___|_|_|_| |_|\___|
                     |_|      |_|  3D Tiles content processing pipeline
  Copyright YYYY
`

func main() {
	flagsGlobal := tools.ParseFlagsGlobal()
	defer glog.Flush()

	if *flagsGlobal.Help {
		showHelp(flag.CommandLine)
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		glog.Exit("Please specify a subcommand [pipeline|ktx].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandPipeline:
		mainCommandPipeline(args)
	case tools.CommandKtx:
		mainCommandKtx(args)
	default:
		glog.Exitf("Unrecognized command [%q]. Command must be one of [pipeline|ktx]", cmd)
	}
}

func mainCommandPipeline(args []string) {
	// Retrieve command line args
	flags, flagCommand := tools.ParseFlagsForCommandPipeline(args)
	glog.V(1).Infoln("flags", tools.FmtJSONString(flags))

	if *flags.Help {
		showHelp(flagCommand)
		return
	}
	if *flags.Version {
		printVersion()
		return
	}
	setupLogger(flags.CommonFlags)

	if *flags.Pipeline == "" {
		exitWithError(errors.WithHint(errors.New("no pipeline descriptor given"), "use -pipeline to name a .json or .yaml pipeline file"))
	}
	p, err := pipeline.ReadPipelineFile(*flags.Pipeline)
	if err != nil {
		exitWithError(err)
	}

	var scratchProvider scratch.Provider = scratch.NewTempProvider()
	if *flags.ScratchDir != "" {
		scratchProvider = scratch.NewDebugProvider(*flags.ScratchDir, *flags.KeepScratch)
	}

	stageManager := std_stage_manager.NewStageManager(ktx.NewBasisuBlockEncoderFactory(*flags.Basisu))
	executor := pkg.NewPipelineExecutor(
		pkg.NewTilesetStageExecutor(tools.NewStandardFileFinder(), stageManager, *flags.Workers),
		scratchProvider,
	)
	executor.SetProgressListener(func(index, total int, name string) {
		tools.LogOutput(fmt.Sprintf("Tileset stage %d of %d: %s", index+1, total, name))
	})

	start := time.Now()
	if err := executor.ExecutePipeline(p, *flags.Overwrite); err != nil {
		exitWithError(err)
	}
	timeTrack(start, "pipeline")
	tools.LogOutput("Pipeline Completed")
}

func mainCommandKtx(args []string) {
	flags, flagCommand := tools.ParseFlagsForCommandKtx(args)
	glog.V(1).Infoln("flags", tools.FmtJSONString(flags))

	if *flags.Help {
		showHelp(flagCommand)
		return
	}
	if *flags.Version {
		printVersion()
		return
	}
	setupLogger(flags.CommonFlags)

	options, err := ktxOptionsFromFlags(&flags)
	if err != nil {
		exitWithError(err)
	}

	start := time.Now()
	converter := ktx.NewConverter(ktx.NewBasisuBlockEncoderFactory(*flags.Basisu))
	if err := converter.ConvertImageFile(*flags.Input, *flags.Output, options); err != nil {
		exitWithError(err)
	}
	timeTrack(start, "ktx")
	tools.LogOutput("Conversion Completed")
}

// Validates the ktx command line and turns it into encoder options
func ktxOptionsFromFlags(flags *tools.FlagsForCommandKtx) (*ktx.Options, error) {
	if *flags.Input == "" {
		return nil, errors.New("no input image given")
	}
	if _, err := os.Stat(*flags.Input); os.IsNotExist(err) {
		return nil, errors.Newf("input image %s not found", *flags.Input)
	}
	if *flags.Output == "" {
		return nil, errors.New("no output file given")
	}

	options := &ktx.Options{
		Uastc:            *flags.Uastc,
		ComputeStats:     flags.ComputeStats,
		Debug:            flags.Debug,
		CompressionLevel: flags.CompressionLevel,
		QualityLevel:     flags.QualityLevel,
		Level:            flags.Level,
		RdoL:             flags.RdoL,
		RdoD:             flags.RdoD,
		Zstd:             flags.Zstd,
	}
	if flags.TransferFunction != nil {
		transferFunction := ktx.TransferFunction(strings.ToUpper(*flags.TransferFunction))
		if transferFunction != ktx.TransferFunctionSRGB && transferFunction != ktx.TransferFunctionLinear {
			return nil, errors.WithHint(
				errors.Newf("unknown transfer function %q", *flags.TransferFunction),
				"transfer must be either SRGB or LINEAR",
			)
		}
		options.TransferFunction = transferFunction
	}
	return options, nil
}

func setupLogger(flags tools.CommonFlags) {
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	if hints := errors.FlattenHints(err); hints != "" {
		fmt.Fprintln(os.Stderr, "Hint:", hints)
	}
	glog.Exitf("%+v", err)
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp(flagSet *flag.FlagSet) {
	printLogo()
	fmt.Println("***")
	fmt.Println("tiles-pipeline runs pipelines of content stages over 3D Tiles tilesets and compresses textures to KTX2")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: tiles-pipeline [global flags] pipeline|ktx [command flags]")
	fmt.Println("")
	fmt.Println("Command line flags: ")
	flagSet.SetOutput(os.Stdout)
	flagSet.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
