// Package errors provides error handling for the tiles pipeline.
//
// It re-exports the parts of github.com/cockroachdb/errors the pipeline uses
// (stack traces, wrapping, hints) and defines the error kinds raised by the
// texture encoder, the stage executor and the pipeline executor.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
)

// User-facing messages
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	WithDetailf    = crdb.WithDetailf
	GetAllDetails  = crdb.GetAllDetails
	FlattenDetails = crdb.FlattenDetails
)

// Error inspection
var (
	Is        = crdb.Is
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)
