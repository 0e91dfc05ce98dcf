package errors

import "fmt"

// DataError reports malformed or under-specified input data, for example an
// image whose dimensions cannot be determined. It is raised before any
// encoding work starts.
type DataError struct {
	Message string
	Err     error
}

func NewDataError(message string) error {
	return WithStack(&DataError{Message: message})
}

func NewDataErrorf(err error, format string, args ...interface{}) error {
	return WithStack(&DataError{Message: fmt.Sprintf(format, args...), Err: err})
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DataError) Unwrap() error { return e.Err }

// EncodeError reports that the texture block encoder rejected its
// configuration or input. It is never retried.
type EncodeError struct {
	Message string
	Err     error
}

func NewEncodeError(err error, format string, args ...interface{}) error {
	return WithStack(&EncodeError{Message: fmt.Sprintf(format, args...), Err: err})
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EncodeError) Unwrap() error { return e.Err }

// StageExecutionError wraps the failure of a single tileset stage together
// with the index and name of that stage.
type StageExecutionError struct {
	Index int
	Name  string
	Err   error
}

func NewStageExecutionError(index int, name string, err error) error {
	return &StageExecutionError{Index: index, Name: name, Err: err}
}

func (e *StageExecutionError) Error() string {
	return fmt.Sprintf("tileset stage %d (%s) failed: %v", e.Index, e.Name, e.Err)
}

func (e *StageExecutionError) Unwrap() error { return e.Err }

// PipelineExecutionError is the error surfaced to callers of the pipeline
// executor. It wraps the first failure of the run.
type PipelineExecutionError struct {
	Err error
}

func NewPipelineExecutionError(err error) error {
	return WithStack(&PipelineExecutionError{Err: err})
}

func (e *PipelineExecutionError) Error() string {
	return "pipeline execution failed: " + e.Err.Error()
}

func (e *PipelineExecutionError) Unwrap() error { return e.Err }
