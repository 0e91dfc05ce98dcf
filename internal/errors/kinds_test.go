package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataError(t *testing.T) {
	err := NewDataError("could not determine size of image data")
	require.NotNil(t, err)
	assert.Equal(t, "could not determine size of image data", err.Error())

	var dataErr *DataError
	assert.True(t, As(err, &dataErr))
}

func TestEncodeErrorUnwraps(t *testing.T) {
	cause := New("encoder crashed")
	err := NewEncodeError(cause, "encoding %dx%d pixels", 4, 4)

	assert.Contains(t, err.Error(), "encoding 4x4 pixels")
	assert.Contains(t, err.Error(), "encoder crashed")
	assert.True(t, Is(err, cause))

	var encodeErr *EncodeError
	require.True(t, As(err, &encodeErr))
	assert.Equal(t, "encoding 4x4 pixels", encodeErr.Message)
}

func TestPipelineErrorWrapsStageError(t *testing.T) {
	cause := New("disk full")
	err := NewPipelineExecutionError(NewStageExecutionError(2, "gzip", cause))

	assert.Contains(t, err.Error(), "tileset stage 2 (gzip) failed")
	assert.True(t, Is(err, cause))

	var stageErr *StageExecutionError
	require.True(t, As(err, &stageErr))
	assert.Equal(t, 2, stageErr.Index)
	assert.Equal(t, "gzip", stageErr.Name)

	var pipelineErr *PipelineExecutionError
	assert.True(t, As(err, &pipelineErr))
}

func TestHints(t *testing.T) {
	err := WithHint(New("no such binary"), "install basisu or pass -basisu")
	assert.Contains(t, FlattenHints(err), "install basisu")
}
