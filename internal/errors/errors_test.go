package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	// Check that the error is an ApplicationError
	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())

	err = NewKind(ConversionFailed, "cannot convert %s", "a.bin")
	assert.Equal(t, "cannot convert a.bin", err.Error())
	assert.Equal(t, ConversionFailed, KindOf(err))
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())

	unwrappedErr := Unwrap(wrappedErr)
	assert.Equal(t, origErr, unwrappedErr)

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.NotNil(t, wrappedFormatted)
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())

	assert.True(t, Is(wrappedErr, origErr))
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot access", "/path/to/file", FileAccessDenied, nil)
	assert.NotNil(t, fileErr)
	assert.Equal(t, "cannot access: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	assert.Equal(t, "file not found", ErrFileNotFound.Error())
	assert.Equal(t, FileNotFound, ErrFileNotFound.Kind())

	notFoundErr := NewFileError("file not found", "/missing/file", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr))
	assert.True(t, IsFileAccessDenied(fileErr))
	assert.False(t, IsFileAccessDenied(notFoundErr))

	var fe *FileError
	assert.True(t, As(fileErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "page.margin", InvalidConfig, nil)
	assert.Equal(t, "invalid value: page.margin", configErr.Error())
	assert.Equal(t, "page.margin", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	origErr := fmt.Errorf("value out of range")
	configErr = NewConfigError("invalid value", "page.margin", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: page.margin: value out of range", configErr.Error())
	assert.Equal(t, origErr, Unwrap(configErr))

	assert.Equal(t, "invalid configuration", ErrInvalidConfig.Error())
	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
}

func TestRunError(t *testing.T) {
	assert.Equal(t, "No valid files to process", ErrNoValidFiles.Error())
	assert.Equal(t, PhaseValidating, ErrNoValidFiles.Phase())
	assert.True(t, IsNoValidFiles(ErrNoValidFiles))
	assert.True(t, IsRunInProgress(ErrRunInProgress))
	assert.False(t, IsRunInProgress(ErrNoValidFiles))

	sinkErr := NewRunError("Failed to download PDF", PhaseDelivering, DeliveryFailed, errors.New("disk full"))
	assert.Equal(t, "Failed to download PDF: disk full", sinkErr.Error())
	assert.Equal(t, "Failed to download PDF", sinkErr.Message())
	assert.True(t, IsDeliveryFailed(sinkErr))
	assert.True(t, IsDeliveryFailed(fmt.Errorf("redeliver: %w", sinkErr)))

	finErr := NewRunError("could not serialize document", PhaseFinalizing, FinalizationFailed, nil)
	assert.True(t, IsFinalizationFailed(finErr))
	assert.Equal(t, FinalizationFailed, KindOf(Wrap(finErr, "merge")))
}

func TestListErrors(t *testing.T) {
	assert.True(t, IsIndexOutOfRange(Wrapf(ErrIndexOutOfRange, "move %d", 7)))
	assert.True(t, Is(Wrap(ErrOrderingDisabled, "reorder"), ErrOrderingDisabled))
	assert.True(t, IsOrderingDisabled(ErrOrderingDisabled))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestErrorChains(t *testing.T) {
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/to/file", FileNotFound, baseErr)
	configErr := NewConfigError("config error", "output.directory", InvalidConfig, fileErr)
	runErr := NewRunError("delivery failed", PhaseDelivering, DeliveryFailed, configErr)

	assert.Equal(t, "delivery failed: config error: output.directory: file error: /path/to/file: base error", runErr.Error())

	assert.True(t, Is(runErr, baseErr))
	assert.True(t, Is(runErr, fileErr))
	assert.True(t, Is(runErr, configErr))

	var fe *FileError
	assert.True(t, As(runErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())

	var ce *ConfigError
	assert.True(t, As(runErr, &ce))
	assert.Equal(t, "output.directory", ce.Param())

	assert.True(t, IsFileNotFound(runErr))
	assert.True(t, IsInvalidConfig(runErr))
	assert.True(t, IsDeliveryFailed(runErr))
	assert.Equal(t, DeliveryFailed, KindOf(runErr))
}
