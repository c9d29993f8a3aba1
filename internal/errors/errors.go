// Package errors provides standardized error handling for pdfmerge.
// It defines the error kinds raised while selecting, converting and
// delivering files, plus helpers for consistent creation and wrapping.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrFileNotFound     = NewFileError("file not found", "", FileNotFound, nil)
	ErrFileAccess       = NewFileError("file access denied", "", FileAccessDenied, nil)
	ErrInvalidPath      = NewFileError("invalid file path", "", InvalidPath, nil)
	ErrInvalidConfig    = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrNoValidFiles     = NewRunError("No valid files to process", PhaseValidating, NoValidFiles, nil)
	ErrRunInProgress    = NewRunError("a merge is already in progress", "", RunInProgress, nil)
	ErrNothingToDeliver = NewRunError("no merged document to deliver", PhaseDelivering, DeliveryFailed, nil)
	ErrIndexOutOfRange  = &ApplicationError{msg: "index out of range", kind: IndexOutOfRange}
	ErrOrderingDisabled = &ApplicationError{msg: "ordering mode is disabled", kind: OrderingDisabled}
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileCreateFailed
	FileOperationFailed
	InvalidOperation
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	ConfigNotSet
	// Merge run error kinds
	NoValidFiles
	ConversionFailed
	FinalizationFailed
	DeliveryFailed
	RunInProgress
	// File list error kinds
	IndexOutOfRange
	OrderingDisabled
)

// Merge run phases attached to RunError.
const (
	PhaseValidating = "validating"
	PhaseConverting = "converting"
	PhaseFinalizing = "finalizing"
	PhaseDelivering = "delivering"
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Message returns the message without the wrapped cause.
func (e *ApplicationError) Message() string {
	return e.msg
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// RunError is raised by a merge run. Phase names the state the run was in.
type RunError struct {
	ApplicationError
	phase string
}

// NewRunError creates a new merge run error
func NewRunError(msg string, phase string, kind ErrorKind, err error) *RunError {
	return &RunError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		phase: phase,
	}
}

// Phase returns the run phase in which the error happened
func (e *RunError) Phase() string {
	return e.phase
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// NewKind creates a new error of the given kind
func NewKind(kind ErrorKind, format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = Unwrap(err)
	}
	return Unknown
}

func hasKind(err error, kind ErrorKind) bool {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() == kind {
			return true
		}
		err = Unwrap(err)
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return hasKind(err, FileNotFound)
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	return hasKind(err, FileAccessDenied)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return hasKind(err, InvalidConfig)
}

// IsNoValidFiles checks if a run failed because nothing passed validation
func IsNoValidFiles(err error) bool {
	return hasKind(err, NoValidFiles)
}

// IsRunInProgress checks if a run was rejected because another is active
func IsRunInProgress(err error) bool {
	return hasKind(err, RunInProgress)
}

// IsDeliveryFailed checks if the output sink rejected the artifact
func IsDeliveryFailed(err error) bool {
	return hasKind(err, DeliveryFailed)
}

// IsFinalizationFailed checks if the output document could not be serialized
func IsFinalizationFailed(err error) bool {
	return hasKind(err, FinalizationFailed)
}

// IsIndexOutOfRange checks if a list operation got an invalid index
func IsIndexOutOfRange(err error) bool {
	return hasKind(err, IndexOutOfRange)
}

// IsOrderingDisabled checks if a reorder was attempted outside ordering mode
func IsOrderingDisabled(err error) bool {
	return hasKind(err, OrderingDisabled)
}
