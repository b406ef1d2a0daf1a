// package etlerr
//
// error kinds raised by the pipeline. every kind answers true to
// errors.Is(err, ErrPipeline)
package etlerr

import (
	"errors"
	"fmt"
)

// ErrPipeline : root condition shared by every error in this package
var ErrPipeline = errors.New("pipeline failure")

// remote codes that mean the object is not there
const (
	CodeNoSuchKey = "NoSuchKey"
	CodeNotFound  = "NotFound"
)

// ConfigurationError : a required setting is missing / empty or a value is out of range
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrPipeline }

// Op : storage operation that failed
type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpExists Op = "check existence of"
)

// StorageError : a remote (or local) object storage call failed.
// Code is the remote error code, empty when the fault never reached the remote
type StorageError struct {
	Op     Op
	Bucket string
	Key    string
	Code   string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected error trying to %s object s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("failed to %s object s3://%s/%s: %s - %v", e.Op, e.Bucket, e.Key, e.Code, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrPipeline }

// NotFound : true when the remote reported the object missing
func (e *StorageError) NotFound() bool {
	return e.Code == CodeNoSuchKey || e.Code == CodeNotFound
}

// IsNotFound : true if err carries a StorageError for a missing object
func IsNotFound(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.NotFound()
}

// TransformationError : a record or a batch could not be transformed.
// Index is the failing position inside a batch, -1 for a single row call
type TransformationError struct {
	Index int
	Err   error
}

func (e *TransformationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("failed to transform row: %v", e.Err)
	}
	return fmt.Sprintf("failed to transform batch at row %d: %v", e.Index, e.Err)
}

func (e *TransformationError) Unwrap() error { return e.Err }

func (e *TransformationError) Is(target error) bool { return target == ErrPipeline }

// Phase : pipeline stage an ETLError was raised from
type Phase string

const (
	PhaseInit      Phase = "init"
	PhaseExtract   Phase = "extract"
	PhaseTransform Phase = "transform"
	PhaseLoad      Phase = "load"
	PhaseRun       Phase = "run"
)

var phasePrefix = map[Phase]string{
	PhaseInit:      "initialization failed",
	PhaseExtract:   "extraction failed",
	PhaseTransform: "transformation failed",
	PhaseLoad:      "loading failed",
	PhaseRun:       "etl pipeline failed",
}

// ETLError : umbrella kind surfaced by the orchestrator. The finer kind is
// still reachable through errors.As since the cause is kept
type ETLError struct {
	Phase Phase
	Err   error
}

// Phased : wraps err as an ETLError of the given phase
func Phased(p Phase, err error) *ETLError {
	return &ETLError{Phase: p, Err: err}
}

func (e *ETLError) Error() string {
	prefix, ok := phasePrefix[e.Phase]
	if !ok {
		prefix = string(e.Phase) + " failed"
	}
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

func (e *ETLError) Unwrap() error { return e.Err }

func (e *ETLError) Is(target error) bool { return target == ErrPipeline }
