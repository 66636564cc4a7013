package data

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrSchema    = errors.New("schema error")
	ErrData      = errors.New("data error")
	ErrPartition = errors.New("partition error")
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageLoad      Stage = "load"
	StageNormalize Stage = "normalize"
	StagePartition Stage = "partition"
	StageTransform Stage = "transform"
	StageCenter    Stage = "center"
	StageAnalysis  Stage = "analysis"
)

// Error carries the kind, the stage and the offending column of a failure.
// Every error is fatal for the run.
type Error struct {
	Kind   error
	Stage  Stage
	Column string
	Msg    string
}

func (e *Error) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %v: %s", e.Stage, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: column %q: %v: %s", e.Stage, e.Column, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// SchemaError reports an absent column or an unintended name collision.
func SchemaError(stage Stage, column, format string, args ...any) *Error {
	return &Error{Kind: ErrSchema, Stage: stage, Column: column, Msg: fmt.Sprintf(format, args...)}
}

// DataError reports values a stage cannot work with.
func DataError(stage Stage, column, format string, args ...any) *Error {
	return &Error{Kind: ErrData, Stage: stage, Column: column, Msg: fmt.Sprintf(format, args...)}
}

// PartitionError reports a missing or mistyped group indicator.
func PartitionError(column, format string, args ...any) *Error {
	return &Error{Kind: ErrPartition, Stage: StagePartition, Column: column, Msg: fmt.Sprintf(format, args...)}
}
