package scrapbook

import "fmt"

// FailureKind classifies fatal pipeline stage failures. Per-image fetch
// errors are recovered in-stage and never surface as a StageFailure.
type FailureKind string

const (
	FailGeneration  FailureKind = "generation"
	FailPersistence FailureKind = "persistence"
)

// StageFailure aborts the pipeline. It is surfaced to the caller as a single
// internal-error category with the original message attached for diagnostics.
type StageFailure struct {
	Kind FailureKind
	Err  error
}

func (f *StageFailure) Error() string {
	return fmt.Sprintf("%s stage failed: %v", f.Kind, f.Err)
}

func (f *StageFailure) Unwrap() error { return f.Err }

func failStage(kind FailureKind, err error) *StageFailure {
	return &StageFailure{Kind: kind, Err: err}
}
