package brain

import (
	"errors"
	"fmt"

	"basegraph.app/tracecase/internal/model"
)

var (
	// ErrValidation marks caller input errors that are safe to retry with corrected input.
	ErrValidation = errors.New("validation error")
	// ErrBlankRequirement is returned before any network call when the requirement text is blank.
	ErrBlankRequirement = fmt.Errorf("%w: requirement text is required", ErrValidation)
	// ErrRunInProgress is returned by Invoke when the session already holds a run.
	ErrRunInProgress = errors.New("a run is already in progress for this session")
	// ErrRunNotFound is returned by Resume when the handle does not match a parked run.
	ErrRunNotFound = errors.New("no pending run matches this handle")

	// ErrClarificationFailed matches any StageError from the clarification stage.
	ErrClarificationFailed = errors.New("clarification stage failed")
	// ErrGenerationFailed matches any StageError from the generation stage.
	ErrGenerationFailed = errors.New("generation stage failed")

	// ErrInvalidTestCase wraps every post-generation validation failure.
	ErrInvalidTestCase = errors.New("invalid test case")
)

// StageError tags a hard pipeline failure with the stage it happened in.
// The run has already been discarded when a StageError reaches the caller.
type StageError struct {
	Stage model.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (e *StageError) Is(target error) bool {
	switch target {
	case ErrClarificationFailed:
		return e.Stage == model.StageClarification
	case ErrGenerationFailed:
		return e.Stage == model.StageGeneration
	}
	return false
}

func newStageError(stage model.Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
