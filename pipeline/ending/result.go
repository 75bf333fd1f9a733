package ending

import (
	"fmt"
	"strings"
)

// ResultStatus defines the execution status of a pipeline or step.
type ResultStatus int

const (
	ResultSuccess ResultStatus = iota // Operation completed successfully
	ResultFailed                      // Operation failed
	ResultSkipped                     // Operation was skipped
	ResultPending                     // Operation is pending or in an indeterminate state
)

// String returns a string representation of the ResultStatus.
func (s ResultStatus) String() string {
	switch s {
	case ResultSuccess:
		return "SUCCESS"
	case ResultFailed:
		return "FAILED"
	case ResultSkipped:
		return "SKIPPED"
	case ResultPending:
		return "PENDING"
	default:
		return fmt.Sprintf("UNKNOWN_STATUS_%d", int(s))
	}
}

// Result holds the outcome of a pipeline (or step) execution.
type Result struct {
	Status  ResultStatus
	Message string
	Errors  []error
}

// NewResult creates a new Result, defaulting to Pending.
func NewResult() *Result {
	return &Result{
		Status: ResultPending,
		Errors: make([]error, 0),
	}
}

// IsFailed checks if the execution is considered failed. A result is failed
// if its Status is explicitly ResultFailed, or if errors accumulated while
// the status is still Pending.
func (r *Result) IsFailed() bool {
	if r.Status == ResultFailed {
		return true
	}
	if len(r.Errors) > 0 && r.Status == ResultPending {
		return true
	}
	return false
}

// AddError appends an error to the list of errors and marks the result as
// Failed unless it was already Skipped.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err)
	if r.Status == ResultPending || r.Status == ResultSuccess {
		r.Status = ResultFailed
	}
}

// SetError sets a primary error message and adds the error. This always marks
// the result as Failed.
func (r *Result) SetError(err error, message string) {
	r.Message = message
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
	r.Status = ResultFailed
}

// CombinedError returns a single error object that aggregates all recorded
// errors, or nil if there are none.
func (r *Result) CombinedError() error {
	if len(r.Errors) == 0 {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	var errorStrings []string
	for _, e := range r.Errors {
		errorStrings = append(errorStrings, e.Error())
	}
	return fmt.Errorf("multiple errors occurred: %s", strings.Join(errorStrings, "; "))
}

// SetStatus sets the result status.
func (r *Result) SetStatus(status ResultStatus) {
	r.Status = status
}

// SetMessage sets a descriptive message for the result.
func (r *Result) SetMessage(message string) {
	r.Message = message
}
