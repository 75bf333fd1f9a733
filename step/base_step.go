package step

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/runtime"
)

// BaseStep provides common fields and default method implementations for steps.
type BaseStep struct {
	StepName        string
	StepDescription string
}

// NewBaseStep is a helper constructor for initializing common BaseStep fields.
// Concrete steps call this in their own constructors.
func NewBaseStep(name, description string) BaseStep {
	return BaseStep{
		StepName:        name,
		StepDescription: description,
	}
}

// Name returns the name of the step.
func (bs *BaseStep) Name() string {
	return bs.StepName
}

// Description returns the description of the step.
func (bs *BaseStep) Description() string {
	return bs.StepDescription
}

// Init validates the runtime. Concrete steps call this base Init, then
// perform their own specific initialization.
func (bs *BaseStep) Init(rt runtime.Runtime, log *logrus.Entry) error {
	if rt == nil {
		return errors.Errorf("runtime cannot be nil for step '%s'", bs.StepName)
	}
	return nil
}

// Execute must be overridden by concrete steps.
func (bs *BaseStep) Execute(rt runtime.Runtime, log *logrus.Entry) (output string, success bool, err error) {
	return "", false, errors.Errorf("Execute not implemented in BaseStep for step '%s'", bs.StepName)
}

// Post is a hook for post-execution actions. Base implementation is a no-op.
func (bs *BaseStep) Post(rt runtime.Runtime, log *logrus.Entry, stepExecuteErr error) error {
	return nil
}
