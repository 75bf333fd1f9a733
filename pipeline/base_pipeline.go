package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/common"
	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
)

// BasePipeline provides sequential fail-fast execution over an ordered list
// of steps. It can be embedded in concrete pipeline implementations.
//
// Steps run strictly in declaration order. The first step that signals
// failure aborts execution; steps are never retried. Each step's Post hook is
// called regardless of its Execute outcome.
type BasePipeline struct {
	name        string
	description string
	steps       []step.Step
}

// NewBasePipeline creates a new BasePipeline.
func NewBasePipeline(name, description string) BasePipeline {
	return BasePipeline{
		name:        name,
		description: description,
		steps:       make([]step.Step, 0),
	}
}

// Name returns the name of the pipeline.
func (bp *BasePipeline) Name() string {
	return bp.name
}

// Description returns the description of the pipeline.
func (bp *BasePipeline) Description() string {
	return bp.description
}

// Steps returns a copy of the list of steps in the pipeline.
func (bp *BasePipeline) Steps() []step.Step {
	s := make([]step.Step, len(bp.steps))
	copy(s, bp.steps)
	return s
}

// AddStep appends a step to the pipeline's execution list.
func (bp *BasePipeline) AddStep(s step.Step) {
	bp.steps = append(bp.steps, s)
}

// Init initializes all added steps in order.
func (bp *BasePipeline) Init(rt runtime.Runtime, log *logrus.Entry) error {
	log.Debugf("Initializing %d steps for pipeline %s.", len(bp.steps), bp.name)
	if len(bp.steps) == 0 {
		return errors.Errorf("no steps defined for pipeline %s", bp.name)
	}
	for i, s := range bp.steps {
		stepLog := log.WithFields(logrus.Fields{
			common.LogFieldStepName: s.Name(),
			"step_index":            fmt.Sprintf("%d/%d", i+1, len(bp.steps)),
		})
		if err := s.Init(rt, stepLog); err != nil {
			stepLog.Errorf("Failed to initialize step %s: %v", s.Name(), err)
			return errors.Wrapf(err, "failed to initialize step %s (index %d) in pipeline %s", s.Name(), i, bp.name)
		}
	}
	return nil
}

// Execute runs all steps sequentially, aborting on the first failure.
func (bp *BasePipeline) Execute(rt runtime.Runtime, log *logrus.Entry) error {
	log.Infof("Executing pipeline: %s (%s)", bp.name, bp.description)

	for i, currentStep := range bp.steps {
		stepLog := log.WithFields(logrus.Fields{
			common.LogFieldStepName: currentStep.Name(),
			"step_index":            fmt.Sprintf("%d/%d", i+1, len(bp.steps)),
		})
		stepLog.Infof("Executing step: %s (%s)", currentStep.Name(), currentStep.Description())
		fmt.Printf("===> Executing Step: %s (%s)\n", currentStep.Name(), currentStep.Description())

		stepOutput, stepSuccess, stepErr := currentStep.Execute(rt, stepLog)
		if stepOutput != "" {
			stepLog.Debugf("Step execution output:\n%s", stepOutput)
		}

		if postErr := currentStep.Post(rt, stepLog, stepErr); postErr != nil {
			stepLog.Errorf("Error during Post-Execute for step %s: %v", currentStep.Name(), postErr)
			if stepErr == nil {
				stepErr = postErr
			}
		}

		if stepErr != nil {
			stepLog.Errorf("Step %s failed: %v", currentStep.Name(), stepErr)
			fmt.Printf("===> Step FAILED: %s. Error: %v\n", currentStep.Name(), stepErr)
			return errors.Wrapf(stepErr, "pipeline %s failed at step %s", bp.name, currentStep.Name())
		}
		if !stepSuccess {
			stepLog.Errorf("Step %s completed but reported not successful.", currentStep.Name())
			fmt.Printf("===> Step FAILED: %s.\n", currentStep.Name())
			return errors.Errorf("pipeline %s failed at step %s: step reported not successful", bp.name, currentStep.Name())
		}

		stepLog.Infof("Step %s completed successfully.", currentStep.Name())
		fmt.Printf("===> Step SUCCEEDED: %s.\n", currentStep.Name())
	}

	log.Infof("Pipeline %s completed successfully.", bp.name)
	return nil
}
