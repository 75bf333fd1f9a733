package pipeline

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxyforge/proxyforge/config"
	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
)

// MockStep is a configurable step for pipeline behavior tests.
type MockStep struct {
	step.BaseStep
	ExecuteFunc func() (string, bool, error)
	PostFunc    func(execErr error) error

	executed bool
	posted   bool
}

func NewMockStep(name string) *MockStep {
	return &MockStep{
		BaseStep: step.NewBaseStep(name, "mock step"),
	}
}

func (m *MockStep) Execute(rt runtime.Runtime, log *logrus.Entry) (string, bool, error) {
	m.executed = true
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc()
	}
	return "", true, nil
}

func (m *MockStep) Post(rt runtime.Runtime, log *logrus.Entry, execErr error) error {
	m.posted = true
	if m.PostFunc != nil {
		return m.PostFunc(execErr)
	}
	return nil
}

func testEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newPipelineRuntime(t *testing.T) runtime.Runtime {
	t.Helper()
	rt, err := runtime.NewRuntime(runtime.Config{
		BootstrapConfig: config.NewDefaultConfig(),
		BaseDir:         t.TempDir(),
		Environ:         []string{},
	})
	require.NoError(t, err)
	return rt
}

func TestBasePipelineInitRequiresSteps(t *testing.T) {
	p := NewBasePipeline("empty", "no steps")
	assert.Error(t, p.Init(newPipelineRuntime(t), testEntry()))
}

func TestBasePipelineExecutesInOrder(t *testing.T) {
	rt := newPipelineRuntime(t)
	log := testEntry()

	var order []string
	mkStep := func(name string) *MockStep {
		s := NewMockStep(name)
		s.ExecuteFunc = func() (string, bool, error) {
			order = append(order, name)
			return "", true, nil
		}
		return s
	}

	p := NewBasePipeline("ordered", "order test")
	p.AddStep(mkStep("first"))
	p.AddStep(mkStep("second"))
	p.AddStep(mkStep("third"))

	require.NoError(t, p.Init(rt, log))
	require.NoError(t, p.Execute(rt, log))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBasePipelineFailFastOnError(t *testing.T) {
	rt := newPipelineRuntime(t)
	log := testEntry()

	first := NewMockStep("first")
	failing := NewMockStep("failing")
	failing.ExecuteFunc = func() (string, bool, error) {
		return "", false, errors.New("step blew up")
	}
	never := NewMockStep("never")

	p := NewBasePipeline("failfast", "fail fast test")
	p.AddStep(first)
	p.AddStep(failing)
	p.AddStep(never)

	require.NoError(t, p.Init(rt, log))
	err := p.Execute(rt, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
	assert.Contains(t, err.Error(), "step blew up")

	assert.True(t, first.executed)
	assert.True(t, failing.executed)
	// The step after the failure never runs: no retries, no skipping ahead.
	assert.False(t, never.executed)
}

func TestBasePipelineFailsOnUnsuccessfulStep(t *testing.T) {
	rt := newPipelineRuntime(t)
	log := testEntry()

	soft := NewMockStep("soft-fail")
	soft.ExecuteFunc = func() (string, bool, error) {
		return "", false, nil
	}
	never := NewMockStep("never")

	p := NewBasePipeline("softfail", "unsuccessful step test")
	p.AddStep(soft)
	p.AddStep(never)

	require.NoError(t, p.Init(rt, log))
	err := p.Execute(rt, log)
	require.Error(t, err)
	assert.False(t, never.executed)
}

func TestBasePipelinePostRunsOnFailure(t *testing.T) {
	rt := newPipelineRuntime(t)
	log := testEntry()

	failing := NewMockStep("failing")
	failing.ExecuteFunc = func() (string, bool, error) {
		return "", false, errors.New("boom")
	}

	p := NewBasePipeline("post", "post hook test")
	p.AddStep(failing)

	require.NoError(t, p.Init(rt, log))
	require.Error(t, p.Execute(rt, log))
	assert.True(t, failing.posted)
}

func TestBasePipelinePostErrorSurfacesWhenExecuteSucceeded(t *testing.T) {
	rt := newPipelineRuntime(t)
	log := testEntry()

	s := NewMockStep("post-fails")
	s.PostFunc = func(execErr error) error {
		return errors.New("post failed")
	}

	p := NewBasePipeline("posterr", "post error test")
	p.AddStep(s)

	require.NoError(t, p.Init(rt, log))
	err := p.Execute(rt, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post failed")
}

func TestBasePipelineStepsReturnsCopy(t *testing.T) {
	p := NewBasePipeline("copy", "steps copy test")
	p.AddStep(NewMockStep("one"))

	steps := p.Steps()
	require.Len(t, steps, 1)
	steps[0] = nil
	assert.NotNil(t, p.Steps()[0])
}
