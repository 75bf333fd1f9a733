package precheck

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
	"github.com/proxyforge/proxyforge/util"
)

// DependencyCheckStep verifies that every required external tool is resolvable
// on the execution path before any mutating step runs. It is a read-only
// probe: it collects ALL missing tools and reports them in one diagnostic
// rather than stopping at the first.
type DependencyCheckStep struct {
	step.BaseStep
	Tools []string
}

// NewDependencyCheckStep creates a new DependencyCheckStep for the given tools.
// Duplicate names in the list are probed once.
func NewDependencyCheckStep(tools []string) step.Step {
	return &DependencyCheckStep{
		BaseStep: step.NewBaseStep("DependencyCheck", "Verify required external tools are installed"),
		Tools:    util.UniqueStrings(tools),
	}
}

func (s *DependencyCheckStep) Init(rt runtime.Runtime, log *logrus.Entry) error {
	if len(s.Tools) == 0 {
		return errors.New("dependency check: tool list cannot be empty")
	}
	return s.BaseStep.Init(rt, log)
}

func (s *DependencyCheckStep) Execute(rt runtime.Runtime, log *logrus.Entry) (string, bool, error) {
	var missing []string
	var found []string

	for _, tool := range s.Tools {
		path, err := rt.Executor().LookPath(tool)
		if err != nil {
			log.Errorf("Required tool not found: %s", tool)
			missing = append(missing, tool)
			continue
		}
		log.Debugf("Found %s at %s", tool, path)
		found = append(found, fmt.Sprintf("%s=%s", tool, path))
	}

	if len(missing) > 0 {
		return strings.Join(found, "\n"), false,
			errors.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}

	log.Infof("All %d required tools are present.", len(s.Tools))
	return strings.Join(found, "\n"), true, nil
}

var _ step.Step = (*DependencyCheckStep)(nil)
