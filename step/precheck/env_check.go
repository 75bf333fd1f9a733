package precheck

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
)

// EnvCheckStep verifies that every required credential variable is set and
// non-empty in the execution environment. Like the dependency check, it
// collects ALL missing variables before failing, and emits one ready-to-use
// remediation command per missing variable. Values are never logged.
type EnvCheckStep struct {
	step.BaseStep
	Vars []string
}

// NewEnvCheckStep creates a new EnvCheckStep for the given variable names.
func NewEnvCheckStep(vars []string) step.Step {
	return &EnvCheckStep{
		BaseStep: step.NewBaseStep("EnvCheck", "Verify required credential variables are set"),
		Vars:     vars,
	}
}

func (s *EnvCheckStep) Init(rt runtime.Runtime, log *logrus.Entry) error {
	if len(s.Vars) == 0 {
		return errors.New("env check: variable list cannot be empty")
	}
	return s.BaseStep.Init(rt, log)
}

func (s *EnvCheckStep) Execute(rt runtime.Runtime, log *logrus.Entry) (string, bool, error) {
	var missing []string
	var remediation []string

	for _, name := range s.Vars {
		if rt.Getenv(name) == "" {
			log.Errorf("Required environment variable not set: %s", name)
			missing = append(missing, name)
			remediation = append(remediation, RemediationFor(name))
			continue
		}
		log.Debugf("Environment variable %s is set.", name)
	}

	if len(missing) > 0 {
		for _, line := range remediation {
			log.Errorf("To fix: %s", line)
		}
		return strings.Join(remediation, "\n"), false,
			errors.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	log.Infof("All %d required environment variables are set.", len(s.Vars))
	return "", true, nil
}

// RemediationFor returns a ready-to-use shell command that supplies the
// missing variable. The placeholder keeps actual secrets out of diagnostics.
func RemediationFor(name string) string {
	return fmt.Sprintf("export %s=<value>", name)
}

var _ step.Step = (*EnvCheckStep)(nil)
