package verify

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/file"
	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
)

// VerifyArtifactsStep confirms that the declared set of output artifacts
// exists after all other steps (and the cleanup of transient state) have
// completed. It reports ALL missing files in one diagnostic.
type VerifyArtifactsStep struct {
	step.BaseStep
	Artifacts []string
}

// NewVerifyArtifactsStep creates a new VerifyArtifactsStep for the given
// artifact filenames.
func NewVerifyArtifactsStep(artifacts []string) step.Step {
	return &VerifyArtifactsStep{
		BaseStep:  step.NewBaseStep("VerifySetup", "Verify all required output artifacts exist"),
		Artifacts: artifacts,
	}
}

func (s *VerifyArtifactsStep) Init(rt runtime.Runtime, log *logrus.Entry) error {
	if len(s.Artifacts) == 0 {
		return errors.New("verify setup: artifact list cannot be empty")
	}
	return s.BaseStep.Init(rt, log)
}

func (s *VerifyArtifactsStep) Execute(rt runtime.Runtime, log *logrus.Entry) (string, bool, error) {
	var missing []string
	var present []string

	for _, name := range s.Artifacts {
		path := filepath.Join(rt.BaseDir(), name)
		if registered, ok := rt.Artifacts().Get(name); ok {
			path = registered
		}
		exists, err := file.PathExists(path)
		if err != nil {
			return "", false, errors.Wrapf(err, "failed to inspect artifact %s", path)
		}
		if !exists {
			log.Errorf("Required artifact missing: %s", path)
			missing = append(missing, name)
			continue
		}
		log.Debugf("Artifact present: %s", path)
		present = append(present, path)
	}

	if len(missing) > 0 {
		return strings.Join(present, "\n"), false,
			errors.Errorf("setup verification failed, missing artifacts: %s", strings.Join(missing, ", "))
	}

	log.Infof("All %d required artifacts are present.", len(s.Artifacts))
	return fmt.Sprintf("verified: %s", strings.Join(s.Artifacts, ", ")), true, nil
}

var _ step.Step = (*VerifyArtifactsStep)(nil)
