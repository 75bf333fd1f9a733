package repo

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/file"
	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
)

// MaterializeRepoStep ensures a local working copy of the companion
// session-broker repository exists. Three observed states of the target
// directory drive the behavior:
//
//   - absent: clone the remote repository; failure is fatal
//   - present and non-empty: already materialized, skip cloning
//   - present and empty: stale leftover from a prior crash; remove it,
//     then clone as if absent
//
// Cloning into a non-empty directory would fail, and accepting any "present"
// directory would wrongly trust a stale empty one, so the three-way branch
// must not be collapsed.
type MaterializeRepoStep struct {
	step.BaseStep
	RepoURL string
}

// NewMaterializeRepoStep creates a new MaterializeRepoStep.
func NewMaterializeRepoStep(repoURL string) step.Step {
	return &MaterializeRepoStep{
		BaseStep: step.NewBaseStep("MaterializeRepo", "Clone or reuse the session-broker repository"),
		RepoURL:  repoURL,
	}
}

func (s *MaterializeRepoStep) Init(rt runtime.Runtime, log *logrus.Entry) error {
	if s.RepoURL == "" {
		return errors.New("materialize repo: repository URL cannot be empty")
	}
	return s.BaseStep.Init(rt, log)
}

func (s *MaterializeRepoStep) Execute(rt runtime.Runtime, log *logrus.Entry) (string, bool, error) {
	dir := rt.RepoDir()

	exists, err := file.PathExists(dir)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to inspect %s", dir)
	}

	if exists {
		isDir, err := file.IsDir(dir)
		if err != nil {
			return "", false, errors.Wrapf(err, "failed to inspect %s", dir)
		}
		if !isDir {
			return "", false, errors.Errorf("%s exists but is not a directory", dir)
		}

		empty, err := file.IsEmptyDir(dir)
		if err != nil {
			return "", false, errors.Wrapf(err, "failed to inspect %s", dir)
		}
		if !empty {
			log.Infof("Repository already materialized at %s, skipping clone.", dir)
			return fmt.Sprintf("reused existing clone at %s", dir), true, nil
		}

		// Empty directory left behind by a prior crash; repair by recloning.
		log.Warnf("Found empty directory at %s, removing it before cloning.", dir)
		if err := os.RemoveAll(dir); err != nil {
			return "", false, errors.Wrapf(err, "failed to remove empty directory %s", dir)
		}
	}

	log.Infof("Cloning %s into %s", s.RepoURL, dir)
	stdout, stderr, exitCode, err := rt.Executor().Execute(context.Background(), rt.BaseDir(), "git", "clone", s.RepoURL, dir)
	if err != nil {
		return stdout, false, errors.Wrapf(err, "failed to clone %s", s.RepoURL)
	}
	if exitCode != 0 {
		return stdout, false, errors.Errorf("git clone of %s failed with exit code %d: %s", s.RepoURL, exitCode, stderr)
	}

	if count, err := file.CountDirFiles(dir); err == nil {
		log.Debugf("Repository cloned into %s (%d files).", dir, count)
	} else {
		log.Infof("Repository cloned into %s.", dir)
	}
	return fmt.Sprintf("cloned %s into %s", s.RepoURL, dir), true, nil
}

var _ step.Step = (*MaterializeRepoStep)(nil)
