package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/common"
	"github.com/proxyforge/proxyforge/file"
	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
)

// ProvisionSessionStep acquires a reusable session credential through the
// scraper shipped in the materialized session-broker repository: it installs
// the scraper's npm dependencies, invokes its register script with the three
// credential fields, and relocates the produced session file into the
// workflow's output directory.
//
// Commands run with the scraper directory as an explicit working-directory
// parameter; the process-wide current directory is never changed, so there is
// nothing to restore on any exit path.
type ProvisionSessionStep struct {
	step.BaseStep
}

// NewProvisionSessionStep creates a new ProvisionSessionStep.
func NewProvisionSessionStep() step.Step {
	return &ProvisionSessionStep{
		BaseStep: step.NewBaseStep("ProvisionSession", "Acquire the session credential via the broker scraper"),
	}
}

func (s *ProvisionSessionStep) Init(rt runtime.Runtime, log *logrus.Entry) error {
	return s.BaseStep.Init(rt, log)
}

func (s *ProvisionSessionStep) Execute(rt runtime.Runtime, log *logrus.Entry) (string, bool, error) {
	cfg := rt.Config()
	scraperDir := filepath.Join(rt.RepoDir(), cfg.ScraperSubdir)

	isDir, err := file.IsDir(scraperDir)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to inspect scraper directory %s", scraperDir)
	}
	if !isDir {
		return "", false, errors.Errorf("scraper directory %s is missing from the materialized repository", scraperDir)
	}

	email := rt.Getenv(common.EnvAccountEmail)
	password := rt.Getenv(common.EnvAccountPassword)
	authBlob := rt.Getenv(common.EnvAuthBlob)
	if email == "" || password == "" || authBlob == "" {
		// The env check runs first; hitting this means the pipeline order
		// was violated.
		return "", false, errors.New("session provisioning started without validated credentials")
	}

	ctx := context.Background()

	log.Infof("Installing scraper dependencies in %s", scraperDir)
	stdout, stderr, exitCode, err := rt.Executor().Execute(ctx, scraperDir, "npm", "install")
	if err != nil {
		return stdout, false, errors.Wrap(err, "npm install failed")
	}
	if exitCode != 0 {
		return stdout, false, errors.Errorf("npm install failed with exit code %d: %s", exitCode, stderr)
	}

	log.Info("Running session acquisition. This may take a while.")
	// Credentials are passed as arguments, never logged.
	stdout, stderr, exitCode, err = rt.Executor().Execute(ctx, scraperDir,
		"node", "register.js", email, password, authBlob, cfg.SessionOutRelPath)
	if err != nil {
		return stdout, false, errors.Wrap(err, "session acquisition failed")
	}
	if exitCode != 0 {
		return stdout, false, errors.Errorf("session acquisition failed with exit code %d: %s", exitCode, stderr)
	}

	src := filepath.Join(scraperDir, cfg.SessionOutRelPath)
	produced, err := file.PathExists(src)
	if err != nil {
		return stdout, false, errors.Wrapf(err, "failed to inspect session file %s", src)
	}
	if !produced {
		return stdout, false, errors.Errorf("session acquisition reported success but %s was not produced", src)
	}

	dest := filepath.Join(rt.BaseDir(), cfg.SessionFile)
	if err := file.CopyFile(src, dest, common.FileMode0600); err != nil {
		return stdout, false, errors.Wrapf(err, "failed to copy session file to %s", dest)
	}

	rt.Artifacts().Set(cfg.SessionFile, dest)
	log.Infof("Session credential written to %s.", dest)
	return fmt.Sprintf("session credential written to %s", dest), true, nil
}

var _ step.Step = (*ProvisionSessionStep)(nil)
