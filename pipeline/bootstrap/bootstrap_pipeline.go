package bootstrap

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/common"
	"github.com/proxyforge/proxyforge/file"
	"github.com/proxyforge/proxyforge/hook"
	"github.com/proxyforge/proxyforge/pipeline"
	"github.com/proxyforge/proxyforge/pipeline/ending"
	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step/artifact"
	"github.com/proxyforge/proxyforge/step/precheck"
	"github.com/proxyforge/proxyforge/step/repo"
	"github.com/proxyforge/proxyforge/step/session"
	"github.com/proxyforge/proxyforge/step/verify"
	timex "github.com/proxyforge/proxyforge/time"
)

// BootstrapPipeline is the workflow driver. It sequences the provisioning
// steps in fixed order, owns the cleanup-on-exit guarantee for the transient
// repository directory, and runs final verification only after cleanup so
// verification never observes transient state.
type BootstrapPipeline struct {
	pipeline.BasePipeline
	verifyStep *verify.VerifyArtifactsStep
}

// NewBootstrapPipeline builds the fixed step sequence for the given runtime:
// dependency check, environment check, the two artifact fetches, repository
// materialization, and session provisioning. Verification is held outside the
// main sequence so it runs after cleanup.
func NewBootstrapPipeline(rt runtime.Runtime, log *logrus.Entry) *BootstrapPipeline {
	cfg := rt.Config()

	p := &BootstrapPipeline{
		BasePipeline: pipeline.NewBasePipeline("bootstrap", "Provision the self-hosted proxy service"),
	}

	// No step with side effects runs before both prechecks have passed;
	// the order below is the contract, not an optimization.
	p.AddStep(precheck.NewDependencyCheckStep(cfg.RequiredTools))
	p.AddStep(precheck.NewEnvCheckStep(common.RequiredEnvVars()))
	p.AddStep(artifact.NewFetchArtifactStep(
		"FetchCompose",
		cfg.ComposeTemplateURL,
		artifact.ComposeImageTransform(rt.HostArch(), cfg.DefaultImageTag, cfg.Arm64ImageTag, log),
		cfg.ComposeFile,
	))
	p.AddStep(artifact.NewFetchArtifactStep(
		"FetchConfig",
		cfg.ConfigTemplateURL,
		artifact.CacheHostTransform(cfg.CacheHostLocal, cfg.CacheHostInNetwork),
		cfg.ConfigFile,
	))
	p.AddStep(repo.NewMaterializeRepoStep(cfg.BrokerRepoURL))
	p.AddStep(session.NewProvisionSessionStep())

	p.verifyStep = verify.NewVerifyArtifactsStep(cfg.Artifacts()).(*verify.VerifyArtifactsStep)
	return p
}

// Run executes the pipeline with the cleanup guarantee and post-cleanup
// verification. It returns the aggregated result; the caller maps a failed
// result to a non-zero process exit.
func (p *BootstrapPipeline) Run(rt runtime.Runtime, log *logrus.Entry) *ending.Result {
	res := ending.NewResult()
	start := time.Now()

	if err := p.Init(rt, log); err != nil {
		res.SetError(err, "pipeline initialization failed")
		Cleanup(rt, log)
		return res
	}

	// The whole step sequence runs inside a try/finally bracket: cleanup of
	// the transient repository directory cannot be skipped by any failure
	// mode, including a panicking step.
	err := hook.Call(&runHook{pipeline: p, rt: rt, log: log})
	if err != nil {
		res.SetError(err, "bootstrap failed")
		return res
	}

	// Cleanup already ran; verification only observes permanent artifacts.
	verifyLog := log.WithField(common.LogFieldStepName, p.verifyStep.Name())
	if err := p.verifyStep.Init(rt, verifyLog); err != nil {
		res.SetError(err, "verification initialization failed")
		return res
	}
	if _, ok, err := p.verifyStep.Execute(rt, verifyLog); err != nil || !ok {
		res.SetError(err, "setup verification failed")
		return res
	}

	rt.Artifacts().Range(func(name, path string) bool {
		log.Debugf("Produced artifact %s at %s", name, path)
		return true
	})

	res.SetStatus(ending.ResultSuccess)
	res.SetMessage("bootstrap completed in " + timex.ShortDur(time.Since(start)))
	return res
}

// runHook brackets pipeline execution with the unconditional cleanup.
type runHook struct {
	pipeline *BootstrapPipeline
	rt       runtime.Runtime
	log      *logrus.Entry
}

func (h *runHook) Try() error {
	return h.pipeline.Execute(h.rt, h.log)
}

func (h *runHook) Catch(err error) error {
	h.log.Errorf("Bootstrap aborted: %v", err)
	return err
}

func (h *runHook) Finally() {
	Cleanup(h.rt, h.log)
}

// Cleanup removes the transient repository directory. It is idempotent and
// safe to call from the interruption signal handler: the useful output (the
// session file) has already been copied out by the time it matters, and the
// clone is re-materialized on the next run if needed.
func Cleanup(rt runtime.Runtime, log *logrus.Entry) {
	dir := rt.RepoDir()
	exists, err := file.PathExists(dir)
	if err != nil {
		log.Warnf("Could not inspect transient directory %s during cleanup: %v", dir, err)
		return
	}
	if !exists {
		return
	}
	log.Infof("Removing transient repository directory %s.", dir)
	if err := os.RemoveAll(dir); err != nil {
		log.Warnf("Failed to remove transient directory %s: %v", dir, err)
	}
}

var _ pipeline.Pipeline = (*BootstrapPipeline)(nil)
