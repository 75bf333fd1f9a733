package runtime

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/proxyforge/proxyforge/cache"
	"github.com/proxyforge/proxyforge/config"
	"github.com/proxyforge/proxyforge/executor"
	"github.com/proxyforge/proxyforge/util"
)

// baseRuntime implements the Runtime interface.
type baseRuntime struct {
	cfg       *config.BootstrapConfig
	exec      executor.Executor
	baseDir   string
	environ   map[string]string
	runID     string
	verbose   bool
	hostArch  string
	artifacts *cache.Cache[string, string]
}

// Config for creating a new Runtime.
type Config struct {
	BootstrapConfig *config.BootstrapConfig
	Executor        executor.Executor
	// BaseDir defaults to the process working directory.
	BaseDir string
	// Environ is the environment snapshot in KEY=VALUE form; defaults to
	// os.Environ(). The snapshot is immutable for the workflow's lifetime.
	Environ []string
	Verbose bool
	// HostArch defaults to the detected host architecture.
	HostArch string
}

// NewRuntime creates a new instance of Runtime.
func NewRuntime(cfg Config) (Runtime, error) {
	if cfg.BootstrapConfig == nil {
		return nil, errors.New("runtime: bootstrap config cannot be nil")
	}
	if cfg.Executor == nil {
		cfg.Executor = executor.NewLocalExecutor()
	}
	if cfg.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "runtime: failed to determine working directory")
		}
		cfg.BaseDir = wd
	}
	absBase, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, errors.Wrapf(err, "runtime: failed to resolve base directory %s", cfg.BaseDir)
	}
	if cfg.Environ == nil {
		cfg.Environ = os.Environ()
	}
	cfg.HostArch = util.FirstNonEmpty(cfg.HostArch, util.HostArch())

	environ := make(map[string]string, len(cfg.Environ))
	for _, kv := range cfg.Environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}

	return &baseRuntime{
		cfg:       cfg.BootstrapConfig,
		exec:      cfg.Executor,
		baseDir:   absBase,
		environ:   environ,
		runID:     uuid.NewString(),
		verbose:   cfg.Verbose,
		hostArch:  cfg.HostArch,
		artifacts: cache.NewCache[string, string](),
	}, nil
}

func (r *baseRuntime) Config() *config.BootstrapConfig {
	return r.cfg
}

func (r *baseRuntime) Executor() executor.Executor {
	return r.exec
}

func (r *baseRuntime) BaseDir() string {
	return r.baseDir
}

func (r *baseRuntime) RepoDir() string {
	return filepath.Join(r.baseDir, r.cfg.RepoDir)
}

func (r *baseRuntime) Getenv(key string) string {
	return r.environ[key]
}

func (r *baseRuntime) RunID() string {
	return r.runID
}

func (r *baseRuntime) Verbose() bool {
	return r.verbose
}

func (r *baseRuntime) HostArch() string {
	return r.hostArch
}

func (r *baseRuntime) Artifacts() *cache.Cache[string, string] {
	return r.artifacts
}
