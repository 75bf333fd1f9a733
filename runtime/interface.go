package runtime

import (
	"github.com/proxyforge/proxyforge/cache"
	"github.com/proxyforge/proxyforge/config"
	"github.com/proxyforge/proxyforge/executor"
)

// Runtime defines an interface for accessing overall execution context and
// configuration. It is immutable for the workflow's lifetime.
type Runtime interface {
	// Config returns the workflow configuration.
	Config() *config.BootstrapConfig

	// Executor returns the command executor for external process invocation.
	Executor() executor.Executor

	// BaseDir is the invocation directory; output artifacts are written here.
	BaseDir() string

	// RepoDir is the absolute path of the transient clone directory
	// (BaseDir joined with the configured repo directory name).
	RepoDir() string

	// Getenv returns the value of an environment binding from the snapshot
	// taken at runtime construction, or "" if unset.
	Getenv(key string) string

	// RunID is a unique identifier for this workflow execution.
	RunID() string

	Verbose() bool

	// HostArch is the uname -m style CPU architecture of the host.
	HostArch() string

	// Artifacts is the registry of artifacts produced so far:
	// artifact filename -> absolute path written.
	Artifacts() *cache.Cache[string, string]
}
