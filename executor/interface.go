package executor

import "context"

// Executor abstracts external process invocation and tool resolution so that
// steps can be tested without touching the real system.
//
// Every command takes an explicit working directory instead of relying on the
// process-wide current directory; an empty dir means "inherit the caller's".
type Executor interface {
	// LookPath resolves an executable name on the execution path.
	// It returns the resolved path, or an error if the tool is not found.
	LookPath(tool string) (string, error)

	// Execute runs the named command with args in dir.
	// It returns captured stdout, stderr, the process exit code, and an error
	// for failures beyond a non-zero exit (e.g. the binary cannot be started).
	Execute(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, exitCode int, err error)
}
