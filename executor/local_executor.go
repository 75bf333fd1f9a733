package executor

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// localExecutor implements the Executor interface for local machine operations.
type localExecutor struct{}

// NewLocalExecutor creates a new Executor for local operations.
func NewLocalExecutor() Executor {
	return &localExecutor{}
}

func (l *localExecutor) LookPath(tool string) (string, error) {
	return exec.LookPath(tool)
}

func (l *localExecutor) Execute(ctx context.Context, dir, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				exitCode = status.ExitStatus()
			} else {
				exitCode = 1
			}
			// A non-zero exit is reported through the exit code, not the error.
			return stdout.String(), stderr.String(), exitCode, nil
		}
		// Command could not be started at all (e.g. binary not found).
		return stdout.String(), stderr.String(), 1,
			errors.Wrapf(err, "failed to run command '%s %s'", name, strings.Join(args, " "))
	}
	return stdout.String(), stderr.String(), exitCode, nil
}
