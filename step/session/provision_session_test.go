package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxyforge/proxyforge/common"
	"github.com/proxyforge/proxyforge/config"
	"github.com/proxyforge/proxyforge/runtime"
)

// scraperExecutor simulates npm install and the register script. The register
// invocation writes the session file relative to the working directory it was
// given, like the real script does.
type scraperExecutor struct {
	t *testing.T

	npmExitCode  int
	nodeExitCode int
	skipOutFile  bool

	// invocations records name plus working directory for order assertions.
	invocations [][2]string
	// nodeArgs holds the argument list of the register invocation.
	nodeArgs []string
}

func (f *scraperExecutor) LookPath(tool string) (string, error) {
	return "/usr/bin/" + tool, nil
}

func (f *scraperExecutor) Execute(ctx context.Context, dir, name string, args ...string) (string, string, int, error) {
	f.t.Helper()
	f.invocations = append(f.invocations, [2]string{name, dir})

	switch name {
	case "npm":
		require.Equal(f.t, []string{"install"}, args)
		return "", "", f.npmExitCode, nil
	case "node":
		f.nodeArgs = args
		if f.nodeExitCode != 0 {
			return "", "registration rejected", f.nodeExitCode, nil
		}
		if !f.skipOutFile {
			outPath := filepath.Join(dir, args[len(args)-1])
			require.NoError(f.t, os.MkdirAll(filepath.Dir(outPath), 0755))
			require.NoError(f.t, os.WriteFile(outPath, []byte(`{"token":"session-token"}`), 0644))
		}
		return "", "", 0, nil
	default:
		f.t.Fatalf("unexpected command %s", name)
		return "", "", 1, nil
	}
}

func testEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func credsEnviron() []string {
	return []string{
		common.EnvAccountEmail + "=user@example.com",
		common.EnvAccountPassword + "=s3cret",
		common.EnvAuthBlob + "=blob-token",
	}
}

func newSessionRuntime(t *testing.T, exec *scraperExecutor, environ []string) runtime.Runtime {
	t.Helper()
	rt, err := runtime.NewRuntime(runtime.Config{
		BootstrapConfig: config.NewDefaultConfig(),
		Executor:        exec,
		BaseDir:         t.TempDir(),
		Environ:         environ,
	})
	require.NoError(t, err)
	return rt
}

func materializeScraperDir(t *testing.T, rt runtime.Runtime) string {
	t.Helper()
	scraperDir := filepath.Join(rt.RepoDir(), rt.Config().ScraperSubdir)
	require.NoError(t, os.MkdirAll(scraperDir, 0755))
	return scraperDir
}

func TestProvisionSessionSuccess(t *testing.T) {
	exec := &scraperExecutor{t: t}
	rt := newSessionRuntime(t, exec, credsEnviron())
	scraperDir := materializeScraperDir(t, rt)

	s := NewProvisionSessionStep()
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	require.NoError(t, err)
	assert.True(t, ok)

	// npm install ran before the register script, both in the scraper dir.
	require.Len(t, exec.invocations, 2)
	assert.Equal(t, [2]string{"npm", scraperDir}, exec.invocations[0])
	assert.Equal(t, [2]string{"node", scraperDir}, exec.invocations[1])
	assert.Equal(t, []string{"register.js", "user@example.com", "s3cret", "blob-token", "out/session.json"}, exec.nodeArgs)

	dest := filepath.Join(rt.BaseDir(), rt.Config().SessionFile)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `{"token":"session-token"}`, string(got))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, common.FileMode0600, info.Mode().Perm())

	registered, found := rt.Artifacts().Get(rt.Config().SessionFile)
	assert.True(t, found)
	assert.Equal(t, dest, registered)
}

func TestProvisionSessionMissingScraperDir(t *testing.T) {
	exec := &scraperExecutor{t: t}
	rt := newSessionRuntime(t, exec, credsEnviron())
	// Repository was never materialized.

	s := NewProvisionSessionStep()
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
	assert.Empty(t, exec.invocations)
}

func TestProvisionSessionMissingCredentials(t *testing.T) {
	exec := &scraperExecutor{t: t}
	rt := newSessionRuntime(t, exec, []string{})
	materializeScraperDir(t, rt)

	s := NewProvisionSessionStep()
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Empty(t, exec.invocations)
}

func TestProvisionSessionNpmFailure(t *testing.T) {
	exec := &scraperExecutor{t: t, npmExitCode: 1}
	rt := newSessionRuntime(t, exec, credsEnviron())
	materializeScraperDir(t, rt)

	processWD, err := os.Getwd()
	require.NoError(t, err)

	s := NewProvisionSessionStep()
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "npm install failed")
	// The register script never ran.
	require.Len(t, exec.invocations, 1)

	// The process working directory is untouched on the failure path.
	wdAfter, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, processWD, wdAfter)
}

func TestProvisionSessionRegisterFailure(t *testing.T) {
	exec := &scraperExecutor{t: t, nodeExitCode: 2}
	rt := newSessionRuntime(t, exec, credsEnviron())
	materializeScraperDir(t, rt)

	s := NewProvisionSessionStep()
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit code 2")
	// Credential values never leak into the diagnostic.
	assert.NotContains(t, err.Error(), "s3cret")
	assert.NotContains(t, err.Error(), "blob-token")

	_, statErr := os.Stat(filepath.Join(rt.BaseDir(), rt.Config().SessionFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProvisionSessionOutputFileNotProduced(t *testing.T) {
	exec := &scraperExecutor{t: t, skipOutFile: true}
	rt := newSessionRuntime(t, exec, credsEnviron())
	materializeScraperDir(t, rt)

	s := NewProvisionSessionStep()
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was not produced")
}
