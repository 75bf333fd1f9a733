package repo

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxyforge/proxyforge/config"
	"github.com/proxyforge/proxyforge/runtime"
)

// cloneExecutor simulates git by materializing a directory with content on
// clone; any other invocation fails the test.
type cloneExecutor struct {
	t        *testing.T
	clones   int
	exitCode int
	stderr   string
}

func (f *cloneExecutor) LookPath(tool string) (string, error) {
	return "/usr/bin/" + tool, nil
}

func (f *cloneExecutor) Execute(ctx context.Context, dir, name string, args ...string) (string, string, int, error) {
	f.t.Helper()
	require.Equal(f.t, "git", name)
	require.Equal(f.t, "clone", args[0])
	f.clones++
	if f.exitCode != 0 {
		return "", f.stderr, f.exitCode, nil
	}
	target := args[len(args)-1]
	require.NoError(f.t, os.MkdirAll(target, 0755))
	require.NoError(f.t, os.WriteFile(filepath.Join(target, "README.md"), []byte("broker"), 0644))
	return "Cloning into ...", "", 0, nil
}

func testEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newRepoRuntime(t *testing.T, exec *cloneExecutor) runtime.Runtime {
	t.Helper()
	rt, err := runtime.NewRuntime(runtime.Config{
		BootstrapConfig: config.NewDefaultConfig(),
		Executor:        exec,
		BaseDir:         t.TempDir(),
		Environ:         []string{},
	})
	require.NoError(t, err)
	return rt
}

func TestMaterializeRepoClonesWhenAbsent(t *testing.T) {
	exec := &cloneExecutor{t: t}
	rt := newRepoRuntime(t, exec)
	s := NewMaterializeRepoStep("https://example.com/broker.git")
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, exec.clones)

	info, err := os.Stat(filepath.Join(rt.RepoDir(), "README.md"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMaterializeRepoSkipsNonEmptyDir(t *testing.T) {
	exec := &cloneExecutor{t: t}
	rt := newRepoRuntime(t, exec)
	require.NoError(t, os.MkdirAll(rt.RepoDir(), 0755))
	marker := filepath.Join(rt.RepoDir(), "existing.txt")
	require.NoError(t, os.WriteFile(marker, []byte("keep me"), 0644))

	s := NewMaterializeRepoStep("https://example.com/broker.git")
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	require.NoError(t, err)
	assert.True(t, ok)
	// No clone attempted, existing content untouched.
	assert.Equal(t, 0, exec.clones)
	got, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got))
}

func TestMaterializeRepoRepairsEmptyDir(t *testing.T) {
	exec := &cloneExecutor{t: t}
	rt := newRepoRuntime(t, exec)
	require.NoError(t, os.MkdirAll(rt.RepoDir(), 0755))

	s := NewMaterializeRepoStep("https://example.com/broker.git")
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, exec.clones)

	_, err = os.Stat(filepath.Join(rt.RepoDir(), "README.md"))
	assert.NoError(t, err)
}

func TestMaterializeRepoRejectsFileAtPath(t *testing.T) {
	exec := &cloneExecutor{t: t}
	rt := newRepoRuntime(t, exec)
	require.NoError(t, os.WriteFile(rt.RepoDir(), []byte("not a dir"), 0644))

	s := NewMaterializeRepoStep("https://example.com/broker.git")
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
	assert.Equal(t, 0, exec.clones)
}

func TestMaterializeRepoCloneFailureIsFatal(t *testing.T) {
	exec := &cloneExecutor{t: t, exitCode: 128, stderr: "fatal: repository not found"}
	rt := newRepoRuntime(t, exec)

	s := NewMaterializeRepoStep("https://example.com/broker.git")
	log := testEntry()
	require.NoError(t, s.Init(rt, log))

	_, ok, err := s.Execute(rt, log)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit code 128")
	assert.Contains(t, err.Error(), "repository not found")
}

func TestMaterializeRepoInitRejectsEmptyURL(t *testing.T) {
	rt := newRepoRuntime(t, &cloneExecutor{t: t})
	s := NewMaterializeRepoStep("")
	assert.Error(t, s.Init(rt, testEntry()))
}
