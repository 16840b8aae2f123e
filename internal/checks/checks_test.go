package checks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BitgesellOfficial/lint-runner/internal/config"
	"github.com/BitgesellOfficial/lint-runner/internal/execx"
	"github.com/BitgesellOfficial/lint-runner/internal/git"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
	"github.com/BitgesellOfficial/lint-runner/internal/testutil"
)

func newDeps(t *testing.T, root string, e execx.Executor) (*runner.Deps, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &runner.Deps{Root: root, Exec: e, Out: &out, Err: io.Discard, Logger: testutil.NewTestLogger(t)}, &out
}

func TestExecCheck(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	testutil.WriteScript(t, root, "ok.sh", "echo all documented")
	testutil.WriteScript(t, root, "bad.sh", "echo 'option -foo undocumented' >&2; exit 1")

	deps, out := newDeps(t, root, execx.NewSystem(testutil.NewTestLogger(t)))

	ok := &ExecCheck{id: "ok", name: "ok", cmd: execx.Command{Name: filepath.Join(root, "ok.sh")}}
	res, err := ok.Run(ctx, deps)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, "all documented\n", out.String(), "stdout is forwarded")

	bad := &ExecCheck{id: "bad", name: "bad", cmd: execx.Command{Name: filepath.Join(root, "bad.sh")}}
	res, err = bad.Run(ctx, deps)
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "option -foo undocumented", res.Message)
}

func TestExecCheck_PassingStderrIsForwarded(t *testing.T) {
	root := t.TempDir()
	testutil.WriteScript(t, root, "warn.sh", "echo 'warning: option -x undocumented' >&2")
	testutil.WriteScript(t, root, "bad.sh", "echo 'option -y undocumented' >&2; exit 1")

	deps, out := newDeps(t, root, execx.NewSystem(testutil.NewTestLogger(t)))
	var errOut bytes.Buffer
	deps.Err = &errOut

	warn := &ExecCheck{id: "warn", name: "warn", cmd: execx.Command{Name: filepath.Join(root, "warn.sh")}}
	res, err := warn.Run(context.Background(), deps)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Empty(t, res.Message)
	assert.Empty(t, out.String())
	assert.Equal(t, "warning: option -x undocumented\n", errOut.String())

	errOut.Reset()
	bad := &ExecCheck{id: "bad", name: "bad", cmd: execx.Command{Name: filepath.Join(root, "bad.sh")}}
	res, err = bad.Run(context.Background(), deps)
	require.NoError(t, err)
	assert.Equal(t, "option -y undocumented", res.Message)
	assert.Empty(t, errOut.String(), "a failing command's stderr goes into the message only")
}

func TestExecCheck_NonZeroExitAlwaysFails(t *testing.T) {
	for _, code := range []int{1, 2, 3, 127, 255} {
		fake := &testutil.FakeExecutor{Respond: func(execx.Command) (execx.Output, error) {
			return execx.Output{ExitCode: code}, nil
		}}
		deps, _ := newDeps(t, "/repo", fake)

		res, err := NewDoc(config.DocConfig{Script: "test/lint/check-doc.py"}).Run(context.Background(), deps)
		require.NoError(t, err)
		assert.True(t, res.Failed(), "exit %d", code)
		assert.Equal(t, code, res.ExitCode)
	}
}

func TestDoc_RunsFromRoot(t *testing.T) {
	fake := &testutil.FakeExecutor{}
	deps, _ := newDeps(t, "/repo", fake)

	res, err := NewDoc(config.DocConfig{Script: "test/lint/check-doc.py"}).Run(context.Background(), deps)
	require.NoError(t, err)
	assert.False(t, res.Failed())

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, execx.Command{Name: "test/lint/check-doc.py", Dir: "/repo"}, calls[0])
}

func TestExecCheck_SpawnFailureIsFatal(t *testing.T) {
	deps, _ := newDeps(t, t.TempDir(), execx.NewSystem(nil))

	_, err := NewDoc(config.DocConfig{Script: "test/lint/does-not-exist.py"}).Run(context.Background(), deps)
	assert.ErrorIs(t, err, execx.ErrSpawn)
}

func TestSubtree_NoShortCircuit(t *testing.T) {
	fake := &testutil.FakeExecutor{Respond: func(cmd execx.Command) (execx.Output, error) {
		if cmd.Args[0] == "B" {
			return execx.Output{ExitCode: 1, Stderr: []byte("B was modified\n")}, nil
		}
		return execx.Output{}, nil
	}}
	deps, _ := newDeps(t, "/repo", fake)

	check := NewSubtree(config.SubtreeConfig{Script: "test/lint/git-subtree-check.sh", Dirs: []string{"A", "B", "C"}})
	res, err := check.Run(context.Background(), deps)
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Equal(t, "B was modified", res.Message)

	var dirs []string
	for _, c := range fake.Calls() {
		assert.Equal(t, "test/lint/git-subtree-check.sh", c.Name)
		assert.Equal(t, "/repo", c.Dir)
		dirs = append(dirs, c.Args...)
	}
	assert.Equal(t, []string{"A", "B", "C"}, dirs, "C must still be checked after B fails")
}

func TestSubtree_Script(t *testing.T) {
	root := testutil.InitRepo(t)
	testutil.WriteScript(t, root, "test/lint/git-subtree-check.sh", `
echo "$1" >> checked.log
case "$1" in
  src/secp256k1) echo "$1 is not a pure subtree" >&2; exit 1 ;;
esac
`)
	t.Chdir(root)
	deps, _ := newDeps(t, root, execx.NewSystem(testutil.NewTestLogger(t)))

	res, err := NewSubtree(config.Default().Subtree).Run(context.Background(), deps)
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, "src/secp256k1 is not a pure subtree", res.Message)

	logged, err := os.ReadFile(filepath.Join(root, "checked.log"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSubtrees, strings.Fields(string(logged)))
}

func TestSubtree_AllPure(t *testing.T) {
	fake := &testutil.FakeExecutor{}
	deps, out := newDeps(t, "/repo", fake)

	res, err := NewSubtree(config.Default().Subtree).Run(context.Background(), deps)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Len(t, fake.Calls(), len(config.DefaultSubtrees))
	assert.Empty(t, out.String())
}

func TestForbiddenAPI(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		failed bool
	}{
		{
			name: "only in excluded file",
			files: map[string]string{
				"src/util/fs.h": "namespace fs = std::filesystem;\n",
				"src/init.cpp":  "#include <util/fs.h>\n",
			},
		},
		{
			name: "in a non-excluded file",
			files: map[string]string{
				"src/util/fs.h": "namespace fs = std::filesystem;\n",
				"src/init.cpp":  "std::filesystem::path p;\n",
			},
			failed: true,
		},
		{
			name: "outside src is ignored",
			files: map[string]string{
				"doc/style.md": "Do not use std::filesystem.\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testutil.InitRepo(t)
			for path, content := range tt.files {
				testutil.CreateFile(t, root, path, content)
			}
			testutil.RunGit(t, root, "add", ".")

			deps, out := newDeps(t, root, execx.NewSystem(testutil.NewTestLogger(t)))
			check := NewForbiddenAPI(config.Default().Forbidden)
			res, err := check.Run(context.Background(), deps)
			require.NoError(t, err)

			assert.Equal(t, tt.failed, res.Failed())
			if tt.failed {
				assert.Equal(t, config.DefaultForbiddenMessage, res.Message)
				assert.Contains(t, out.String(), "src/init.cpp:std::filesystem::path p;")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestForbiddenAPI_Name(t *testing.T) {
	assert.Equal(t, "std::filesystem check", NewForbiddenAPI(config.Default().Forbidden).Name())
}

func TestForbiddenAPI_GitErrorIsFatal(t *testing.T) {
	fake := &testutil.FakeExecutor{Respond: func(execx.Command) (execx.Output, error) {
		return execx.Output{ExitCode: 128, Stderr: []byte("fatal: not a git repository")}, nil
	}}
	root := t.TempDir()
	t.Chdir(root)
	deps, out := newDeps(t, root, fake)

	check := NewForbiddenAPI(config.Default().Forbidden)
	summary, err := runner.New([]runner.Check{check, NewDoc(config.Default().Doc)}, deps).RunAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, runner.ErrFatal)

	var gitErr *git.Error
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, 128, gitErr.ExitCode)

	assert.Empty(t, summary.Failed, "a git error is not a lint finding")
	assert.Empty(t, out.String())
	require.Len(t, fake.Calls(), 1, "the run stops at the git error")
	assert.Equal(t, []string{"grep", "--no-color", "-e", "std::filesystem", "--", "./src/", ":(exclude)src/util/fs.h"}, fake.Calls()[0].Args)
}

func TestForbiddenAPI_SpawnFailureIsFatal(t *testing.T) {
	fake := &testutil.FakeExecutor{Respond: func(execx.Command) (execx.Output, error) {
		return execx.Output{}, execx.ErrSpawn
	}}
	deps, _ := newDeps(t, "/repo", fake)

	_, err := NewForbiddenAPI(config.Default().Forbidden).Run(context.Background(), deps)
	assert.True(t, errors.Is(err, execx.ErrSpawn))
}

func scriptsConfig() config.ScriptsConfig {
	cfg := config.Default().Scripts
	cfg.Interpreter = "sh"
	return cfg
}

func TestScripts_Discover(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFile(t, root, "test/lint/lint-foo.py")
	testutil.CreateFile(t, root, "test/lint/lint-bar.py")
	testutil.CreateFile(t, root, "test/lint/helper.py")
	testutil.CreateFile(t, root, "test/lint/lint-notes.txt")
	testutil.CreateFile(t, root, "test/lint/run-lint-baz.py")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "test/lint/lint-dir.py"), 0o755))

	got, err := NewScripts(scriptsConfig()).(*Scripts).Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "test/lint/lint-bar.py"),
		filepath.Join(root, "test/lint/lint-foo.py"),
	}, got)
}

func TestScripts_Run(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFile(t, root, "test/lint/lint-foo.py", "echo foo ran >> ran.log\n")
	testutil.CreateFile(t, root, "test/lint/lint-bad.py", "echo bad ran >> ran.log\necho 'trailing whitespace' >&2\nexit 1\n")
	testutil.CreateFile(t, root, "test/lint/helper.py", "echo helper ran >> ran.log\n")
	t.Chdir(root)

	deps, out := newDeps(t, root, execx.NewSystem(testutil.NewTestLogger(t)))
	res, err := NewScripts(scriptsConfig()).Run(context.Background(), deps)
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Empty(t, res.Message)
	assert.Equal(t, "trailing whitespace\n^---- failure generated from lint-bad.py\n", out.String())

	ran, err := os.ReadFile(filepath.Join(root, "ran.log"))
	require.NoError(t, err)
	assert.Equal(t, "bad ran\nfoo ran\n", string(ran), "helper.py is skipped")
}

func TestScripts_AllPass(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFile(t, root, "test/lint/lint-ok.py", "exit 0\n")

	fake := &testutil.FakeExecutor{}
	deps, out := newDeps(t, root, fake)
	res, err := NewScripts(config.Default().Scripts).Run(context.Background(), deps)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Empty(t, out.String())

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python3", calls[0].Name)
	assert.Equal(t, []string{filepath.Join(root, "test/lint/lint-ok.py")}, calls[0].Args)
}

func TestScripts_MissingDirIsFatal(t *testing.T) {
	deps, _ := newDeps(t, t.TempDir(), &testutil.FakeExecutor{})
	_, err := NewScripts(config.Default().Scripts).Run(context.Background(), deps)
	assert.Error(t, err)
}

func TestDefault_Order(t *testing.T) {
	var names, ids []string
	for _, c := range Default(config.Default()) {
		ids = append(ids, c.ID())
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"lint:subtree", "lint:forbidden-api", "lint:doc", "lint:scripts"}, ids)
	assert.Equal(t, []string{
		"subtree check",
		"std::filesystem check",
		"-help=1 documentation check",
		"lint-*.py scripts",
	}, names)
}
