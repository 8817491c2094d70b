package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/specialistvlad/algoharness/internal/testutil"
	"github.com/specialistvlad/algoharness/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, a contract.Algo, args []string, modules ...registry.Module) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), a, args, &stdout, &stderr, modules...)
	if code != ExitOK {
		t.Logf("stderr:\n%s", stderr.String())
	}
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestExecute_Train(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		args      []string
		models    []string
		wantPred  string
		wantModel string
	}{
		{name: "no models", args: []string{"train"}, wantPred: "Xy", wantModel: ""},
		{name: "ordered models", args: []string{"train", "a.json", "b.json"}, models: []string{"a", "b"}, wantPred: "Xy", wantModel: "ab"},
		{name: "order preserved", args: []string{"train", "c.json", "a.json", "b.json"}, models: []string{"a", "b", "c"}, wantPred: "Xy", wantModel: "cab"},
		{name: "dry run", args: []string{"train", "--dry-run"}, wantPred: "Xfakeyfake", wantModel: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			layout := testutil.NewWorkspace(t)
			testutil.CreateModels(t, layout, tc.models...)

			args := append(tc.args, "--workdir", layout.Root)
			res := execute(t, &testutil.DummyAlgo{}, args, testutil.OpenerModule())
			require.Equal(t, ExitOK, res.code)

			assert.Equal(t, tc.wantPred, testutil.ReadJSON(t, layout.PredPath()))
			assert.Equal(t, map[string]any{"value": tc.wantModel}, testutil.ReadJSON(t, layout.OutputModelPath()))
			assert.Contains(t, res.stdout, "train finished")
		})
	}
}

func TestExecute_TrainThenPredict(t *testing.T) {
	t.Parallel()
	layout := testutil.NewWorkspace(t)
	testutil.CreateModels(t, layout, "a", "b")
	algo := &testutil.DummyAlgo{}

	res := execute(t, algo, []string{"train", "a.json", "b.json", "--workdir", layout.Root, "--rank", "3"}, testutil.OpenerModule())
	require.Equal(t, ExitOK, res.code)
	assert.Equal(t, []int{3}, algo.Ranks)

	res = execute(t, algo, []string{"predict", workspace.OutputModelName, "--workdir", layout.Root}, testutil.OpenerModule())
	require.Equal(t, ExitOK, res.code)
	assert.Equal(t, "Xyab", testutil.ReadJSON(t, layout.PredPath()))
	assert.Contains(t, res.stdout, "predict finished")
}

func TestExecute_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "predict without model", args: []string{"predict"}, wantErr: "accepts 1 arg(s)"},
		{name: "predict with two models", args: []string{"predict", "a", "b"}, wantErr: "accepts 1 arg(s)"},
		{name: "unknown command", args: []string{"evaluate"}, wantErr: `unknown command "evaluate"`},
		{name: "unknown flag", args: []string{"train", "--fast"}, wantErr: "unknown flag: --fast"},
		{name: "bad rank", args: []string{"train", "--rank", "first"}, wantErr: "invalid argument"},
		{name: "bad log level", args: []string{"train", "--log-level", "verbose"}, wantErr: "invalid log level 'verbose'"},
		{name: "unsupported config", args: []string{"train", "--config", "harness.json"}, wantErr: "unsupported configuration format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			layout := testutil.NewWorkspace(t)

			args := append(tc.args, "--workdir", layout.Root)
			res := execute(t, &testutil.DummyAlgo{}, args, testutil.OpenerModule())
			assert.Equal(t, ExitUsage, res.code)
			assert.Contains(t, res.stderr, tc.wantErr)
			assert.Contains(t, res.stderr, "--help")
		})
	}
}

func TestExecute_Failures(t *testing.T) {
	t.Parallel()

	t.Run("missing model file", func(t *testing.T) {
		t.Parallel()
		layout := testutil.NewWorkspace(t)
		res := execute(t, &testutil.DummyAlgo{}, []string{"predict", "missing.json", "--workdir", layout.Root}, testutil.OpenerModule())
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "missing.json")
	})

	t.Run("no opener", func(t *testing.T) {
		t.Parallel()
		layout := testutil.NewWorkspace(t)
		res := execute(t, &testutil.DummyAlgo{}, []string{"train", "--workdir", layout.Root}, &testutil.SimpleModule{})
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "opener module not found")
	})

	t.Run("algo failure propagates", func(t *testing.T) {
		t.Parallel()
		layout := testutil.NewWorkspace(t)
		algo := &testutil.FailingAlgo{Err: errors.New("diverged")}
		res := execute(t, algo, []string{"train", "--workdir", layout.Root}, testutil.OpenerModule())
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "diverged")
	})

	t.Run("history without ledger", func(t *testing.T) {
		t.Parallel()
		layout := testutil.NewWorkspace(t)
		res := execute(t, nil, []string{"history", "--workdir", layout.Root}, testutil.OpenerModule())
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "run ledger is disabled")
	})
}

func TestExecute_Help(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, []string{"--help"})
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "train")
	assert.Contains(t, res.stdout, "predict")

	res = execute(t, nil, nil)
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "Usage:")
}

func TestExecute_ConfigAndHistory(t *testing.T) {
	t.Parallel()
	layout := testutil.NewWorkspace(t)
	testutil.WriteFiles(t, layout.Root, map[string]string{
		"algoharness.hcl": `
plugins {
  opener = "jsonopener"
  algo   = "concat"
}

ledger {
  path = "runs.db"
}
`,
		"data/X.json": `"X"`,
		"data/y.json": `"y"`,
	})
	testutil.CreateModels(t, layout, "a")

	res := execute(t, nil, []string{"train", "a.json", "--workdir", layout.Root})
	require.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "rank:  0")
	assert.Equal(t, map[string]any{"value": "a"}, testutil.ReadJSON(t, layout.OutputModelPath()))

	res = execute(t, nil, []string{"train", "--workdir", layout.Root})
	require.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "rank:  1")

	res = execute(t, nil, []string{"predict", "a.json", "--workdir", layout.Root})
	require.Equal(t, ExitOK, res.code)
	assert.Equal(t, "Xya", testutil.ReadJSON(t, layout.PredPath()))

	res = execute(t, nil, []string{"history", "--limit", "2", "--workdir", layout.Root})
	require.Equal(t, ExitOK, res.code)
	lines := bytes.Count([]byte(res.stdout), []byte("\n"))
	assert.Equal(t, 3, lines, "header plus two runs")
	assert.Contains(t, res.stdout, "STATUS")
	assert.Contains(t, res.stdout, "predict")
	assert.Contains(t, res.stdout, "succeeded")
}

func TestExecute_LogFileRelativeToWorkdir(t *testing.T) {
	t.Parallel()
	layout := testutil.NewWorkspace(t)
	testutil.WriteFiles(t, layout.Root, map[string]string{
		"algoharness.hcl": `
log {
  level = "debug"
  file  = "logs/workdir-harness.log"
}
`,
	})

	res := execute(t, &testutil.DummyAlgo{}, []string{"train", "--workdir", layout.Root}, testutil.OpenerModule())
	require.Equal(t, ExitOK, res.code)

	data, err := os.ReadFile(filepath.Join(layout.Root, "logs", "workdir-harness.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Phase reached.")
	assert.NoFileExists(t, filepath.Join("logs", "workdir-harness.log"))
}
