package integration_tests

import (
	"testing"

	it "github.com/specialistvlad/algoharness/internal/integration_tests"
	"github.com/specialistvlad/algoharness/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dataset = map[string]string{
	"data/X.json":  `"X"`,
	"data/y.json":  `"y"`,
	"model/a.json": `{"value":"a"}`,
	"model/b.json": `{"value":"b"}`,
}

func withConfig(name, content string) map[string]string {
	files := map[string]string{name: content}
	for k, v := range dataset {
		files[k] = v
	}
	return files
}

// TestCLI_ConfigFormats validates that every supported configuration format
// selects the same compiled-in units and directories.
func TestCLI_ConfigFormats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "hcl",
			file: "harness.hcl",
			content: `
workspace {
  pred_dir = "out"
}
plugins {
  opener = "jsonopener"
  algo   = "concat"
}
`,
		},
		{
			name:    "yaml",
			file:    "harness.yml",
			content: "workspace:\n  pred_dir: out\nplugins:\n  opener: jsonopener\n  algo: concat\n",
		},
		{
			name:    "toml",
			file:    "harness.toml",
			content: "[workspace]\npred_dir = \"out\"\n\n[plugins]\nopener = \"jsonopener\"\nalgo = \"concat\"\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			layout := it.Workspace(t, withConfig(tc.file, tc.content))
			config := layout.Root + "/" + tc.file

			// --- Act ---
			train := it.Run(t, layout, nil, []string{"train", "a.json", "b.json", "--config", config})
			predict := it.Run(t, layout, nil, []string{"predict", "model", "--config", config})

			// --- Assert ---
			require.Equal(t, 0, train.Code, train.Stderr)
			require.Equal(t, 0, predict.Code, predict.Stderr)

			layout.PredDir = "out"
			assert.Equal(t, "Xyab", testutil.ReadJSON(t, layout.PredPath()))
			assert.Equal(t, map[string]any{"value": "ab"}, testutil.ReadJSON(t, layout.OutputModelPath()))
		})
	}
}

// TestCLI_FlagsOverrideConfig validates that command-line flags win over the
// default configuration file of the workspace.
func TestCLI_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	layout := it.Workspace(t, withConfig("algoharness.hcl", `
plugins {
  opener = "jsonopener"
  algo   = "concat"
}
log {
  level  = "error"
  format = "text"
}
`))

	// --- Act ---
	res := it.Run(t, layout, nil, []string{"train", "--log-level", "debug", "--log-format", "json"})

	// --- Assert ---
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stderr, `"msg":"Phase reached."`)
	assert.Contains(t, res.Stderr, `"phase":"persisted"`)
}

// TestCLI_DisplaysHelp validates the help text names both commands.
func TestCLI_DisplaysHelp(t *testing.T) {
	t.Parallel()

	res := it.Run(t, it.Workspace(t, nil), nil, []string{"--help"})

	require.Equal(t, 0, res.Code)
	assert.Contains(t, res.Stdout, "train")
	assert.Contains(t, res.Stdout, "predict")
	assert.Contains(t, res.Stdout, "--config")
}
