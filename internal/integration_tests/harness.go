// Package integration_tests runs whole commands through the CLI dispatcher
// against temporary workspaces.
package integration_tests

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/cli"
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/specialistvlad/algoharness/internal/testutil"
	"github.com/specialistvlad/algoharness/internal/workspace"
)

// Result holds the outcome of one command.
type Result struct {
	Code   int
	Stdout string
	Stderr string
	Layout workspace.Layout
}

// Workspace creates a temporary workspace populated with files.
func Workspace(t *testing.T, files map[string]string) workspace.Layout {
	t.Helper()
	layout := testutil.NewWorkspace(t)
	testutil.WriteFiles(t, layout.Root, files)
	return layout
}

// Run executes args in layout's workspace. --workdir is appended.
func Run(t *testing.T, layout workspace.Layout, a contract.Algo, args []string, modules ...registry.Module) Result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	full := append(append([]string{}, args...), "--workdir", layout.Root)
	code := cli.Execute(context.Background(), a, full, &stdout, &stderr, modules...)

	if os.Getenv("ALGOHARNESS_TEST_LOGS") == "true" {
		t.Logf("--- Output of %v (exit %d) ---\n%s%s", args, code, stdout.String(), stderr.String())
	}
	return Result{Code: code, Stdout: stdout.String(), Stderr: stderr.String(), Layout: layout}
}
