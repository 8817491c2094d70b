package app

import (
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/algoharness/internal/config"
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/specialistvlad/algoharness/internal/testutil"
	"github.com/stretchr/testify/require"
)

// SetupAppTest creates a new app instance rooted in a temporary workspace for
// system testing. Settings may adjust the defaults before the app is built.
func SetupAppTest(t *testing.T, adjust func(*config.Settings), modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	settings := config.Default()
	settings.Workspace.Root = t.TempDir()
	settings.Log.Level = "debug"
	if adjust != nil {
		adjust(settings)
	}

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := NewApp(context.Background(), logBuffer, settings, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		testApp.Close()
		if os.Getenv("ALGOHARNESS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
