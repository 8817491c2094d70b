package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/algoharness/internal/workspace"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewWorkspace returns the default layout rooted in a fresh temporary directory.
func NewWorkspace(t *testing.T) workspace.Layout {
	t.Helper()
	return workspace.New(t.TempDir())
}

// WriteFiles writes files (relative path -> content) below root, creating
// intermediate directories.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// CreateModels saves one {"value": v} model per value as "<v>.json" in the
// workspace model directory and returns the filenames in order.
func CreateModels(t *testing.T, l workspace.Layout, values ...string) []string {
	t.Helper()
	require.NoError(t, os.MkdirAll(l.Models(), 0o755))

	names := make([]string, 0, len(values))
	for _, v := range values {
		name := v + ".json"
		data, err := json.Marshal(map[string]string{"value": v})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(l.ModelPath(name), data, 0o644))
		names = append(names, name)
	}
	return names
}

// ReadJSON decodes the JSON file at path.
func ReadJSON(t *testing.T, path string) any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}
