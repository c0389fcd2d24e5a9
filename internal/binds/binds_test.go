package binds

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T) (*Writer, string, string) {
	t.Helper()

	dir := t.TempDir()
	confPath := filepath.Join(dir, "togglefloat.conf")
	bindsPath := filepath.Join(dir, "togglefloat-binds.conf")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewWriter(logger, confPath, bindsPath), confPath, bindsPath
}

func TestApplyDisableOverwritesFragment(t *testing.T) {
	writer, confPath, _ := newTestWriter(t)

	require.NoError(t, writer.Apply(3, true))

	content, err := os.ReadFile(confPath)
	require.NoError(t, err)
	assert.Equal(t, "# Togglefloating disabled on video workspace 3\n", string(content))
}

func TestApplyEnableRestoresCapturedBinds(t *testing.T) {
	writer, confPath, bindsPath := newTestWriter(t)

	captured := "bind = SUPER, V, togglefloating\nbind = SUPER SHIFT, V, pin\n"
	require.NoError(t, os.WriteFile(bindsPath, []byte(captured), 0o644))

	require.NoError(t, writer.Apply(5, false))

	content, err := os.ReadFile(confPath)
	require.NoError(t, err)
	assert.Equal(t,
		"# Togglefloating enabled on non-video workspace 5\n"+captured,
		string(content))
}

func TestApplyEnableWithoutCaptureWritesHeaderOnly(t *testing.T) {
	writer, confPath, _ := newTestWriter(t)

	require.NoError(t, writer.Apply(2, false))

	content, err := os.ReadFile(confPath)
	require.NoError(t, err)
	assert.Equal(t, "# Togglefloating enabled on non-video workspace 2\n", string(content))
}

func TestApplyAlternatingStatesNeverAppends(t *testing.T) {
	writer, confPath, bindsPath := newTestWriter(t)

	require.NoError(t, os.WriteFile(bindsPath, []byte("bind = SUPER, V, togglefloating\n"), 0o644))

	require.NoError(t, writer.Apply(1, false))
	require.NoError(t, writer.Apply(1, true))
	require.NoError(t, writer.Apply(1, true))

	content, err := os.ReadFile(confPath)
	require.NoError(t, err)
	assert.Equal(t, "# Togglefloating disabled on video workspace 1\n", string(content))

	require.NoError(t, writer.Apply(4, false))

	content, err = os.ReadFile(confPath)
	require.NoError(t, err)
	assert.Equal(t,
		"# Togglefloating enabled on non-video workspace 4\nbind = SUPER, V, togglefloating\n",
		string(content))
}
