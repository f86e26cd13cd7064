package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_WritesRotatedFiles(t *testing.T) {
	t.Cleanup(func() { sugar = zap.NewNop().Sugar() })
	dir := t.TempDir()

	Init("info", "json", dir)
	Infow("turn answered", "intent", "voucher")
	Debugw("hidden below info")
	Error("delivery failed", errors.New("smtp down"))
	Sync()

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), `"intent":"voucher"`)
	assert.Contains(t, string(app), "delivery failed")
	assert.NotContains(t, string(app), "hidden below info")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "smtp down")
	assert.NotContains(t, string(errLog), "turn answered")
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { sugar = zap.NewNop().Sugar() })
	dir := t.TempDir()

	Init("loud", "console", dir)
	Info("visible")
	Sync()

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "visible")
}
