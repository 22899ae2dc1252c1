package simulator_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prerana17/Morpheus.AI/internal/simulator"
)

// fakeBin writes an executable shell script standing in for the simulator.
func fakeBin(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake simulator")
	}
	p := filepath.Join(t.TempDir(), "morpheus")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+script), 0o755))
	return p
}

func TestRunner_Success(t *testing.T) {
	bin := fakeBin(t, `echo "Time: 0"; echo "Time: 10"; touch "$4/plot_0001.png"; exit 0`)
	runDir := t.TempDir()

	r := &simulator.Runner{Bin: bin, Timeout: time.Minute, Log: zerolog.Nop()}
	res, err := r.Run(context.Background(), runDir)
	require.NoError(t, err)

	assert.True(t, res.Success())
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "Time: 10")

	// Captured streams are persisted next to the model.
	b, err := os.ReadFile(filepath.Join(runDir, "stdout.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Time: 0")
}

func TestRunner_NonZeroExit(t *testing.T) {
	bin := fakeBin(t, `echo "XML parse error" >&2; exit 3`)
	runDir := t.TempDir()

	r := &simulator.Runner{Bin: bin, Timeout: time.Minute, Log: zerolog.Nop()}
	res, err := r.Run(context.Background(), runDir)
	require.NoError(t, err)

	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "XML parse error")
}

func TestRunner_Timeout(t *testing.T) {
	bin := fakeBin(t, `sleep 5`)
	runDir := t.TempDir()

	r := &simulator.Runner{Bin: bin, Timeout: 100 * time.Millisecond, Log: zerolog.Nop()}
	res, err := r.Run(context.Background(), runDir)
	require.NoError(t, err)

	assert.True(t, res.TimedOut)
	assert.False(t, res.Success())
}

func TestRunner_MissingBinary(t *testing.T) {
	r := &simulator.Runner{Bin: filepath.Join(t.TempDir(), "absent"), Timeout: time.Second, Log: zerolog.Nop()}
	_, err := r.Run(context.Background(), t.TempDir())
	assert.Error(t, err)
}
