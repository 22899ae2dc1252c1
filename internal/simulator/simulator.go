// Package simulator invokes the Morpheus binary as a subprocess and captures
// its execution artifacts.
package simulator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Output clamps keep tool results small enough to feed back to the model.
const (
	MaxStdoutChars = 20000
	MaxStderrChars = 20000
)

// Result captures one simulator invocation.
type Result struct {
	ExitCode   int
	TimedOut   bool
	Stdout     string
	Stderr     string
	StdoutPath string
	StderrPath string
	Duration   time.Duration
}

// Success reports whether the run finished cleanly within its deadline.
func (r Result) Success() bool { return r.ExitCode == 0 && !r.TimedOut }

// Runner executes the simulator with a bounded wait.
type Runner struct {
	Bin     string
	Timeout time.Duration
	Log     zerolog.Logger
}

// Run executes `morpheus --file model.xml --outdir <runDir> --model-graph dot`
// inside runDir, waits up to the configured timeout, and writes captured
// stdout/stderr into stdout.log and stderr.log alongside the model. A
// non-zero exit or timeout is reported in the Result, not as an error; an
// error return means the process could not be launched or its logs could not
// be written.
func (r *Runner) Run(ctx context.Context, runDir string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Bin,
		"--file", "model.xml",
		"--outdir", runDir,
		"--model-graph", "dot",
	)
	cmd.Dir = runDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Log.Debug().Str("bin", r.Bin).Str("dir", runDir).Msg("launching simulator")
	start := time.Now()
	runErr := cmd.Run()
	res := Result{
		Stdout:   clamp(stdout.String(), MaxStdoutChars),
		Stderr:   clamp(stderr.String(), MaxStderrChars),
		Duration: time.Since(start),
	}

	switch {
	case runErr == nil:
		res.ExitCode = 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// Launch failure (binary missing, not executable).
			return res, runErr
		}
	}

	res.StdoutPath = filepath.Join(runDir, "stdout.log")
	res.StderrPath = filepath.Join(runDir, "stderr.log")
	if err := os.WriteFile(res.StdoutPath, stdout.Bytes(), 0o644); err != nil {
		return res, err
	}
	if err := os.WriteFile(res.StderrPath, stderr.Bytes(), 0o644); err != nil {
		return res, err
	}

	r.Log.Debug().
		Int("exit_code", res.ExitCode).
		Bool("timed_out", res.TimedOut).
		Dur("duration", res.Duration).
		Msg("simulator finished")
	return res, nil
}

func clamp(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
