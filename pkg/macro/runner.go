package macro

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Runner is the command-execution capability consumed by $(shell,...),
// $(success,...), and the toolchain probe functions. Implementations block
// until the subprocess exits or the implementation's own timeout elapses.
type Runner interface {
	// Run executes argv directly, without shell interpretation. stdin is
	// fed to the process when non-empty. The exit status is returned; a
	// spawn failure or timeout is reported through err.
	Run(ctx context.Context, argv []string, stdin string) (int, error)

	// Shell runs a command line through the platform command interpreter
	// and captures its output streams.
	Shell(ctx context.Context, command string) (stdout, stderr string, exit int, err error)
}

// ExecRunner runs commands with os/exec. The zero value is usable and
// applies DefaultTimeout to every invocation.
type ExecRunner struct {
	// Timeout bounds each subprocess. Zero means DefaultTimeout.
	Timeout time.Duration

	// Dir is the working directory for spawned commands. Empty means the
	// current directory.
	Dir string

	// Env overrides the environment of spawned commands when non-nil.
	Env []string
}

// DefaultTimeout bounds subprocess execution when ExecRunner.Timeout is
// unset.
const DefaultTimeout = 30 * time.Second

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, argv []string, stdin string) (int, error) {
	if len(argv) == 0 {
		return -1, errEmptyCommand
	}
	runCtx, cancel := r.bound(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err := cmd.Run()
	return exitStatus(cmd, err)
}

// Shell implements Runner.
func (r *ExecRunner) Shell(ctx context.Context, command string) (string, string, int, error) {
	runCtx, cancel := r.bound(ctx)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(runCtx, "cmd", "/c", command)
	} else {
		cmd = exec.CommandContext(runCtx, "/bin/sh", "-c", command)
	}
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exit, err := exitStatus(cmd, err)
	return stdout.String(), stderr.String(), exit, err
}

func (r *ExecRunner) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// exitStatus maps a cmd.Run outcome to (exit status, error). A non-zero
// exit is not an error here; callers decide what a failing probe means.
func exitStatus(cmd *exec.Cmd, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return cmd.ProcessState.ExitCode(), nil
	}
	return -1, err
}

type commandError string

func (e commandError) Error() string { return string(e) }

const errEmptyCommand = commandError("empty command")
