package service

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// ProcessRunner executes a built command-line product as a subprocess
type ProcessRunner interface {
	// Run executes the binary at path, forwarding args verbatim, inheriting
	// standard input/output/error, and blocking until it exits. A non-zero
	// exit status is returned as *ExitCodeError.
	Run(ctx context.Context, path string, args []string) error
}

// DefaultProcessRunner runs the product with inherited stdio
type DefaultProcessRunner struct{}

func (DefaultProcessRunner) Run(ctx context.Context, path string, args []string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitCodeError{Code: exitErr.ExitCode()}
	}
	return err
}

// Launcher starts an application bundle product. This is the extension point
// for simulator/device launching; no implementation exists in this snapshot.
type Launcher interface {
	Launch(ctx context.Context, bundlePath string, args []string) error
}

// UnsupportedLauncher is the default Launcher; it fails unconditionally
type UnsupportedLauncher struct{}

func (UnsupportedLauncher) Launch(ctx context.Context, bundlePath string, args []string) error {
	return &AppLaunchUnsupportedError{BundlePath: bundlePath}
}
