// Package xcodebuild drives the external build toolchain and knows its
// on-disk conventions (workspace containers, product directories).
package xcodebuild

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/model"
)

// BuildRequest describes one scheme build handed to the toolchain
type BuildRequest struct {
	WorkspacePath string
	Scheme        string
	Clean         bool
	Arguments     model.BuildArguments
}

// Controller handles the execution of xcodebuild commands
type Controller interface {
	Build(ctx context.Context, req BuildRequest) (err error)
}

// DefaultController is the default implementation of Controller that runs
// the actual xcodebuild binary
type DefaultController struct{}

// NewController creates a new default build controller
func NewController() Controller {
	return &DefaultController{}
}

// tailLines is how many trailing output lines are attached to a failure
const tailLines = 20

// Build runs xcodebuild for the request, streaming its output through the
// logger, and blocks until the process finishes. The context cancels the
// subprocess.
func (c *DefaultController) Build(ctx context.Context, req BuildRequest) error {
	args := commandArgs(req)
	logging.Debug("invoking xcodebuild", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "xcodebuild", args...)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return fmt.Errorf("starting xcodebuild: %w", err)
	}

	tail := make([]string, 0, tailLines)
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			logging.Info(line)
			if len(tail) == tailLines {
				copy(tail, tail[1:])
				tail = tail[:tailLines-1]
			}
			tail = append(tail, line)
		}
	}()

	err := cmd.Wait()
	pw.Close()
	<-done

	if err != nil {
		return fmt.Errorf("xcodebuild failed for scheme %s: %w\n%s",
			req.Scheme, err, strings.Join(tail, "\n"))
	}
	return nil
}

// commandArgs assembles the xcodebuild argument list for a request
func commandArgs(req BuildRequest) []string {
	var args []string
	if req.Clean {
		args = append(args, "clean")
	}
	args = append(args, "build",
		"-workspace", req.WorkspacePath,
		"-scheme", req.Scheme,
	)
	args = append(args, req.Arguments.List()...)
	return args
}
