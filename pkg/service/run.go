package service

import (
	"context"
	"path/filepath"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/graph"
	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/model"
	"github.com/xcgen/xcgen/pkg/xcodebuild"
)

// RunOptions configures one run invocation
type RunOptions struct {
	// Scheme is the scheme to run
	Scheme string
	// Generate forces workspace regeneration before building
	Generate bool
	// Clean performs a clean build first
	Clean bool
	// Path is the directory containing the project manifests
	Path string
	// Configuration is the explicit build configuration, may be empty
	Configuration string
	// Arguments are forwarded verbatim to the executed product
	Arguments []string
}

// RunService builds a scheme and executes its runnable product
type RunService struct {
	build    *BuildService
	runner   ProcessRunner
	launcher Launcher
	fs       *fsutil.FileSystem
}

// NewRunService creates a RunService composing the build service with the
// process runner and app launcher.
func NewRunService(build *BuildService, runner ProcessRunner, launcher Launcher, fs *fsutil.FileSystem) *RunService {
	return &RunService{
		build:    build,
		runner:   runner,
		launcher: launcher,
		fs:       fs,
	}
}

// Run executes the run pipeline: obtain the graph, resolve the runnable
// scheme and target, build it, locate the artifact, and execute or launch it.
func (s *RunService) Run(ctx context.Context, opts RunOptions) error {
	g, err := s.build.provider.Obtain(ctx, opts.Path, opts.Generate)
	if err != nil {
		return err
	}

	workspacePath, ok := graph.WorkspacePath(s.fs, opts.Path)
	if !ok {
		return &WorkspaceNotFoundError{Path: opts.Path}
	}

	// The available-names list is scoped to runnable schemes, not the wider
	// buildable set.
	runnable := graph.RunnableSchemes(g)
	scheme := graph.FindScheme(runnable, opts.Scheme)
	if scheme == nil {
		return &SchemeNotFoundError{
			Scheme:   opts.Scheme,
			Existing: graph.SchemeNames(runnable),
		}
	}

	project, target, ok := graph.RunnableTarget(g, scheme)
	if !ok {
		return &SchemeWithoutRunnableTargetError{Scheme: scheme.Name}
	}

	if err := s.build.buildScheme(ctx, scheme, g, workspacePath, opts.Clean, opts.Configuration, ""); err != nil {
		return err
	}

	effective := ResolveConfiguration(opts.Configuration, project)
	artifactDir := xcodebuild.BuildDirectory(target.Platform, workspacePath, effective)
	artifact := filepath.Join(artifactDir, target.ProductNameWithExtension())
	if !s.fs.Exists(artifact) {
		return &RunnableNotFoundError{Path: artifact}
	}

	switch target.Product {
	case model.ProductCommandLineTool:
		logging.Info("running", "artifact", artifact, "arguments", len(opts.Arguments))
		return s.runner.Run(ctx, artifact, opts.Arguments)
	case model.ProductApp:
		return s.launcher.Launch(ctx, artifact, opts.Arguments)
	default:
		return &SchemeWithoutRunnableTargetError{Scheme: scheme.Name}
	}
}
