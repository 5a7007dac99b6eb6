// Package service contains the build and run orchestrators: the pipeline
// that turns a scheme name into a generated workspace, a toolchain
// invocation, and a located (or executed) artifact.
package service

import (
	"context"
	"path/filepath"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/graph"
	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/model"
	"github.com/xcgen/xcgen/pkg/output"
	"github.com/xcgen/xcgen/pkg/xcodebuild"
)

// BuildOptions configures one build invocation
type BuildOptions struct {
	// Scheme is the scheme to build. Empty builds all entry schemes.
	Scheme string
	// Generate forces workspace regeneration before building
	Generate bool
	// Clean performs a clean build (first scheme only in a batch)
	Clean bool
	// Configuration is the explicit build configuration, may be empty
	Configuration string
	// Output, when set, is the directory build products are copied to
	Output string
	// Path is the directory containing the project manifests
	Path string
}

// BuildService orchestrates building schemes of a workspace
type BuildService struct {
	provider   *graph.Provider
	controller xcodebuild.Controller
	fs         *fsutil.FileSystem
}

// NewBuildService creates a BuildService with the given collaborators
func NewBuildService(provider *graph.Provider, controller xcodebuild.Controller, fs *fsutil.FileSystem) *BuildService {
	return &BuildService{
		provider:   provider,
		controller: controller,
		fs:         fs,
	}
}

// Run executes the build pipeline: obtain the graph, resolve the schemes to
// build, and build them in order. The batch aborts on the first failure.
func (s *BuildService) Run(ctx context.Context, opts BuildOptions) error {
	g, err := s.provider.Obtain(ctx, opts.Path, opts.Generate)
	if err != nil {
		return err
	}

	workspacePath, ok := graph.WorkspacePath(s.fs, opts.Path)
	if !ok {
		return &WorkspaceNotFoundError{Path: opts.Path}
	}

	buildable := graph.BuildableSchemes(g)

	if opts.Scheme != "" {
		scheme := graph.FindScheme(buildable, opts.Scheme)
		if scheme == nil {
			return &SchemeNotFoundError{
				Scheme:   opts.Scheme,
				Existing: graph.SchemeNames(buildable),
			}
		}
		if err := s.buildScheme(ctx, scheme, g, workspacePath, opts.Clean, opts.Configuration, opts.Output); err != nil {
			return err
		}
	} else {
		// Clean applies only to the first scheme of the batch; cleaning
		// repeatedly would undo the builds that came before.
		clean := opts.Clean
		for _, scheme := range graph.BuildableEntrySchemes(g) {
			if err := s.buildScheme(ctx, scheme, g, workspacePath, clean, opts.Configuration, opts.Output); err != nil {
				return err
			}
			clean = false
		}
	}

	output.Success("The project built successfully")
	return nil
}

// buildScheme builds one scheme: resolve its buildable target, invoke the
// toolchain synchronously, and optionally copy the products to the output
// directory.
func (s *BuildService) buildScheme(ctx context.Context, scheme *model.Scheme, g *model.Graph, workspacePath string, clean bool, configuration, outputPath string) error {
	logging.Info("building scheme", "scheme", scheme.Name, "clean", clean)

	project, target, ok := graph.BuildableTarget(g, scheme)
	if !ok {
		return &SchemeWithoutBuildableTargetsError{Scheme: scheme.Name}
	}

	args := graph.BuildArguments(project, target, configuration, false)
	if err := s.controller.Build(ctx, xcodebuild.BuildRequest{
		WorkspacePath: workspacePath,
		Scheme:        scheme.Name,
		Clean:         clean,
		Arguments:     args,
	}); err != nil {
		return err
	}

	if outputPath == "" {
		return nil
	}
	return s.copyProducts(target, workspacePath, configuration, project, outputPath)
}

// copyProducts copies every entry of the toolchain's products directory to
// the output directory. Each top-level entry replaces any pre-existing entry
// of the same name wholesale; the copy is sequential and not transactional.
func (s *BuildService) copyProducts(target *model.Target, workspacePath, configuration string, project *model.Project, outputPath string) error {
	effective := ResolveConfiguration(configuration, project)
	source := xcodebuild.BuildDirectory(target.Platform, workspacePath, effective)
	if !s.fs.Exists(source) {
		return &BuildProductsNotFoundError{Path: source}
	}

	if err := s.fs.MkdirAll(outputPath); err != nil {
		return err
	}

	entries, err := s.fs.List(source)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		dst := filepath.Join(outputPath, filepath.Base(entry))
		if s.fs.Exists(dst) {
			if err := s.fs.Delete(dst); err != nil {
				return err
			}
		}
		if err := s.fs.Copy(entry, dst); err != nil {
			return err
		}
	}

	logging.Info("copied build products", "from", source, "to", outputPath, "entries", len(entries))
	return nil
}
