// Package graph provides access to the workspace dependency graph: obtaining
// it (generate or load) and pure inspection of schemes and targets.
package graph

import (
	"context"
	"fmt"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/model"
	"github.com/xcgen/xcgen/pkg/xcodebuild"
)

// Generator abstracts workspace generation and loading so orchestrators can
// be exercised with fakes.
type Generator interface {
	// Generate produces the graph from manifests and persists the workspace
	Generate(ctx context.Context, dir string) (*model.Graph, error)
	// Load reads the graph from a previously generated workspace
	Load(ctx context.Context, dir string) (*model.Graph, error)
}

// Provider decides whether a graph must be regenerated or can be loaded from
// the workspace cache.
type Provider struct {
	generator Generator
	fs        *fsutil.FileSystem
}

// NewProvider creates a Provider using the given generator and filesystem
func NewProvider(generator Generator, fs *fsutil.FileSystem) *Provider {
	return &Provider{generator: generator, fs: fs}
}

// Obtain returns the graph for dir. Generation runs when forceGenerate is
// set or when no workspace exists at dir yet; otherwise the cached graph is
// loaded. Generation and load failures propagate opaquely.
func (p *Provider) Obtain(ctx context.Context, dir string, forceGenerate bool) (*model.Graph, error) {
	_, exists := xcodebuild.FindWorkspace(p.fs, dir)
	if forceGenerate || !exists {
		logging.Debug("generating workspace", "path", dir, "forced", forceGenerate)
		graph, err := p.generator.Generate(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("generating workspace: %w", err)
		}
		return graph, nil
	}

	graph, err := p.generator.Load(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	return graph, nil
}
