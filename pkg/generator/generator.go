// Package generator turns declarative manifests into a dependency graph and
// materializes the on-disk workspace container the build toolchain consumes.
package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/manifest"
	"github.com/xcgen/xcgen/pkg/model"
	"github.com/xcgen/xcgen/pkg/xcodebuild"
)

// ErrDependencyCycle indicates that a project's targets form a dependency cycle
var ErrDependencyCycle = errors.New("target dependency cycle")

// ErrNoWorkspace indicates that Load found no generated workspace to read
var ErrNoWorkspace = errors.New("no generated workspace")

// Generator produces and loads workspaces for a project directory
type Generator struct {
	fs *fsutil.FileSystem
}

// New creates a Generator operating on the given filesystem
func New(fs *fsutil.FileSystem) *Generator {
	return &Generator{fs: fs}
}

// Generate reads the manifests under dir, builds the graph and writes the
// workspace container (including the cached graph snapshot) under dir.
func (g *Generator) Generate(ctx context.Context, dir string) (*model.Graph, error) {
	ws, projects, err := manifest.Load(g.fs, dir)
	if err != nil {
		return nil, err
	}

	graph := &model.Graph{
		Name:     ws.Name,
		Path:     dir,
		Projects: projects,
	}

	for _, project := range projects {
		order, err := buildOrder(project)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", project.Name, err)
		}
		project.BuildOrder = order

		if len(project.Schemes) == 0 {
			project.Schemes = defaultSchemes(project)
		}
		normalizeSchemes(project)
	}
	warnDuplicateSchemes(graph)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workspacePath := filepath.Join(dir, ws.Name+xcodebuild.WorkspaceExtension)
	if err := g.writeWorkspace(workspacePath, graph); err != nil {
		return nil, fmt.Errorf("writing workspace: %w", err)
	}

	logging.Info("generated workspace",
		"path", workspacePath,
		"projects", len(graph.Projects),
		"schemes", len(graph.Schemes()),
	)
	return graph, nil
}

// Load reads the graph snapshot cached inside a previously generated
// workspace under dir.
func (g *Generator) Load(ctx context.Context, dir string) (*model.Graph, error) {
	workspacePath, ok := xcodebuild.FindWorkspace(g.fs, dir)
	if !ok {
		return nil, fmt.Errorf("%w at %s", ErrNoWorkspace, dir)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graph, err := g.readSnapshot(workspacePath)
	if err != nil {
		return nil, err
	}
	graph.Path = dir

	logging.Debug("loaded workspace graph", "path", workspacePath)
	return graph, nil
}

// writeWorkspace materializes the workspace container: the workspace contents
// file referencing each project, and the graph snapshot cache.
func (g *Generator) writeWorkspace(workspacePath string, graph *model.Graph) error {
	if err := g.fs.MkdirAll(workspacePath); err != nil {
		return err
	}

	contents := workspaceContents(graph)
	contentsPath := filepath.Join(workspacePath, "contents.xcworkspacedata")
	if err := g.fs.WriteFile(contentsPath, []byte(contents)); err != nil {
		return err
	}

	return g.writeSnapshot(workspacePath, graph)
}

// workspaceContents renders the workspace contents XML referencing projects
func workspaceContents(graph *model.Graph) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<Workspace version=\"1.0\">\n")
	for _, project := range graph.Projects {
		fmt.Fprintf(&b, "   <FileRef location=\"group:%s\"></FileRef>\n", project.Name)
	}
	b.WriteString("</Workspace>\n")
	return b.String()
}

// warnDuplicateSchemes flags scheme names appearing more than once across the
// graph. Lookup is first-match; duplicates are surfaced but not fatal.
func warnDuplicateSchemes(graph *model.Graph) {
	seen := make(map[string]bool)
	for _, s := range graph.Schemes() {
		if seen[s.Name] {
			logging.Warn("duplicate scheme name, first match wins", "scheme", s.Name)
		}
		seen[s.Name] = true
	}
}

// defaultSchemes synthesizes one scheme per buildable target for projects
// that declare none. Runnable targets get a run action.
func defaultSchemes(project *model.Project) []*model.Scheme {
	var schemes []*model.Scheme
	for _, target := range project.Targets {
		if !target.Buildable() {
			continue
		}
		scheme := &model.Scheme{
			Name: target.Name,
			BuildTargets: []model.TargetRef{
				{ProjectName: project.Name, TargetName: target.Name},
			},
		}
		if target.Runnable() {
			scheme.RunTarget = &model.TargetRef{
				ProjectName: project.Name,
				TargetName:  target.Name,
			}
		}
		schemes = append(schemes, scheme)
	}
	return schemes
}

// normalizeSchemes fills in the owning project on same-project target refs so
// graph-level resolution never needs manifest context.
func normalizeSchemes(project *model.Project) {
	for _, scheme := range project.Schemes {
		for i := range scheme.BuildTargets {
			if scheme.BuildTargets[i].ProjectName == "" {
				scheme.BuildTargets[i].ProjectName = project.Name
			}
		}
		if scheme.RunTarget != nil && scheme.RunTarget.ProjectName == "" {
			scheme.RunTarget.ProjectName = project.Name
		}
	}
}

// runID tags each generation so stale snapshots are distinguishable in logs
func runID() string {
	return uuid.New().String()
}

// generatedAt is split out for test stubbing
var generatedAt = func() time.Time { return time.Now().UTC() }
