// Package manifest loads the declarative YAML files that describe a
// workspace and its projects. A directory contains either a Workspace.yaml
// referencing project directories, or a single standalone Project.yaml.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/model"
)

const (
	// WorkspaceFileName is the manifest describing a multi-project workspace
	WorkspaceFileName = "Workspace.yaml"
	// ProjectFileName is the manifest describing a single project
	ProjectFileName = "Project.yaml"
)

// ErrInvalidManifest indicates a manifest that parsed but failed validation
var ErrInvalidManifest = errors.New("invalid manifest")

// ErrManifestNotFound indicates that a directory holds no manifest at all
var ErrManifestNotFound = errors.New("no manifest found")

// Workspace is the parsed form of Workspace.yaml
type Workspace struct {
	Name     string   `yaml:"name"`
	Projects []string `yaml:"projects"`
}

// Load reads the manifests under dir and returns the workspace description
// together with its fully parsed, validated projects. When dir holds only a
// Project.yaml, a synthetic single-project workspace named after the project
// is returned.
func Load(fs *fsutil.FileSystem, dir string) (*Workspace, []*model.Project, error) {
	workspaceFile := filepath.Join(dir, WorkspaceFileName)
	if fs.Exists(workspaceFile) {
		return loadWorkspace(fs, dir, workspaceFile)
	}

	projectFile := filepath.Join(dir, ProjectFileName)
	if fs.Exists(projectFile) {
		project, err := loadProject(fs, projectFile)
		if err != nil {
			return nil, nil, err
		}
		ws := &Workspace{Name: project.Name, Projects: []string{"."}}
		return ws, []*model.Project{project}, nil
	}

	return nil, nil, fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
}

func loadWorkspace(fs *fsutil.FileSystem, dir, path string) (*Workspace, []*model.Project, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if ws.Name == "" {
		return nil, nil, fmt.Errorf("%w: %s: workspace name is required", ErrInvalidManifest, path)
	}
	if len(ws.Projects) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: workspace lists no projects", ErrInvalidManifest, path)
	}

	projects := make([]*model.Project, 0, len(ws.Projects))
	for _, rel := range ws.Projects {
		projectFile := filepath.Join(dir, rel, ProjectFileName)
		project, err := loadProject(fs, projectFile)
		if err != nil {
			return nil, nil, err
		}
		projects = append(projects, project)
	}
	return &ws, projects, nil
}

func loadProject(fs *fsutil.FileSystem, path string) (*model.Project, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var project model.Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	project.Path = filepath.Dir(path)

	if err := validateProject(&project); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, path, err)
	}
	return &project, nil
}

// validateProject checks the structural rules a project manifest must obey:
// a name, at least one target, unique target names, resolvable dependencies
// and scheme references, and known platform/product values.
func validateProject(p *model.Project) error {
	if p.Name == "" {
		return errors.New("project name is required")
	}
	if len(p.Targets) == 0 {
		return errors.New("project defines no targets")
	}

	seen := make(map[string]bool, len(p.Targets))
	for _, t := range p.Targets {
		if t.Name == "" {
			return errors.New("target name is required")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target %q", t.Name)
		}
		seen[t.Name] = true

		if !t.Platform.Valid() {
			return fmt.Errorf("target %q: unknown platform %q", t.Name, t.Platform)
		}
		if !t.Product.Valid() {
			return fmt.Errorf("target %q: unknown product %q", t.Name, t.Product)
		}
	}

	for _, t := range p.Targets {
		for _, dep := range t.Dependencies {
			if !seen[dep] {
				return fmt.Errorf("target %q depends on unknown target %q", t.Name, dep)
			}
		}
	}

	for _, s := range p.Schemes {
		if s.Name == "" {
			return errors.New("scheme name is required")
		}
		for _, ref := range s.BuildTargets {
			if err := validateRef(p, seen, ref); err != nil {
				return fmt.Errorf("scheme %q: %v", s.Name, err)
			}
		}
		if s.RunTarget != nil {
			if err := validateRef(p, seen, *s.RunTarget); err != nil {
				return fmt.Errorf("scheme %q: %v", s.Name, err)
			}
		}
	}

	return nil
}

func validateRef(p *model.Project, targets map[string]bool, ref model.TargetRef) error {
	if ref.ProjectName != "" && ref.ProjectName != p.Name {
		// Cross-project references are resolved against the graph later;
		// only same-project references can be checked here.
		return nil
	}
	if !targets[ref.TargetName] {
		return fmt.Errorf("references unknown target %q", ref.TargetName)
	}
	return nil
}
