package graph

import (
	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/model"
	"github.com/xcgen/xcgen/pkg/xcodebuild"
)

// BuildableSchemes returns the schemes with at least one directly buildable
// target, in listing order.
func BuildableSchemes(g *model.Graph) []*model.Scheme {
	var schemes []*model.Scheme
	for _, scheme := range g.Schemes() {
		if _, _, ok := BuildableTarget(g, scheme); ok {
			schemes = append(schemes, scheme)
		}
	}
	return schemes
}

// BuildableEntrySchemes returns the buildable schemes that are primary entry
// points of the workspace. A bare build with no scheme name builds these.
func BuildableEntrySchemes(g *model.Graph) []*model.Scheme {
	var schemes []*model.Scheme
	for _, scheme := range BuildableSchemes(g) {
		if !scheme.Internal {
			schemes = append(schemes, scheme)
		}
	}
	return schemes
}

// BuildableTarget resolves the single buildable target of a scheme: the first
// build-action target that can be built directly.
func BuildableTarget(g *model.Graph, scheme *model.Scheme) (*model.Project, *model.Target, bool) {
	for _, ref := range scheme.BuildTargets {
		project, target := g.ResolveTarget(ref)
		if target != nil && target.Buildable() {
			return project, target, true
		}
	}
	return nil, nil, false
}

// RunnableSchemes returns the schemes containing at least one target whose
// product is directly executable, in listing order.
func RunnableSchemes(g *model.Graph) []*model.Scheme {
	var schemes []*model.Scheme
	for _, scheme := range g.Schemes() {
		if _, _, ok := RunnableTarget(g, scheme); ok {
			schemes = append(schemes, scheme)
		}
	}
	return schemes
}

// RunnableTarget resolves the runnable target of a scheme: the run-action
// target when it is runnable, otherwise the first runnable build-action
// target.
func RunnableTarget(g *model.Graph, scheme *model.Scheme) (*model.Project, *model.Target, bool) {
	if scheme.RunTarget != nil {
		project, target := g.ResolveTarget(*scheme.RunTarget)
		if target != nil && target.Runnable() {
			return project, target, true
		}
	}
	for _, ref := range scheme.BuildTargets {
		project, target := g.ResolveTarget(ref)
		if target != nil && target.Runnable() {
			return project, target, true
		}
	}
	return nil, nil, false
}

// BuildArguments derives the toolchain arguments for building a target. Pure
// computation, no side effects.
func BuildArguments(project *model.Project, target *model.Target, configuration string, skipSigning bool) model.BuildArguments {
	return model.BuildArguments{
		ProjectPath:   project.Path,
		Configuration: configuration,
		Platform:      target.Platform,
		SkipSigning:   skipSigning,
	}
}

// WorkspacePath locates the generated workspace container under dir
func WorkspacePath(fs *fsutil.FileSystem, dir string) (string, bool) {
	return xcodebuild.FindWorkspace(fs, dir)
}

// SchemeNames projects a scheme list to its names, order preserved
func SchemeNames(schemes []*model.Scheme) []string {
	names := make([]string, 0, len(schemes))
	for _, s := range schemes {
		names = append(names, s.Name)
	}
	return names
}

// FindScheme returns the first scheme with the given name, or nil
func FindScheme(schemes []*model.Scheme, name string) *model.Scheme {
	for _, s := range schemes {
		if s.Name == name {
			return s
		}
	}
	return nil
}
