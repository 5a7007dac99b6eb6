package service

import "github.com/xcgen/xcgen/pkg/model"

// ResolveConfiguration picks the effective build configuration: an explicit
// choice wins, then the project's default debug configuration, then the
// hardcoded fallback. Total and deterministic, never empty.
func ResolveConfiguration(explicit string, project *model.Project) string {
	if explicit != "" {
		return explicit
	}
	if def := project.Settings.DefaultDebugConfiguration(); def != nil && def.Name != "" {
		return def.Name
	}
	return model.DefaultConfigurationName
}
