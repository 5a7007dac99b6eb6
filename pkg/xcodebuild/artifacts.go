package xcodebuild

import (
	"path/filepath"
	"strings"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/model"
)

// WorkspaceExtension is the extension of generated workspace containers
const WorkspaceExtension = ".xcworkspace"

// productsDir is the toolchain output root inside a generated workspace
var productsDir = filepath.Join("xcgen", "Build", "Products")

// BuildDirectory returns the directory where the toolchain deposits built
// products for a platform/configuration pair under a workspace. This is a
// pure path computation; callers verify existence.
func BuildDirectory(platform model.Platform, workspacePath, configuration string) string {
	dir := configuration
	if sdk := platform.SDKDirectory(); sdk != "" {
		dir = configuration + "-" + sdk
	}
	return filepath.Join(workspacePath, productsDir, dir)
}

// FindWorkspace locates the generated workspace container directly under
// dir. Returns false when none has been generated yet.
func FindWorkspace(fs *fsutil.FileSystem, dir string) (string, bool) {
	entries, err := fs.List(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry, WorkspaceExtension) && fs.IsDir(entry) {
			return entry, true
		}
	}
	return "", false
}
