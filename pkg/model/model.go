package model

import "fmt"

// Platform represents a native platform a target is built for
type Platform string

const (
	PlatformIOS      Platform = "iOS"
	PlatformMacOS    Platform = "macOS"
	PlatformTVOS     Platform = "tvOS"
	PlatformWatchOS  Platform = "watchOS"
	PlatformVisionOS Platform = "visionOS"
)

// Platforms lists all supported platforms
var Platforms = []Platform{
	PlatformIOS,
	PlatformMacOS,
	PlatformTVOS,
	PlatformWatchOS,
	PlatformVisionOS,
}

// Valid reports whether p is one of the supported platforms
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// SDKDirectory returns the SDK directory component the toolchain uses when
// naming the per-configuration products directory (e.g. "Debug-iphoneos").
// macOS products are placed directly under the configuration directory.
func (p Platform) SDKDirectory() string {
	switch p {
	case PlatformIOS:
		return "iphoneos"
	case PlatformTVOS:
		return "appletvos"
	case PlatformWatchOS:
		return "watchos"
	case PlatformVisionOS:
		return "xros"
	default:
		return ""
	}
}

// Product represents the kind of artifact a target produces
type Product string

const (
	ProductApp             Product = "app"
	ProductCommandLineTool Product = "commandLineTool"
	ProductFramework       Product = "framework"
	ProductStaticLibrary   Product = "staticLibrary"
	ProductDynamicLibrary  Product = "dynamicLibrary"
	ProductUnitTests       Product = "unitTests"
	ProductUITests         Product = "uiTests"
	ProductAppExtension    Product = "appExtension"
	ProductWatchApp        Product = "watchApp"
)

// Products lists all supported products
var Products = []Product{
	ProductApp,
	ProductCommandLineTool,
	ProductFramework,
	ProductStaticLibrary,
	ProductDynamicLibrary,
	ProductUnitTests,
	ProductUITests,
	ProductAppExtension,
	ProductWatchApp,
}

// Valid reports whether p is one of the supported products
func (p Product) Valid() bool {
	for _, known := range Products {
		if p == known {
			return true
		}
	}
	return false
}

// Runnable reports whether the product can be executed or launched directly
func (p Product) Runnable() bool {
	return p == ProductApp || p == ProductCommandLineTool
}

// ConfigurationVariant distinguishes debug-flavored from release-flavored
// build configurations
type ConfigurationVariant string

const (
	VariantDebug   ConfigurationVariant = "debug"
	VariantRelease ConfigurationVariant = "release"
)

// BuildConfiguration is a named build variant (e.g. "Debug", "Release")
type BuildConfiguration struct {
	Name    string               `yaml:"name" json:"name"`
	Variant ConfigurationVariant `yaml:"variant" json:"variant"`
}

// DefaultConfigurationName is the last-resort configuration used when neither
// an explicit configuration nor a project default is available.
const DefaultConfigurationName = "Debug"

// Settings carries build settings and the configurations of a project
type Settings struct {
	Base           map[string]string    `yaml:"base" json:"base,omitempty"`
	Configurations []BuildConfiguration `yaml:"configurations" json:"configurations,omitempty"`
}

// DefaultDebugConfiguration returns the first debug-variant configuration,
// or nil when the settings define none.
func (s Settings) DefaultDebugConfiguration() *BuildConfiguration {
	for i := range s.Configurations {
		if s.Configurations[i].Variant == VariantDebug {
			return &s.Configurations[i]
		}
	}
	return nil
}

// Target is a single buildable unit within a project
type Target struct {
	Name         string            `yaml:"name" json:"name"`
	ProductName  string            `yaml:"productName" json:"productName"`
	Platform     Platform          `yaml:"platform" json:"platform"`
	Product      Product           `yaml:"product" json:"product"`
	Sources      []string          `yaml:"sources" json:"sources,omitempty"`
	Dependencies []string          `yaml:"dependencies" json:"dependencies,omitempty"`
	Settings     map[string]string `yaml:"settings" json:"settings,omitempty"`
}

// ProductNameWithExtension returns the product name including the extension
// the toolchain gives the built artifact.
func (t *Target) ProductNameWithExtension() string {
	name := t.ProductName
	if name == "" {
		name = t.Name
	}
	switch t.Product {
	case ProductApp, ProductWatchApp:
		return name + ".app"
	case ProductFramework:
		return name + ".framework"
	case ProductStaticLibrary:
		return fmt.Sprintf("lib%s.a", name)
	case ProductDynamicLibrary:
		return name + ".dylib"
	case ProductUnitTests, ProductUITests:
		return name + ".xctest"
	case ProductAppExtension:
		return name + ".appex"
	default:
		// Command line tools carry no extension
		return name
	}
}

// Runnable reports whether the target produces a directly executable product
func (t *Target) Runnable() bool {
	return t.Product.Runnable()
}

// Buildable reports whether the target can be built directly through its
// scheme. Products that require a host application (extensions, watch apps,
// test bundles) are built through their host instead.
func (t *Target) Buildable() bool {
	switch t.Product {
	case ProductAppExtension, ProductWatchApp, ProductUnitTests, ProductUITests:
		return false
	default:
		return true
	}
}

// TargetRef names a target within a project
type TargetRef struct {
	ProjectName string `yaml:"project" json:"project"`
	TargetName  string `yaml:"target" json:"target"`
}

// Scheme is a named build/run unit grouping one or more targets
type Scheme struct {
	Name string `yaml:"name" json:"name"`

	// Internal marks schemes that are not primary entry points of the
	// workspace (test-support and utility schemes).
	Internal bool `yaml:"internal" json:"internal,omitempty"`

	BuildTargets []TargetRef `yaml:"build" json:"build,omitempty"`
	RunTarget    *TargetRef  `yaml:"run" json:"run,omitempty"`
}

// Project owns one or more targets and their schemes
type Project struct {
	Name     string    `yaml:"name" json:"name"`
	Path     string    `yaml:"-" json:"path"`
	Targets  []*Target `yaml:"targets" json:"targets"`
	Settings Settings  `yaml:"settings" json:"settings"`
	Schemes  []*Scheme `yaml:"schemes" json:"schemes,omitempty"`

	// BuildOrder is the dependency-ordered list of target names, computed at
	// generation time.
	BuildOrder []string `yaml:"-" json:"buildOrder,omitempty"`
}

// Target returns the target with the given name, or nil if absent
func (p *Project) Target(name string) *Target {
	for _, t := range p.Targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Graph is the in-memory structural representation of a generated workspace.
// It is produced once per invocation (generated or loaded from the workspace
// cache) and consumed read-only.
type Graph struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Projects []*Project `json:"projects"`
}

// Project returns the project with the given name, or nil if absent
func (g *Graph) Project(name string) *Project {
	for _, p := range g.Projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Schemes returns every scheme in the graph in listing order: projects in
// graph order, schemes in project order. Lookups by name are first-match.
func (g *Graph) Schemes() []*Scheme {
	var schemes []*Scheme
	for _, p := range g.Projects {
		schemes = append(schemes, p.Schemes...)
	}
	return schemes
}

// ResolveTarget resolves a target reference against the graph
func (g *Graph) ResolveTarget(ref TargetRef) (*Project, *Target) {
	project := g.Project(ref.ProjectName)
	if project == nil {
		return nil, nil
	}
	target := project.Target(ref.TargetName)
	if target == nil {
		return nil, nil
	}
	return project, target
}
