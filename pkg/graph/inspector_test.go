package graph

import (
	"reflect"
	"testing"

	"github.com/xcgen/xcgen/pkg/model"
)

// testGraph builds a graph with one project holding a runnable tool, an app,
// a library-only scheme and an internal scheme.
func testGraph() *model.Graph {
	project := &model.Project{
		Name: "Demo",
		Path: "/demo",
		Targets: []*model.Target{
			{Name: "tool", ProductName: "tool", Platform: model.PlatformMacOS, Product: model.ProductCommandLineTool},
			{Name: "App", ProductName: "App", Platform: model.PlatformIOS, Product: model.ProductApp},
			{Name: "core", ProductName: "core", Platform: model.PlatformMacOS, Product: model.ProductStaticLibrary},
			{Name: "toolTests", ProductName: "toolTests", Platform: model.PlatformMacOS, Product: model.ProductUnitTests},
		},
		Schemes: []*model.Scheme{
			{
				Name:         "tool",
				BuildTargets: []model.TargetRef{{ProjectName: "Demo", TargetName: "tool"}},
				RunTarget:    &model.TargetRef{ProjectName: "Demo", TargetName: "tool"},
			},
			{
				Name:         "App",
				BuildTargets: []model.TargetRef{{ProjectName: "Demo", TargetName: "App"}},
				RunTarget:    &model.TargetRef{ProjectName: "Demo", TargetName: "App"},
			},
			{
				Name:         "core",
				BuildTargets: []model.TargetRef{{ProjectName: "Demo", TargetName: "core"}},
			},
			{
				Name:         "Internal",
				Internal:     true,
				BuildTargets: []model.TargetRef{{ProjectName: "Demo", TargetName: "core"}},
			},
			{
				Name:         "TestsOnly",
				BuildTargets: []model.TargetRef{{ProjectName: "Demo", TargetName: "toolTests"}},
			},
		},
	}
	return &model.Graph{Name: "Demo", Path: "/demo", Projects: []*model.Project{project}}
}

func TestBuildableSchemes(t *testing.T) {
	g := testGraph()

	got := SchemeNames(BuildableSchemes(g))
	want := []string{"tool", "App", "core", "Internal"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuildableEntrySchemes(t *testing.T) {
	g := testGraph()

	got := SchemeNames(BuildableEntrySchemes(g))
	want := []string{"tool", "App", "core"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRunnableSchemes(t *testing.T) {
	g := testGraph()

	got := SchemeNames(RunnableSchemes(g))
	want := []string{"tool", "App"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuildableTarget(t *testing.T) {
	g := testGraph()

	project, target, ok := BuildableTarget(g, g.Schemes()[0])
	if !ok {
		t.Fatal("expected a buildable target")
	}
	if project.Name != "Demo" || target.Name != "tool" {
		t.Errorf("got %s/%s", project.Name, target.Name)
	}

	// A scheme whose only target is a test bundle has nothing to build
	testsOnly := FindScheme(g.Schemes(), "TestsOnly")
	if _, _, ok := BuildableTarget(g, testsOnly); ok {
		t.Error("test-bundle scheme should have no buildable target")
	}
}

func TestRunnableTarget(t *testing.T) {
	g := testGraph()

	_, target, ok := RunnableTarget(g, FindScheme(g.Schemes(), "App"))
	if !ok || target.Product != model.ProductApp {
		t.Fatalf("expected the app target, got %+v", target)
	}

	if _, _, ok := RunnableTarget(g, FindScheme(g.Schemes(), "core")); ok {
		t.Error("library scheme should have no runnable target")
	}
}

func TestBuildArgumentsDerivation(t *testing.T) {
	g := testGraph()
	project := g.Projects[0]
	target := project.Target("App")

	args := BuildArguments(project, target, "Release", true)
	if args.ProjectPath != "/demo" {
		t.Errorf("project path: got %q", args.ProjectPath)
	}
	if args.Configuration != "Release" || !args.SkipSigning {
		t.Errorf("unexpected arguments: %+v", args)
	}
	if args.Platform != model.PlatformIOS {
		t.Errorf("platform: got %q", args.Platform)
	}
}

func TestFindSchemeFirstMatch(t *testing.T) {
	schemes := []*model.Scheme{
		{Name: "dup", Internal: false},
		{Name: "dup", Internal: true},
	}

	found := FindScheme(schemes, "dup")
	if found == nil || found.Internal {
		t.Error("lookup should return the first match")
	}
	if FindScheme(schemes, "missing") != nil {
		t.Error("missing scheme should resolve to nil")
	}
}
