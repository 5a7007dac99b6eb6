package service

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/generator"
	"github.com/xcgen/xcgen/pkg/graph"
	"github.com/xcgen/xcgen/pkg/model"
	"github.com/xcgen/xcgen/pkg/xcodebuild"
)

const demoProject = `
name: Demo
settings:
  configurations:
    - name: Dev
      variant: debug
    - name: Release
      variant: release
targets:
  - name: tool
    productName: tool
    platform: macOS
    product: commandLineTool
  - name: App
    productName: App
    platform: iOS
    product: app
  - name: core
    productName: core
    platform: macOS
    product: staticLibrary
  - name: toolTests
    productName: toolTests
    platform: macOS
    product: unitTests
`

const demoWorkspace = "/p/Demo.xcworkspace"

// newBuildFixture generates a workspace into an in-memory filesystem and
// wires a BuildService around it with a mock controller.
func newBuildFixture(t *testing.T) (*BuildService, *xcodebuild.MockController, *fsutil.FileSystem) {
	t.Helper()
	fs := fsutil.NewMemFileSystem()
	if err := fs.WriteFile("/p/Project.yaml", []byte(demoProject)); err != nil {
		t.Fatal(err)
	}

	provider := graph.NewProvider(generator.New(fs), fs)
	controller := &xcodebuild.MockController{}
	return NewBuildService(provider, controller, fs), controller, fs
}

func TestBuildSchemeNotFound(t *testing.T) {
	svc, controller, _ := newBuildFixture(t)

	err := svc.Run(context.Background(), BuildOptions{Scheme: "ghost", Path: "/p"})

	var notFound *SchemeNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want SchemeNotFoundError", err)
	}
	// The available names are exactly the buildable schemes, listing order
	// preserved.
	want := []string{"tool", "App", "core"}
	if !reflect.DeepEqual(notFound.Existing, want) {
		t.Errorf("existing schemes: got %v, want %v", notFound.Existing, want)
	}
	if len(controller.Requests()) != 0 {
		t.Error("controller should not be invoked for an unknown scheme")
	}
	if IsBug(err) {
		t.Error("SchemeNotFound is a user-facing abort, not a bug")
	}
}

func TestBuildSchemeWithoutBuildableTargets(t *testing.T) {
	svc, controller, fs := newBuildFixture(t)

	g, err := svc.provider.Obtain(context.Background(), "/p", false)
	if err != nil {
		t.Fatal(err)
	}
	if !fs.IsDir(demoWorkspace) {
		t.Fatal("fixture workspace missing")
	}

	scheme := &model.Scheme{
		Name:         "TestsOnly",
		BuildTargets: []model.TargetRef{{ProjectName: "Demo", TargetName: "toolTests"}},
	}

	err = svc.buildScheme(context.Background(), scheme, g, demoWorkspace, false, "", "")

	var noTargets *SchemeWithoutBuildableTargetsError
	if !errors.As(err, &noTargets) {
		t.Fatalf("got %v, want SchemeWithoutBuildableTargetsError", err)
	}
	if len(controller.Requests()) != 0 {
		t.Error("controller must not be invoked when nothing is buildable")
	}
}

func TestBuildBatchCleansOnlyFirstScheme(t *testing.T) {
	svc, controller, _ := newBuildFixture(t)

	err := svc.Run(context.Background(), BuildOptions{Clean: true, Path: "/p"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	requests := controller.Requests()
	if len(requests) != 3 {
		t.Fatalf("got %d build requests, want 3", len(requests))
	}
	for i, req := range requests {
		wantClean := i == 0
		if req.Clean != wantClean {
			t.Errorf("request %d (%s): clean=%t, want %t", i, req.Scheme, req.Clean, wantClean)
		}
	}
	wantOrder := []string{"tool", "App", "core"}
	for i, req := range requests {
		if req.Scheme != wantOrder[i] {
			t.Errorf("request %d: scheme %q, want %q", i, req.Scheme, wantOrder[i])
		}
	}
}

func TestBuildBatchAbortsOnFirstFailure(t *testing.T) {
	svc, controller, _ := newBuildFixture(t)
	controller.MockError = errors.New("compile error")

	err := svc.Run(context.Background(), BuildOptions{Path: "/p"})
	if err == nil {
		t.Fatal("expected the batch to fail")
	}
	if len(controller.Requests()) != 1 {
		t.Errorf("got %d requests, want 1: the batch must stop at the first failure", len(controller.Requests()))
	}
}

func TestBuildCopiesProductsWholesale(t *testing.T) {
	svc, _, fs := newBuildFixture(t)

	// Generate the workspace first so the product files written below are
	// not mistaken for an existing workspace cache.
	if _, err := svc.provider.Obtain(context.Background(), "/p", false); err != nil {
		t.Fatal(err)
	}

	// Products deposited by the toolchain for the default debug
	// configuration Dev.
	source := xcodebuild.BuildDirectory(model.PlatformMacOS, demoWorkspace, "Dev")
	if err := fs.WriteFile(filepath.Join(source, "a"), []byte("fresh")); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile(filepath.Join(source, "b"), []byte("new file")); err != nil {
		t.Fatal(err)
	}
	// Pre-existing destination entry that must be replaced wholesale
	if err := fs.WriteFile("/out/a", []byte("stale and longer than fresh")); err != nil {
		t.Fatal(err)
	}

	err := svc.Run(context.Background(), BuildOptions{Scheme: "tool", Path: "/p", Output: "/out"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	a, err := fs.ReadFile("/out/a")
	if err != nil {
		t.Fatalf("reading copied file: %v", err)
	}
	if string(a) != "fresh" {
		t.Errorf("destination a: got %q, want full replacement with %q", a, "fresh")
	}
	b, err := fs.ReadFile("/out/b")
	if err != nil || string(b) != "new file" {
		t.Errorf("destination b: got %q, %v", b, err)
	}
}

func TestBuildProductsNotFoundIsBug(t *testing.T) {
	svc, _, _ := newBuildFixture(t)

	err := svc.Run(context.Background(), BuildOptions{Scheme: "tool", Path: "/p", Output: "/out"})

	var missing *BuildProductsNotFoundError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want BuildProductsNotFoundError", err)
	}
	if !IsBug(err) {
		t.Error("missing build products after a successful build is bug class")
	}
}

func TestBuildWorkspaceNotFound(t *testing.T) {
	// A generator that claims success but materializes nothing leaves the
	// pipeline without a workspace to hand to the toolchain.
	fs := fsutil.NewMemFileSystem()
	if err := fs.MkdirAll("/p"); err != nil {
		t.Fatal(err)
	}
	provider := graph.NewProvider(hollowGenerator{}, fs)
	svc := NewBuildService(provider, &xcodebuild.MockController{}, fs)

	err := svc.Run(context.Background(), BuildOptions{Scheme: "tool", Path: "/p"})

	var notFound *WorkspaceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want WorkspaceNotFoundError", err)
	}
}

// hollowGenerator returns a graph without writing any workspace
type hollowGenerator struct{}

func (hollowGenerator) Generate(ctx context.Context, dir string) (*model.Graph, error) {
	return &model.Graph{Name: "Hollow", Path: dir}, nil
}

func (hollowGenerator) Load(ctx context.Context, dir string) (*model.Graph, error) {
	return &model.Graph{Name: "Hollow", Path: dir}, nil
}
