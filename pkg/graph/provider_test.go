package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/model"
)

// fakeGenerator records which operations the provider chose
type fakeGenerator struct {
	generated int
	loaded    int
	err       error
}

func (f *fakeGenerator) Generate(ctx context.Context, dir string) (*model.Graph, error) {
	f.generated++
	return &model.Graph{Name: "G", Path: dir}, f.err
}

func (f *fakeGenerator) Load(ctx context.Context, dir string) (*model.Graph, error) {
	f.loaded++
	return &model.Graph{Name: "G", Path: dir}, f.err
}

func TestObtainGeneratesWhenNoWorkspace(t *testing.T) {
	fs := fsutil.NewMemFileSystem()
	if err := fs.MkdirAll("/p"); err != nil {
		t.Fatal(err)
	}
	gen := &fakeGenerator{}
	provider := NewProvider(gen, fs)

	if _, err := provider.Obtain(context.Background(), "/p", false); err != nil {
		t.Fatalf("Obtain failed: %v", err)
	}
	if gen.generated != 1 || gen.loaded != 0 {
		t.Errorf("generated=%d loaded=%d, want generate only", gen.generated, gen.loaded)
	}
}

func TestObtainLoadsExistingWorkspace(t *testing.T) {
	fs := fsutil.NewMemFileSystem()
	if err := fs.MkdirAll("/p/Demo.xcworkspace"); err != nil {
		t.Fatal(err)
	}
	gen := &fakeGenerator{}
	provider := NewProvider(gen, fs)

	if _, err := provider.Obtain(context.Background(), "/p", false); err != nil {
		t.Fatalf("Obtain failed: %v", err)
	}
	if gen.generated != 0 || gen.loaded != 1 {
		t.Errorf("generated=%d loaded=%d, want load only", gen.generated, gen.loaded)
	}
}

func TestObtainForceGenerate(t *testing.T) {
	fs := fsutil.NewMemFileSystem()
	if err := fs.MkdirAll("/p/Demo.xcworkspace"); err != nil {
		t.Fatal(err)
	}
	gen := &fakeGenerator{}
	provider := NewProvider(gen, fs)

	if _, err := provider.Obtain(context.Background(), "/p", true); err != nil {
		t.Fatalf("Obtain failed: %v", err)
	}
	if gen.generated != 1 || gen.loaded != 0 {
		t.Errorf("generated=%d loaded=%d, want generate only", gen.generated, gen.loaded)
	}
}

func TestObtainPropagatesGenerationError(t *testing.T) {
	fs := fsutil.NewMemFileSystem()
	if err := fs.MkdirAll("/p"); err != nil {
		t.Fatal(err)
	}
	sentinel := errors.New("manifest exploded")
	provider := NewProvider(&fakeGenerator{err: sentinel}, fs)

	_, err := provider.Obtain(context.Background(), "/p", false)
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want wrapped sentinel", err)
	}
}
