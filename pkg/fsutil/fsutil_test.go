package fsutil

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestExistsAndMkdirAll(t *testing.T) {
	fs := NewMemFileSystem()

	if fs.Exists("/nope") {
		t.Error("missing path reported as existing")
	}
	if err := fs.MkdirAll("/a/b/c"); err != nil {
		t.Fatal(err)
	}
	if !fs.Exists("/a/b/c") || !fs.IsDir("/a/b/c") {
		t.Error("created directory not found")
	}
}

func TestListIsSorted(t *testing.T) {
	fs := NewMemFileSystem()
	for _, name := range []string{"c", "a", "b"} {
		if err := fs.WriteFile(filepath.Join("/dir", name), []byte(name)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := fs.List("/dir")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/dir/a", "/dir/b", "/dir/c"}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("got %v, want %v", entries, want)
	}
}

func TestCopyFile(t *testing.T) {
	fs := NewMemFileSystem()
	if err := fs.WriteFile("/src/file", []byte("payload")); err != nil {
		t.Fatal(err)
	}

	if err := fs.Copy("/src/file", "/dst/file"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	data, err := fs.ReadFile("/dst/file")
	if err != nil || string(data) != "payload" {
		t.Errorf("got %q, %v", data, err)
	}
}

func TestCopyDirectoryRecursive(t *testing.T) {
	fs := NewMemFileSystem()
	if err := fs.WriteFile("/src/App.app/Contents/Info.plist", []byte("plist")); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile("/src/App.app/App", []byte("binary")); err != nil {
		t.Fatal(err)
	}

	if err := fs.Copy("/src/App.app", "/dst/App.app"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	for path, want := range map[string]string{
		"/dst/App.app/Contents/Info.plist": "plist",
		"/dst/App.app/App":                 "binary",
	} {
		data, err := fs.ReadFile(path)
		if err != nil || string(data) != want {
			t.Errorf("%s: got %q, %v", path, data, err)
		}
	}
}

func TestDelete(t *testing.T) {
	fs := NewMemFileSystem()
	if err := fs.WriteFile("/dir/sub/file", []byte("x")); err != nil {
		t.Fatal(err)
	}

	if err := fs.Delete("/dir"); err != nil {
		t.Fatal(err)
	}
	if fs.Exists("/dir/sub/file") {
		t.Error("deleted tree still present")
	}
}
