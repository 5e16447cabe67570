package data

import (
	"errors"
	"slices"
	"testing"
)

func buildExampleTree(t *testing.T) *FileTree {
	t.Helper()

	tree := NewFileTree("example")
	entries := []struct {
		path string
		id   int64
		size int64
	}{
		{"root/dirA/file1", 1, 10},
		{"root/dirA/file2", -1, 20},
		{"root/file3", 2, 5},
	}
	for _, e := range entries {
		if _, err := tree.AddPath(e.path, e.id, e.size); err != nil {
			t.Fatalf("AddPath(%q) failed: %v", e.path, err)
		}
	}
	return tree
}

func TestFileTree_AddPathBuildsHierarchy(t *testing.T) {
	tree := buildExampleTree(t)

	if tree.FileCount() != 3 {
		t.Errorf("Expected 3 files, got %d", tree.FileCount())
	}

	dirA, ok := tree.Find("root/dirA/")
	if !ok {
		t.Fatal("Expected directory root/dirA/ to be indexed")
	}
	if dirA.IsFile || dirA.ContentID != NoContent {
		t.Errorf("Expected dirA to be a directory without content, got %+v", dirA)
	}
	if dirA.NodeSize() != 30 {
		t.Errorf("Expected dirA size 30, got %d", dirA.NodeSize())
	}
	if tree.Size() != 35 {
		t.Errorf("Expected tree size 35, got %d", tree.Size())
	}

	var names []string
	for _, f := range tree.Files() {
		names = append(names, f.FullPath)
	}
	want := []string{"root/dirA/file1", "root/dirA/file2", "root/file3"}
	if !slices.Equal(names, want) {
		t.Errorf("Files() = %v, want %v", names, want)
	}
}

func TestFileTree_WindowsPaths(t *testing.T) {
	tree := NewFileTree("windows")
	tree.AddPath(`C:\Temp\`, NoContent, 0)
	tree.AddPath(`C:\Temp\MyFile.cs`, 7, 100)
	tree.AddPath(`D:\MyDir\MyFile3.cs`, 8, 50)

	if _, ok := tree.Find(`C:\Temp\`); !ok {
		t.Error(`Expected C:\Temp\ to be indexed`)
	}
	node, ok := tree.Find(`C:\Temp\MyFile.cs`)
	if !ok || !node.IsFile || node.ContentID != 7 {
		t.Errorf("Unexpected node: %+v", node)
	}
	if len(tree.Root().Children()) != 2 {
		t.Errorf("Expected two drive roots, got %d", len(tree.Root().Children()))
	}
	if tree.Size() != 150 {
		t.Errorf("Expected size 150, got %d", tree.Size())
	}
}

func TestFileTree_SizeIsCachedOnceRead(t *testing.T) {
	tree := NewFileTree("cached")
	tree.AddPath("/a/b", 1, 10)

	if tree.Size() != 10 {
		t.Fatalf("Expected size 10, got %d", tree.Size())
	}

	tree.AddPath("/a/c", 2, 99)
	if tree.Size() != 10 {
		t.Errorf("Expected cached size 10 after read, got %d", tree.Size())
	}
}

func TestFileTree_InvalidPath(t *testing.T) {
	tree := NewFileTree("invalid")
	for _, p := range []string{"", "/", `\\`} {
		if _, err := tree.AddPath(p, 1, 1); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("AddPath(%q) err = %v, want ErrInvalidPath", p, err)
		}
	}
}

func TestFileTree_SubTree(t *testing.T) {
	tree := buildExampleTree(t)
	dirA, _ := tree.Find("root/dirA/")

	sub := tree.SubTree(dirA, "dirA only")
	if sub.FileCount() != 2 {
		t.Errorf("Expected 2 files in sub tree, got %d", sub.FileCount())
	}
	if _, ok := sub.Find("root/file3"); ok {
		t.Error("Expected root/file3 to be excluded from sub tree")
	}
	if sub.Size() != 30 {
		t.Errorf("Expected sub tree size 30, got %d", sub.Size())
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{`C:\Users\`, `file.txt`, `C:\Users\file.txt`},
		{`C:\Users`, `file.txt`, `C:\Users\file.txt`},
		{"/home/user/", "docs/a.txt", "/home/user/docs/a.txt"},
		{"/home/user", "/docs/", "/home/user/docs/"},
		{"", "relative", "relative"},
	}
	for _, tt := range tests {
		if got := JoinPath(tt.prefix, tt.path); got != tt.want {
			t.Errorf("JoinPath(%q, %q) = %q, want %q", tt.prefix, tt.path, got, tt.want)
		}
	}
}
