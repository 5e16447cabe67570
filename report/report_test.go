package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwantia/backup-explorer/compare"
	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/log"
)

func comparedTree(t *testing.T) *data.FileTree {
	t.Helper()

	left := data.NewFileTree("left")
	right := data.NewFileTree("right")
	for _, e := range []struct {
		tree *data.FileTree
		path string
		id   int64
		size int64
	}{
		{left, "root/dirA/file1", 1, 10},
		{left, "root/dirA/file2", -1, 20},
		{left, "root/file3", 2, 5},
		{right, "root/dirA/file1", 1, 10},
		{right, "root/file3", 7, 5},
	} {
		if _, err := e.tree.AddPath(e.path, e.id, e.size); err != nil {
			t.Fatalf("AddPath failed: %v", err)
		}
	}

	if err := compare.CompareOne(testContext(t), left, right, nil); err != nil {
		t.Fatalf("CompareOne failed: %v", err)
	}
	compare.UpdateDirectoryAggregates(left)
	return left
}

func TestSharedSize(t *testing.T) {
	tests := []struct {
		shared, total int64
		want          string
	}{
		{0, 0, "0/0 B"},
		{30, 35, "30/35 B"},
		{750, 1500, "0.75/1.5 kB"},
		{1_000_000, 3_000_000, "1/3 MB"},
	}

	for _, tt := range tests {
		if got := SharedSize(tt.shared, tt.total); got != tt.want {
			t.Errorf("SharedSize(%d, %d) = %q, want %q", tt.shared, tt.total, got, tt.want)
		}
	}
}

func TestNew_CapturesClassification(t *testing.T) {
	r := New(comparedTree(t), "right")

	if r.Summary.Files != 3 || r.Summary.SharedSize != 10 || r.Summary.ChangedSize != 5 || r.Summary.UniqueSize != 20 {
		t.Errorf("Unexpected summary %+v", r.Summary)
	}

	results := map[string]string{}
	for _, entry := range r.Entries {
		if !entry.Directory {
			results[entry.Path] = entry.Result
			continue
		}
		if entry.Aggregate == nil {
			t.Errorf("Directory %s has no aggregate", entry.Path)
		}
	}

	want := map[string]string{
		"root/dirA/file1": "shared",
		"root/dirA/file2": "unique",
		"root/file3":      "changed",
	}
	for path, result := range want {
		if results[path] != result {
			t.Errorf("%s reported %q, want %q", path, results[path], result)
		}
	}
}

func TestReport_JSON(t *testing.T) {
	r := New(comparedTree(t), "right")

	content, err := r.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.ID != r.ID || len(decoded.Entries) != len(r.Entries) {
		t.Errorf("Decoded report differs: %+v", decoded)
	}
}

func TestReport_WriteText(t *testing.T) {
	r := New(comparedTree(t), "right")

	var full bytes.Buffer
	if err := r.WriteText(&full, 0); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	text := full.String()
	for _, want := range []string{
		"Comparison Result - left <-> right",
		"Shared: 10/35 B",
		"root/dirA/file2",
		"root/dirA/  30 B  10/30 B",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}

	var shallow bytes.Buffer
	if err := r.WriteText(&shallow, 1); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if strings.Contains(shallow.String(), "file1") {
		t.Errorf("Expected depth 1 to hide files, got:\n%s", shallow.String())
	}
}

func TestListingDiff(t *testing.T) {
	left := data.NewFileTree("a")
	right := data.NewFileTree("b")
	left.AddPath("/x/keep", 1, 1)
	left.AddPath("/x/old", 2, 1)
	right.AddPath("/x/keep", 1, 1)
	right.AddPath("/x/new", 3, 1)

	diff, err := ListingDiff(left, right, 1)
	if err != nil {
		t.Fatalf("ListingDiff failed: %v", err)
	}

	for _, want := range []string{"--- a", "+++ b", "-/x/old", "+/x/new"} {
		if !strings.Contains(diff, want) {
			t.Errorf("Expected %q in diff:\n%s", want, diff)
		}
	}

	same, err := ListingDiff(left, left, 1)
	if err != nil {
		t.Fatalf("ListingDiff failed: %v", err)
	}
	if same != "" {
		t.Errorf("Expected empty diff for identical listings, got:\n%s", same)
	}
}

type failingExporter struct{}

func (failingExporter) Name() string { return "failing" }

func (failingExporter) Export(context.Context, *Report) error {
	return errors.New("unreachable")
}

func TestExportAll_WritesFilesAndJoinsErrors(t *testing.T) {
	dir := t.TempDir()
	r := New(comparedTree(t), "right")

	err := ExportAll(testContext(t), log.NewDiscard(), r, NewFileExporter(dir), failingExporter{})
	if err == nil || !strings.Contains(err.Error(), "failing: unreachable") {
		t.Fatalf("Expected joined exporter error, got %v", err)
	}

	for _, ext := range []string{".json", ".txt"} {
		if _, err := os.Stat(filepath.Join(dir, r.Key()+ext)); err != nil {
			t.Errorf("Expected %s export: %v", ext, err)
		}
	}
}

func TestRemoteExporters_Keys(t *testing.T) {
	r := New(comparedTree(t), "right")

	s3, err := NewS3Exporter("localhost:9000", "reports", "access", "secret", "explorer", false)
	if err != nil {
		t.Fatalf("NewS3Exporter failed: %v", err)
	}
	if key := s3.objectKey(r); key != "explorer/"+r.Key()+".json" {
		t.Errorf("Unexpected object key %q", key)
	}

	consul, err := NewConsulExporter("", "", "/backup-explorer")
	if err != nil {
		t.Fatalf("NewConsulExporter failed: %v", err)
	}
	if key := consul.buildKey(r.Key()); key != "backup-explorer/"+r.Key() {
		t.Errorf("Unexpected consul key %q", key)
	}
}
