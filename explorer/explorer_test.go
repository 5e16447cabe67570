package explorer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/scheduler"
	"github.com/mwantia/backup-explorer/store/memory"
)

const testPath = "/backups/job.sqlite"

type recordingSink struct {
	mu       sync.Mutex
	trees    []*data.FileTree
	errors   []string
	progress []float64
	visible  bool
	size     int64
	wasted   int64
}

func (s *recordingSink) SetProgress(value float64, format string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = append(s.progress, value)
}

func (s *recordingSink) ShowProgress(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible = visible
}

func (s *recordingSink) ShowFileTree(tree *data.FileTree) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trees = append(s.trees, tree)
}

func (s *recordingSink) SetTotals(size, wasted int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.size, s.wasted = size, wasted
}

func (s *recordingSink) ShowError(title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors = append(s.errors, title+": "+message)
}

func (s *recordingSink) lastTree() *data.FileTree {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.trees) == 0 {
		return nil
	}
	return s.trees[len(s.trees)-1]
}

func (s *recordingSink) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.errors)
}

// testCatalog holds filesets 4 (newest) to 1. Every fileset stores the same
// shared file and one file of its own.
func testCatalog() *memory.Catalog {
	catalog := memory.NewCatalog()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for id := int64(4); id >= 1; id-- {
		catalog.AddFileset(id, base.AddDate(0, 0, int(id)))
		catalog.AddFile(id, "/data/", -100)
		catalog.AddFile(id, "/data/shared.bin", 1, 10, 20)
		catalog.AddFile(id, fmt.Sprintf("/data/only-%d.bin", id), 100+id, 5)
	}
	return catalog.AddWasted(7)
}

func newTestExplorer(t *testing.T, db *memory.MemoryDatabase, sink Sink, opts ...Option) *Explorer {
	t.Helper()

	sched, err := scheduler.New(scheduler.WithContext(testContext(t)))
	if err != nil {
		t.Fatalf("scheduler.New failed: %v", err)
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(sched.Complete)

	opts = append([]Option{WithPollInterval(5 * time.Millisecond)}, opts...)
	e, err := New(db, sched, sink, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func loadedExplorer(t *testing.T, sink Sink, opts ...Option) (*Explorer, *memory.MemoryDatabase) {
	t.Helper()

	db := memory.NewMemoryDatabase()
	db.Register(testPath, testCatalog())

	e := newTestExplorer(t, db, sink, opts...)
	if err := e.LoadAll(testContext(t), testPath); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	return e, db
}

func backupByID(t *testing.T, e *Explorer, id int64) *data.Backup {
	t.Helper()

	backup, ok := e.Backup(id)
	if !ok {
		t.Fatalf("Backup %d not found", id)
	}
	return backup
}

func materialized(e *Explorer) int {
	count := 0
	for _, backup := range e.Backups() {
		if backup.Materialized() {
			count++
		}
	}
	return count
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoadAll_MaterializesNewestFilesets(t *testing.T) {
	sink := &recordingSink{}
	e, _ := loadedExplorer(t, sink, WithMaxLoaded(2))

	backups := e.Backups()
	if len(backups) != 4 {
		t.Fatalf("Expected 4 backups, got %d", len(backups))
	}

	for i, backup := range backups {
		if want := int64(4 - i); backup.Fileset.ID != want {
			t.Errorf("Backup %d has fileset %d, want %d", i, backup.Fileset.ID, want)
		}
		if want := i < 2; backup.Materialized() != want {
			t.Errorf("Fileset %d materialized = %v, want %v", backup.Fileset.ID, backup.Materialized(), want)
		}

		size, err := backup.Size()
		if err != nil {
			t.Fatalf("Size of fileset %d failed: %v", backup.Fileset.ID, err)
		}
		if size != 35 {
			t.Errorf("Fileset %d has size %d, want 35", backup.Fileset.ID, size)
		}
	}

	if loaded := e.Loaded(); !slices.Equal(loaded, []int64{3, 4}) {
		t.Errorf("Expected ledger [3 4], got %v", loaded)
	}

	size, wasted := e.Totals()
	if size != 50 || wasted != 7 {
		t.Errorf("Expected totals 50/7, got %d/%d", size, wasted)
	}
	if sink.size != 50 || sink.wasted != 7 {
		t.Errorf("Expected published totals 50/7, got %d/%d", sink.size, sink.wasted)
	}
	if sink.visible {
		t.Error("Expected progress to be hidden after load")
	}
	for _, value := range sink.progress {
		if value < 0 || value > 100 {
			t.Errorf("Progress value %f out of range", value)
		}
	}
}

func TestEnsureMaterialized_EvictsLeastRecentlyUsed(t *testing.T) {
	e, _ := loadedExplorer(t, nil, WithMaxLoaded(2))
	ctx := testContext(t)

	steps := []struct {
		id     int64
		loaded []int64
	}{
		{id: 2, loaded: []int64{2, 3}},
		{id: 3, loaded: []int64{2, 3}},
		{id: 1, loaded: []int64{1, 2}},
		{id: 4, loaded: []int64{4, 1}},
	}

	for _, step := range steps {
		backup := backupByID(t, e, step.id)
		if err := e.EnsureMaterialized(ctx, backup); err != nil {
			t.Fatalf("EnsureMaterialized(%d) failed: %v", step.id, err)
		}

		if !backup.Materialized() {
			t.Errorf("Fileset %d not materialized after EnsureMaterialized", step.id)
		}
		if count := materialized(e); count > 2 {
			t.Errorf("After fileset %d: %d backups materialized, bound is 2", step.id, count)
		}
		if loaded := e.Loaded(); !slices.Equal(loaded, step.loaded) {
			t.Errorf("After fileset %d: ledger %v, want %v", step.id, loaded, step.loaded)
		}
	}

	evicted := backupByID(t, e, 3)
	if evicted.Materialized() {
		t.Fatal("Expected fileset 3 to be evicted")
	}
	if size, err := evicted.Size(); err != nil || size != 35 {
		t.Errorf("Evicted fileset kept size %d (%v), want 35", size, err)
	}
}

func TestEnsureMaterialized_SingleSlot(t *testing.T) {
	e, _ := loadedExplorer(t, nil, WithMaxLoaded(1))

	for _, id := range []int64{1, 2, 3, 1} {
		if err := e.EnsureMaterialized(testContext(t), backupByID(t, e, id)); err != nil {
			t.Fatalf("EnsureMaterialized(%d) failed: %v", id, err)
		}
		if loaded := e.Loaded(); !slices.Equal(loaded, []int64{id}) {
			t.Errorf("Expected ledger [%d], got %v", id, loaded)
		}
		if count := materialized(e); count != 1 {
			t.Errorf("Expected 1 materialized backup, got %d", count)
		}
	}
}

func TestLoadAll_UnsupportedVersion(t *testing.T) {
	catalog := testCatalog()
	catalog.Version = 11

	db := memory.NewMemoryDatabase()
	db.Register(testPath, catalog)

	sink := &recordingSink{}
	e := newTestExplorer(t, db, sink)

	err := e.LoadAll(testContext(t), testPath)
	if !errors.Is(err, data.ErrUnsupportedVersion) {
		t.Fatalf("Expected ErrUnsupportedVersion, got %v", err)
	}

	var versionErr *data.UnsupportedVersionError
	if !errors.As(err, &versionErr) || versionErr.Version != 11 {
		t.Errorf("Expected UnsupportedVersionError for version 11, got %v", err)
	}
	if backups := e.Backups(); len(backups) != 0 {
		t.Errorf("Expected no backups, got %d", len(backups))
	}
	if len(e.Loaded()) != 0 {
		t.Errorf("Expected empty ledger, got %v", e.Loaded())
	}
	if sink.errorCount() != 1 {
		t.Errorf("Expected 1 error shown, got %d", sink.errorCount())
	}
}

func TestLoadAll_ConnectionError(t *testing.T) {
	sink := &recordingSink{}
	e := newTestExplorer(t, memory.NewMemoryDatabase(), sink)

	err := e.LoadAll(testContext(t), "/missing.sqlite")
	if !errors.Is(err, data.ErrConnection) {
		t.Fatalf("Expected ErrConnection, got %v", err)
	}
	if sink.errorCount() != 1 || !strings.Contains(sink.errors[0], "/missing.sqlite") {
		t.Errorf("Expected error mentioning the path, got %v", sink.errors)
	}
}

func TestLoadAll_RejectsServerDatabase(t *testing.T) {
	sink := &recordingSink{}
	e := newTestExplorer(t, memory.NewMemoryDatabase(), sink)

	err := e.LoadAll(testContext(t), "/config/Duplicati-server.sqlite")
	if !errors.Is(err, data.ErrServerDatabase) {
		t.Fatalf("Expected ErrServerDatabase, got %v", err)
	}
	if sink.errorCount() != 1 {
		t.Errorf("Expected 1 error shown, got %d", sink.errorCount())
	}
}

func TestLoadAll_CancelledLeavesEmptyCatalog(t *testing.T) {
	sink := &recordingSink{}
	e, db := loadedExplorer(t, sink, WithMaxLoaded(2))

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	calls := 0
	db.SetHook(func(_ context.Context, op string) error {
		if op == "files" {
			calls++
			if calls == 2 {
				cancel()
			}
		}
		return nil
	})

	err := e.LoadAll(ctx, testPath)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	if backups := e.Backups(); len(backups) != 0 {
		t.Errorf("Expected empty catalog, got %d backups", len(backups))
	}
	if size, wasted := e.Totals(); size != 0 || wasted != 0 {
		t.Errorf("Expected zero totals, got %d/%d", size, wasted)
	}
	if sink.size != 0 || sink.wasted != 0 {
		t.Errorf("Expected zero published totals, got %d/%d", sink.size, sink.wasted)
	}
	if len(e.Loaded()) != 0 {
		t.Errorf("Expected empty ledger, got %v", e.Loaded())
	}
	if sink.errorCount() != 0 {
		t.Errorf("Expected cancellation to stay silent, got %v", sink.errors)
	}
}

func TestLoadAll_ReplacesCatalog(t *testing.T) {
	e, db := loadedExplorer(t, nil, WithMaxLoaded(2))
	old := backupByID(t, e, 4)

	other := memory.NewCatalog().
		AddFileset(9, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).
		AddSizedFile(9, `C:\`, `Data\report.txt`, 1, 12)
	db.Register("/backups/other.sqlite", other)

	if err := e.LoadAll(testContext(t), "/backups/other.sqlite"); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if old.Materialized() {
		t.Error("Expected backups of the previous catalog to be evicted")
	}
	if loaded := e.Loaded(); !slices.Equal(loaded, []int64{9}) {
		t.Errorf("Expected ledger [9], got %v", loaded)
	}

	tree := backupByID(t, e, 9).FileTree()
	if _, ok := tree.Find(`C:\Data\report.txt`); !ok {
		t.Errorf("Expected Windows path in tree, got %v", tree.Paths())
	}
}

func TestSelect_MaterializedPublishesImmediately(t *testing.T) {
	sink := &recordingSink{}
	e, _ := loadedExplorer(t, sink, WithMaxLoaded(2))

	backup := backupByID(t, e, 4)
	e.Select(backup)

	if sink.lastTree() != backup.FileTree() {
		t.Errorf("Expected tree of fileset 4, got %v", sink.lastTree())
	}
	if e.Pending() != nil {
		t.Errorf("Expected no pending load, got %v", e.Pending())
	}
}

func TestLazyLoader_PublishesSelection(t *testing.T) {
	sink := &recordingSink{}
	e, _ := loadedExplorer(t, sink, WithMaxLoaded(2))

	backup := backupByID(t, e, 1)
	e.Select(backup)

	if tree := sink.lastTree(); tree == nil || tree.Name != loadingTreeName {
		t.Fatalf("Expected placeholder tree, got %v", tree)
	}

	ctx, cancel := context.WithCancel(testContext(t))
	done := make(chan error, 1)
	go func() { done <- e.RunLazyLoader(ctx) }()

	waitFor(t, "lazy load", func() bool {
		tree := sink.lastTree()
		return tree != nil && tree == backup.FileTree()
	})

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	if sink.lastTree() != backup.FileTree() {
		t.Errorf("Expected tree of fileset 1 to be published")
	}
	if loaded := e.Loaded(); !slices.Equal(loaded, []int64{1, 3}) {
		t.Errorf("Expected ledger [1 3], got %v", loaded)
	}
	if e.Pending() != nil {
		t.Error("Expected pending load to be cleared")
	}
}

func TestLazyLoader_SupersededLoadIsNotPublished(t *testing.T) {
	sink := &recordingSink{}
	e, db := loadedExplorer(t, sink, WithMaxLoaded(1))

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	db.SetHook(func(_ context.Context, op string) error {
		if op == "files" {
			once.Do(func() {
				close(started)
				<-release
			})
		}
		return nil
	})

	first := backupByID(t, e, 2)
	second := backupByID(t, e, 4)
	secondTree := second.FileTree()

	e.Select(first)

	ctx, cancel := context.WithCancel(testContext(t))
	done := make(chan error, 1)
	go func() { done <- e.RunLazyLoader(ctx) }()

	<-started
	e.Select(second)
	close(release)

	waitFor(t, "superseded load", func() bool {
		return e.Pending() == nil && first.Materialized()
	})

	cancel()
	<-done

	if sink.lastTree() != secondTree {
		t.Errorf("Expected the display to keep fileset 4, got %v", sink.lastTree())
	}
	if e.Selected() != second {
		t.Errorf("Expected selection to stay on fileset 4, got %v", e.Selected())
	}
}

func TestCompare_ClassifiesAgainstOtherBackup(t *testing.T) {
	sink := &recordingSink{}
	e, _ := loadedExplorer(t, sink, WithMaxLoaded(2))

	left := backupByID(t, e, 4).FileTree()
	right := backupByID(t, e, 3).FileTree()

	if err := e.Compare(testContext(t), left, right); err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	agg := left.Root().Aggregate
	if agg.Files != 2 || agg.SharedFiles != 1 || agg.UniqueFiles != 1 {
		t.Errorf("Unexpected aggregate %+v", agg)
	}
	if agg.SharedSize != 30 || agg.UniqueSize != 5 {
		t.Errorf("Unexpected aggregate sizes %+v", agg)
	}
	if sink.visible {
		t.Error("Expected progress to be hidden after comparison")
	}
}

func TestCompareToAll_DoesNotGrowLedger(t *testing.T) {
	e, _ := loadedExplorer(t, nil, WithMaxLoaded(1))

	left := backupByID(t, e, 4).FileTree()
	if err := e.CompareToAll(testContext(t), left); err != nil {
		t.Fatalf("CompareToAll failed: %v", err)
	}

	shared, _ := left.Find("/data/shared.bin")
	own, _ := left.Find("/data/only-4.bin")
	if shared.Result != data.ResultShared || own.Result != data.ResultUnique {
		t.Errorf("Unexpected results shared=%s own=%s", shared.Result, own.Result)
	}

	if loaded := e.Loaded(); !slices.Equal(loaded, []int64{4}) {
		t.Errorf("Expected ledger [4], got %v", loaded)
	}
	if count := materialized(e); count != 1 {
		t.Errorf("Expected 1 materialized backup, got %d", count)
	}
}

func TestCompareToAll_ExcludesEvictedOwner(t *testing.T) {
	ctx := testContext(t)
	e, _ := loadedExplorer(t, nil, WithMaxLoaded(1))

	owner := backupByID(t, e, 4)
	left := owner.FileTree()
	if left.Owner() != owner {
		t.Fatalf("Expected tree owned by fileset 4, got %v", left.Owner())
	}

	if err := e.EnsureMaterialized(ctx, backupByID(t, e, 3)); err != nil {
		t.Fatalf("EnsureMaterialized failed: %v", err)
	}
	if owner.Materialized() {
		t.Fatal("Expected fileset 4 to be evicted")
	}

	if err := e.CompareToAll(ctx, left); err != nil {
		t.Fatalf("CompareToAll failed: %v", err)
	}

	own, _ := left.Find("/data/only-4.bin")
	if own.Result != data.ResultUnique {
		t.Errorf("Expected only-4.bin unique, got %s", own.Result)
	}
	shared, _ := left.Find("/data/shared.bin")
	if shared.Result != data.ResultShared {
		t.Errorf("Expected shared.bin shared, got %s", shared.Result)
	}
}

func TestFileTree_BackupOfReplacedCatalog(t *testing.T) {
	ctx := testContext(t)
	e, _ := loadedExplorer(t, nil, WithMaxLoaded(1))

	previous := backupByID(t, e, 4)
	if err := e.LoadAll(ctx, testPath); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if previous.Materialized() {
		t.Fatal("Expected reload to evict the previous catalog")
	}

	if _, err := e.FileTree(ctx, previous); !errors.Is(err, ErrNotInCatalog) {
		t.Fatalf("Expected ErrNotInCatalog, got %v", err)
	}
	if previous.Materialized() {
		t.Error("Expected previous backup to stay without tree")
	}

	if err := e.EnsureMaterialized(ctx, backupByID(t, e, 3)); err != nil {
		t.Fatalf("EnsureMaterialized failed: %v", err)
	}
	if count := materialized(e); count != 1 {
		t.Errorf("Expected 1 materialized backup, got %d", count)
	}
	if loaded := e.Loaded(); !slices.Equal(loaded, []int64{3}) {
		t.Errorf("Expected ledger [3], got %v", loaded)
	}
}

func TestSelect_MaterializedClearsPending(t *testing.T) {
	ctx := testContext(t)
	e, _ := loadedExplorer(t, &recordingSink{}, WithMaxLoaded(1))

	unloaded := backupByID(t, e, 1)
	displayed := backupByID(t, e, 4)

	e.Select(unloaded)
	if e.Pending() != unloaded {
		t.Fatalf("Expected fileset 1 pending, got %v", e.Pending())
	}

	e.Select(displayed)
	if e.Pending() != nil {
		t.Fatalf("Expected no pending load, got %v", e.Pending())
	}

	if err := e.lazyLoad(ctx); err != nil {
		t.Fatalf("lazyLoad failed: %v", err)
	}
	if !displayed.Materialized() || unloaded.Materialized() {
		t.Errorf("Expected fileset 4 to stay loaded, ledger %v", e.Loaded())
	}
}

func TestClose_AfterSchedulerCancelled(t *testing.T) {
	db := memory.NewMemoryDatabase()
	db.Register(testPath, testCatalog())

	schedCtx, cancel := context.WithCancel(testContext(t))
	sched, err := scheduler.New(scheduler.WithContext(schedCtx))
	if err != nil {
		t.Fatalf("scheduler.New failed: %v", err)
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	e, err := New(db, sched, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := e.LoadAll(testContext(t), testPath); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	cancel()
	if err := e.Close(testContext(t)); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := db.GetVersion(testContext(t)); err == nil {
		t.Error("Expected database to be closed")
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New(memory.NewMemoryDatabase(), nil, nil, WithMaxLoaded(0)); !errors.Is(err, ErrInvalidMaxLoaded) {
		t.Errorf("Expected ErrInvalidMaxLoaded, got %v", err)
	}
	if _, err := New(memory.NewMemoryDatabase(), nil, nil, WithPollInterval(0)); !errors.Is(err, ErrInvalidPollInterval) {
		t.Errorf("Expected ErrInvalidPollInterval, got %v", err)
	}
}
