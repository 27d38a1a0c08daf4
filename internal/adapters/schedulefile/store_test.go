package schedulefile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

var storeNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), time.Second)
}

func testRecord(t *testing.T, workItem string) *domain.ScheduleRecord {
	t.Helper()
	rec, err := domain.NewScheduleRecord(workItem, 14, 12, 0, storeNow)
	if err != nil {
		t.Fatalf("NewScheduleRecord: %v", err)
	}
	return rec
}

func TestStore_CreateAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := testRecord(t, "Iteration X")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, rec.ScheduleID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.WorkItem != "Iteration X" || got.Status != domain.StatusPlanned {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Adjustments == nil || got.Notes == nil {
		t.Errorf("append-only lists must survive the round trip non-nil")
	}

	current, err := store.Get(ctx, "current")
	if err != nil {
		t.Fatalf("Get(current): %v", err)
	}
	if current.ScheduleID != rec.ScheduleID {
		t.Errorf("current resolved to %q", current.ScheduleID)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := testStore(t)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Current(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty store, got %v", err)
	}
}

func TestStore_CreateRejectsSecondActive(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testRecord(t, "Iteration X")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := store.Create(ctx, testRecord(t, "Iteration X"))
	if !errors.Is(err, domain.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}

	// A different work item is fine, but then "current" is ambiguous.
	if err := store.Create(ctx, testRecord(t, "Other Work")); err != nil {
		t.Fatalf("Create other work item: %v", err)
	}
	if _, err := store.Current(ctx); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for ambiguous current, got %v", err)
	}
}

func TestStore_UpdatePersists(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := testRecord(t, "Iteration X")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update(ctx, rec.ScheduleID, func(r *domain.ScheduleRecord) error {
		return r.RecordSessionComplete(90*time.Minute, storeNow)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Progress.SessionsCompleted != 1 {
		t.Errorf("expected 1 session in returned record, got %d", updated.Progress.SessionsCompleted)
	}

	got, err := store.Get(ctx, rec.ScheduleID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Progress.SessionsCompleted != 1 || got.Status != domain.StatusInProgress {
		t.Errorf("update not persisted: %+v", got.Progress)
	}
}

func TestStore_UpdateFailureLeavesFileUntouched(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := testRecord(t, "Iteration X")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	boom := errors.New("boom")
	if _, err := store.Update(ctx, rec.ScheduleID, func(r *domain.ScheduleRecord) error {
		r.Progress.SessionsCompleted = 99
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected apply error, got %v", err)
	}

	got, err := store.Get(ctx, rec.ScheduleID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Progress.SessionsCompleted != 0 {
		t.Errorf("failed update leaked to disk: %+v", got.Progress)
	}
}

func TestStore_CompleteArchives(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := testRecord(t, "Iteration X")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Update(ctx, rec.ScheduleID, func(r *domain.ScheduleRecord) error {
		return r.Complete(storeNow)
	}); err != nil {
		t.Fatalf("Update(complete): %v", err)
	}

	// Active file is gone, history holds the record, and Get still works.
	if _, err := os.Stat(filepath.Join(store.dir, rec.ScheduleID+".json")); !os.IsNotExist(err) {
		t.Errorf("active file should be removed after completion")
	}
	got, err := store.Get(ctx, rec.ScheduleID)
	if err != nil {
		t.Fatalf("Get archived: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Errorf("expected completed record in history, got %q", got.Status)
	}
	if _, err := store.Current(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("completed schedule must not be current, got %v", err)
	}

	// Progress mutations against the archived record fail with the
	// lifecycle error and change nothing.
	if _, err := store.Update(ctx, rec.ScheduleID, func(r *domain.ScheduleRecord) error {
		return r.RecordSessionComplete(time.Hour, storeNow)
	}); !errors.Is(err, domain.ErrScheduleCompleted) {
		t.Fatalf("expected ErrScheduleCompleted, got %v", err)
	}
}

func TestStore_LockTimeout(t *testing.T) {
	store := New(t.TempDir(), 150*time.Millisecond)
	ctx := context.Background()

	rec := testRecord(t, "Iteration X")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Hold the store lock from the outside so the update's bounded wait
	// expires.
	fl := flock.New(filepath.Join(store.dir, lockFile))
	if err := fl.Lock(); err != nil {
		t.Fatalf("acquire external lock: %v", err)
	}
	defer fl.Unlock()

	_, err := store.Update(ctx, rec.ScheduleID, func(r *domain.ScheduleRecord) error {
		return r.RecordSessionComplete(time.Hour, storeNow)
	})
	if !errors.Is(err, domain.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}
}

func TestStore_ConcurrentUpdatesSerialized(t *testing.T) {
	store := New(t.TempDir(), 5*time.Second)
	ctx := context.Background()

	rec := testRecord(t, "Iteration X")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, rec.ScheduleID, func(r *domain.ScheduleRecord) error {
				return r.RecordSessionComplete(time.Hour, storeNow)
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrConcurrentUpdate):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := store.Get(ctx, rec.ScheduleID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Either both updates serialized or one lost the lock; the count must
	// match the number of successes exactly, never fewer.
	if got.Progress.SessionsCompleted != succeeded {
		t.Errorf("expected %d booked sessions, got %d", succeeded, got.Progress.SessionsCompleted)
	}
	if succeeded == 0 {
		t.Error("at least one concurrent update must succeed")
	}
}
