// Package schedulefile persists schedule records as JSON files, one per
// record, with an advisory lock serializing read-modify-write cycles and
// atomic write-then-rename so concurrent readers never see a torn record.
package schedulefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

const (
	historyDir  = "history"
	lockFile    = ".lock"
	lockRetry   = 50 * time.Millisecond
	recordPerm  = 0o644
	defaultWait = 3 * time.Second
)

// Store is a file-backed schedule store. Completed records are archived to
// a history subdirectory but remain readable through Get.
type Store struct {
	dir         string
	lockTimeout time.Duration
}

// New creates a store rooted at dir. A non-positive lockTimeout falls back
// to the default bounded wait.
func New(dir string, lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = defaultWait
	}
	return &Store{dir: dir, lockTimeout: lockTimeout}
}

// Create stores a new record, enforcing at most one non-completed record
// per work item.
func (s *Store) Create(ctx context.Context, record *domain.ScheduleRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create schedule dir: %w", err)
	}

	release, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer release()

	active, err := s.listActive()
	if err != nil {
		return err
	}
	for _, existing := range active {
		if existing.WorkItem == record.WorkItem || existing.ScheduleID == record.ScheduleID {
			return fmt.Errorf("%w: %q (schedule %s)", domain.ErrAlreadyActive, existing.WorkItem, existing.ScheduleID)
		}
	}

	return s.writeAtomic(s.recordPath(record.ScheduleID), record)
}

// Get resolves a schedule ID, or "current" for the single active record.
// Archived records are found in history.
func (s *Store) Get(ctx context.Context, id string) (*domain.ScheduleRecord, error) {
	if id == "" || id == "current" {
		return s.Current(ctx)
	}

	record, err := s.read(s.recordPath(id))
	if err == nil {
		return record, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	record, err = s.read(filepath.Join(s.dir, historyDir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: schedule %q", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return record, nil
}

// Current returns the single active (non-completed) record. With several
// work items in flight the caller must name an explicit schedule ID.
func (s *Store) Current(_ context.Context) (*domain.ScheduleRecord, error) {
	active, err := s.listActive()
	if err != nil {
		return nil, err
	}
	switch len(active) {
	case 0:
		return nil, fmt.Errorf("%w: no active schedule", domain.ErrNotFound)
	case 1:
		return active[0], nil
	default:
		ids := make([]string, len(active))
		for i, rec := range active {
			ids[i] = rec.ScheduleID
		}
		return nil, fmt.Errorf("%w: %d active schedules (%s), specify one", domain.ErrInvalidInput, len(active), strings.Join(ids, ", "))
	}
}

// Update applies a mutation under the store lock. When apply fails the
// persisted record is untouched; when it completes the record, the file is
// archived to history.
func (s *Store) Update(ctx context.Context, id string, apply func(*domain.ScheduleRecord) error) (*domain.ScheduleRecord, error) {
	release, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := record.Status != domain.StatusCompleted

	if err := apply(record); err != nil {
		return nil, err
	}

	if wasActive && record.Status == domain.StatusCompleted {
		if err := s.archive(record); err != nil {
			return nil, err
		}
		return record, nil
	}

	if err := s.writeAtomic(s.recordPath(record.ScheduleID), record); err != nil {
		return nil, err
	}
	return record, nil
}

// archive writes the completed record to history and removes it from the
// active directory.
func (s *Store) archive(record *domain.ScheduleRecord) error {
	dir := filepath.Join(s.dir, historyDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := s.writeAtomic(filepath.Join(dir, record.ScheduleID+".json"), record); err != nil {
		return err
	}
	if err := os.Remove(s.recordPath(record.ScheduleID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove archived schedule: %w", err)
	}
	return nil
}

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// acquireLock takes the advisory store lock with a bounded wait. Timing
// out surfaces ErrConcurrentUpdate instead of hanging.
func (s *Store) acquireLock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create schedule dir: %w", err)
	}

	fl := flock.New(filepath.Join(s.dir, lockFile))
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	ok, err := fl.TryLockContext(lockCtx, lockRetry)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("acquire schedule lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: lock held for more than %s", domain.ErrConcurrentUpdate, s.lockTimeout)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: release schedule lock: %v\n", err)
		}
	}, nil
}

// listActive reads all non-completed records in the active directory.
func (s *Store) listActive() ([]*domain.ScheduleRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read schedule dir: %w", err)
	}

	var active []*domain.ScheduleRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		record, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if record.Status != domain.StatusCompleted {
			active = append(active, record)
		}
	}
	return active, nil
}

func (s *Store) read(path string) (*domain.ScheduleRecord, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	record := &domain.ScheduleRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", filepath.Base(path), err)
	}
	return record, nil
}

// writeAtomic marshals the record to a temp file in the target directory
// and renames it into place, so readers observe either the old or the new
// record, never a partial write.
func (s *Store) writeAtomic(path string, record *domain.ScheduleRecord) error {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp schedule file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write schedule: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close schedule file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), recordPerm); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod schedule file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename schedule file: %w", err)
	}
	return nil
}
