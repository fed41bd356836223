// Package runhistory persists per-day ledger snapshots in a WAL so a run's
// history survives the process and can be replayed by external tooling.
package runhistory

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/makersim/internal/domain"
)

const (
	defaultHistoryDir   = "./wal/history"
	historySegmentLimit = 1000
	historyMaxSegments  = 100
	snapshotKeyPrefix   = "day_snapshot_"
)

// WALStore is the logging collaborator of the simulation loop: it records
// each day's snapshot append-only. Emission failures are reported to the
// caller, never fatal to the run.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed history store under the provided
// directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultHistoryDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "day_",
		SegmentThreshold: historySegmentLimit,
		MaxSegments:      historyMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init run history WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Record writes the day's snapshot to WAL. Callers must ensure
// snapshot.RunID is set.
func (s *WALStore) Record(snapshot domain.LedgerSnapshot) error {
	if s == nil || s.wal == nil {
		return errors.New("run history store is not initialized")
	}
	if snapshot.RunID == "" {
		return fmt.Errorf("snapshot run id is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal day snapshot")
	}

	key := fmt.Sprintf("%s%s_%d", snapshotKeyPrefix, snapshot.RunID, snapshot.Day)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// SnapshotsForRun returns all recorded snapshots of the given run, in write
// order.
func (s *WALStore) SnapshotsForRun(runID string) ([]domain.LedgerSnapshot, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("run history store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := snapshotKeyPrefix + runID + "_"
	var snapshots []domain.LedgerSnapshot
	for msg := range s.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, prefix) {
			continue
		}
		var snapshot domain.LedgerSnapshot
		if err := json.Unmarshal(msg.Value, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode day snapshot")
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
