// Package advisories persists resolved advisory events for streaming.
package advisories

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultAdvisoryDir   = "./wal/advisories"
	advisorySegmentLimit = 1000
	advisoryMaxSegments  = 100
	advisoryKeyPrefix    = "advisory_"
)

// WALStore is a WAL-backed append log of advisory events.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes the advisory log under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultAdvisoryDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "advisory_",
		SegmentThreshold: advisorySegmentLimit,
		MaxSegments:      advisoryMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init advisory WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the advisory event to the log.
func (s *WALStore) Save(event domain.AdvisoryEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("advisory store is not initialized")
	}
	if event.Kind == "" {
		return fmt.Errorf("advisory event kind is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal advisory event")
	}

	key := fmt.Sprintf("%s%s", advisoryKeyPrefix, event.Kind)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EventsAfter returns all advisory events written after the provided
// log index.
func (s *WALStore) EventsAfter(index uint64) ([]domain.AdvisoryEventRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("advisory store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.AdvisoryEventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, advisoryKeyPrefix) {
			continue
		}
		var event domain.AdvisoryEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode advisory event")
		}
		records = append(records, domain.AdvisoryEventRecord{
			Index: idx,
			Event: event,
		})
	}

	return records, nil
}

// CurrentIndex returns the latest log index stored.
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
		return errors.New("advisory store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
