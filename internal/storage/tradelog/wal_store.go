// Package tradelog persists executed transactions in a WAL so the
// dashboard can stream them. The log is an observability feed only:
// wallet balances live in memory and are never restored from it.
package tradelog

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
	defaultTradeDir   = "./wal/trades"
	tradeSegmentLimit = 1000
	tradeMaxSegments  = 100
	tradeKeyPrefix    = "trade_"
)

// WALStore is a WAL-backed append log of executed transactions.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes the trade log under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultTradeDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "trade_",
		SegmentThreshold: tradeSegmentLimit,
		MaxSegments:      tradeMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init trade WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the transaction to the log.
func (s *WALStore) Save(tx domain.Transaction) error {
	if s == nil || s.wal == nil {
		return errors.New("trade log store is not initialized")
	}
	if tx.ID == "" {
		return fmt.Errorf("transaction id is required")
	}

	payload, err := json.Marshal(tx)
	if err != nil {
		return errors.Wrap(err, "marshal transaction")
	}

	key := fmt.Sprintf("%s%s", tradeKeyPrefix, tx.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// TransactionsAfter returns all transactions written after the
// provided log index.
func (s *WALStore) TransactionsAfter(index uint64) ([]domain.TransactionRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("trade log store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.TransactionRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, tradeKeyPrefix) {
			continue
		}
		var tx domain.Transaction
		if err := json.Unmarshal(payload, &tx); err != nil {
			return nil, errors.Wrap(err, "decode transaction")
		}
		records = append(records, domain.TransactionRecord{
			Index:       idx,
			Transaction: tx,
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
		return errors.New("trade log store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
