package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/pkg/metrics"
)

const defaultShardCount = 8

type shard struct {
	mu      sync.RWMutex
	records map[string]model.EvaluationRecord
}

// MemoryStore keeps records in hash-sharded maps.
type MemoryStore struct {
	shardCount int
	shards     []*shard
	count      atomic.Int64
	closed     atomic.Bool
}

// NewMemoryStore constructs an in-memory store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]model.EvaluationRecord)}
	}
	metrics.UpdateStoreRecords(0)
	return s
}

func (s *MemoryStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))] //nolint:gosec // len(shards) is small and positive
}

// Save implements Store.Save.
func (s *MemoryStore) Save(_ context.Context, rec model.EvaluationRecord) error { //nolint:gocritic // hugeParam: stored by value
	if s.closed.Load() {
		return ErrClosed
	}
	if rec.ID == "" {
		return ErrInvalidID
	}
	start := time.Now()
	sh := s.shardFor(rec.ID)

	sh.mu.Lock()
	_, existed := sh.records[rec.ID]
	sh.records[rec.ID] = rec
	sh.mu.Unlock()

	if !existed {
		metrics.UpdateStoreRecords(int(s.count.Add(1)))
	}
	metrics.RecordStoreWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, id string) (model.EvaluationRecord, error) {
	if s.closed.Load() {
		return model.EvaluationRecord{}, ErrClosed
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreReadLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	sh := s.shardFor(id)
	sh.mu.RLock()
	rec, ok := sh.records[id]
	sh.mu.RUnlock()
	if !ok {
		return model.EvaluationRecord{}, ErrNotFound
	}
	return rec, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	sh := s.shardFor(id)
	sh.mu.Lock()
	_, existed := sh.records[id]
	delete(sh.records, id)
	sh.mu.Unlock()

	if existed {
		metrics.UpdateStoreRecords(int(s.count.Add(-1)))
	}
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	return int(s.count.Load()), nil
}

// Close marks the store closed. Subsequent calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}
