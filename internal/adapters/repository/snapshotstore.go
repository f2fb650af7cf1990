package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dinneroo/zonescore/internal/domain/model"
	"github.com/dinneroo/zonescore/internal/domain/types"
	"github.com/dinneroo/zonescore/pkg/metrics"
)

// defaultShardCount balances write contention against rebuild fan-in for
// populations in the low tens of thousands of entities.
const defaultShardCount = 8

// SnapshotStore implements Store with sharded writes and a lazily rebuilt
// ranking snapshot. Workers write concurrently during a run; the first
// read after the run rebuilds the per-kind rankings once.
type SnapshotStore struct {
	shardCount int
	shards     []*shard

	// snapshot state
	mu        sync.RWMutex
	dirty     atomic.Bool
	ranked    map[model.EntityKind][]types.Scorecard
	rankIndex map[string]int // entityID -> rank within its kind
}

type shard struct {
	mu    sync.RWMutex
	cards map[string]types.Scorecard
}

// NewSnapshotStore creates an empty store with configuration options.
func NewSnapshotStore(_ context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		shardCount: defaultShardCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{cards: make(map[string]types.Scorecard)}
	}
	s.ranked = make(map[model.EntityKind][]types.Scorecard)
	s.rankIndex = make(map[string]int)
	return s
}

func (s *SnapshotStore) shardFor(entityID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// Put stores or replaces the scorecard for an entity.
func (s *SnapshotStore) Put(_ context.Context, card types.Scorecard) error {
	sh := s.shardFor(card.EntityID)
	sh.mu.Lock()
	sh.cards[card.EntityID] = card
	sh.mu.Unlock()
	s.dirty.Store(true)
	return nil
}

// Get returns the scorecard for an entity with its rank filled in.
func (s *SnapshotStore) Get(ctx context.Context, entityID string) (types.Scorecard, error) {
	sh := s.shardFor(entityID)
	sh.mu.RLock()
	card, ok := sh.cards[entityID]
	sh.mu.RUnlock()
	if !ok {
		return types.Scorecard{}, ErrNotFound
	}

	s.refresh(ctx)
	s.mu.RLock()
	card.Rank = s.rankIndex[entityID]
	s.mu.RUnlock()
	return card, nil
}

// TopN returns the top-N scorecards of a kind ordered by composite desc.
func (s *SnapshotStore) TopN(ctx context.Context, kind model.EntityKind, n int) ([]types.Scorecard, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.refresh(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	ranked := s.ranked[kind]
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]types.Scorecard, n)
	copy(out, ranked[:n])
	return out, nil
}

// Count returns the number of entities tracked.
func (s *SnapshotStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.cards)
		sh.mu.RUnlock()
	}
	return total
}

// Reset clears the store ahead of a fresh run.
func (s *SnapshotStore) Reset(_ context.Context) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.cards = make(map[string]types.Scorecard)
		sh.mu.Unlock()
	}
	s.mu.Lock()
	s.ranked = make(map[model.EntityKind][]types.Scorecard)
	s.rankIndex = make(map[string]int)
	s.mu.Unlock()
	s.dirty.Store(false)
	metrics.UpdateEntitiesTracked(0)
}

// refresh rebuilds the ranking snapshot if any write happened since the
// last rebuild. Ordering is composite desc, entity id asc on ties, so
// rankings are deterministic run over run.
func (s *SnapshotStore) refresh(_ context.Context) {
	if !s.dirty.Swap(false) {
		return
	}
	start := time.Now()

	byKind := make(map[model.EntityKind][]types.Scorecard)
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, card := range sh.cards {
			kind := model.EntityKind(card.EntityKind)
			byKind[kind] = append(byKind[kind], card)
			total++
		}
		sh.mu.RUnlock()
	}

	rankIndex := make(map[string]int, total)
	for kind, cards := range byKind {
		sort.Slice(cards, func(i, j int) bool {
			if cards[i].Composite != cards[j].Composite {
				return cards[i].Composite > cards[j].Composite
			}
			return cards[i].EntityID < cards[j].EntityID
		})
		for i := range cards {
			cards[i].Rank = i + 1
			rankIndex[cards[i].EntityID] = i + 1
		}
		byKind[kind] = cards
	}

	s.mu.Lock()
	s.ranked = byKind
	s.rankIndex = rankIndex
	s.mu.Unlock()

	metrics.UpdateEntitiesTracked(total)
	metrics.RecordSnapshotRebuild(float64(time.Since(start).Milliseconds()))
}
