package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithShardCount sets the number of shards the card map is split across.
func WithShardCount(count int) Option {
	return func(s *SnapshotStore) {
		if count > 0 {
			s.shardCount = count
		}
	}
}
