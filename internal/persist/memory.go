package persist

// memoryBackend keeps the most recent Snapshot in a process-local variable;
// it is the default (non-durable) backend selected by config.Storage
// {Backend: "memory"} — spec.md's Non-goals explicitly exclude
// persistent-by-default storage, so a from-scratch kernel never touches
// disk unless the operator opts into "sqlite" or "neo4j".
type memoryBackend struct {
	snapshot Snapshot
	has      bool
}

// OpenMemory returns a Backend that holds the snapshot in memory only,
// for the "memory" storage backend and for tests.
func OpenMemory() Backend {
	return &memoryBackend{}
}

func (b *memoryBackend) Save(s Snapshot) error {
	b.snapshot = s
	b.has = true
	return nil
}

func (b *memoryBackend) Load() (Snapshot, error) {
	if !b.has {
		return Snapshot{}, nil
	}
	return b.snapshot, nil
}

func (b *memoryBackend) Close() error { return nil }
