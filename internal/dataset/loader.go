package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"flightdash/internal/domain"
)

// Snapshot is one immutable load of the dataset. The table must not be
// mutated after the snapshot is published.
type Snapshot struct {
	ID        string       `json:"id"`
	SourceKey string       `json:"source_key"`
	LoadedAt  time.Time    `json:"loaded_at"`
	Table     domain.Table `json:"-"`
}

// Loader memoizes dataset fetches per source key for the life of the process.
// There is no automatic refresh; a stale table is invalidated by restarting.
type Loader struct {
	source Source

	mu        sync.Mutex
	snapshots map[string]*Snapshot
}

func NewLoader(source Source) *Loader {
	return &Loader{
		source:    source,
		snapshots: make(map[string]*Snapshot),
	}
}

// Load returns the cached snapshot for the loader's source, fetching it on
// first use. Safe for concurrent callers; a failed fetch is not cached.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := l.source.Key()
	if snap, ok := l.snapshots[key]; ok {
		return snap, nil
	}

	table, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset from %s: %w", key, err)
	}

	snap := &Snapshot{
		ID:        uuid.NewString(),
		SourceKey: key,
		LoadedAt:  time.Now(),
		Table:     table,
	}
	l.snapshots[key] = snap
	return snap, nil
}
