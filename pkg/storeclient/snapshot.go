package storeclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Snapshot is the durably persisted view of the mirror. Only confirmed
// state is ever written; an optimistic mutation that later rolls back never
// reaches the store.
type Snapshot struct {
	Cart     map[string]map[string]int `json:"cart"`
	Wishlist []string                  `json:"wishlist"`
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Cart:     map[string]map[string]int{},
		Wishlist: []string{},
	}
}

func (s *Snapshot) clone() *Snapshot {
	out := emptySnapshot()
	for productID, sizes := range s.Cart {
		out.Cart[productID] = make(map[string]int, len(sizes))
		for size, qty := range sizes {
			out.Cart[productID][size] = qty
		}
	}
	out.Wishlist = append(out.Wishlist[:0], s.Wishlist...)
	return out
}

// SnapshotStore persists the last confirmed snapshot across restarts.
type SnapshotStore interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

// FileSnapshotStore keeps the snapshot in a single JSON file, written
// atomically via rename.
type FileSnapshotStore struct {
	mu   sync.Mutex
	path string
}

func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path}
}

func (f *FileSnapshotStore) Load() (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emptySnapshot(), nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	snapshot := emptySnapshot()
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Cart == nil {
		snapshot.Cart = map[string]map[string]int{}
	}
	return snapshot, nil
}

func (f *FileSnapshotStore) Save(snapshot *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// MemorySnapshotStore is the in-memory store used when durability is not
// wanted.
type MemorySnapshotStore struct {
	mu       sync.Mutex
	snapshot *Snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snapshot: emptySnapshot()}
}

func (m *MemorySnapshotStore) Load() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.clone(), nil
}

func (m *MemorySnapshotStore) Save(snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot.clone()
	return nil
}
