package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/blocknest/internal/engine/document"
)

// SnapshotID uniquely identifies a named snapshot.
type SnapshotID string

// NewSnapshotID generates a new unique snapshot ID.
func NewSnapshotID() SnapshotID {
	return SnapshotID(uuid.NewString())
}

// Snapshot is a named checkpoint of the document: text and annotations.
// Snapshots are immutable and can be safely shared across goroutines.
type Snapshot struct {
	ID        SnapshotID
	Name      string
	Timestamp time.Time

	state document.Snapshot
}

// Text returns the text captured by the snapshot.
func (s *Snapshot) Text() string {
	return s.state.Text
}

// AnnotationCount returns the number of captured annotations.
func (s *Snapshot) AnnotationCount() int {
	return len(s.state.Annotations)
}

// Age returns how long ago the snapshot was taken.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.Timestamp)
}

// snapshotManager manages named snapshots.
type snapshotManager struct {
	mu        sync.RWMutex
	snapshots map[SnapshotID]*Snapshot
	byName    map[string]*Snapshot
}

func newSnapshotManager() *snapshotManager {
	return &snapshotManager{
		snapshots: make(map[SnapshotID]*Snapshot),
		byName:    make(map[string]*Snapshot),
	}
}

// create stores state under name. A snapshot with the same name is replaced.
func (sm *snapshotManager) create(name string, state document.Snapshot) SnapshotID {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if existing, ok := sm.byName[name]; ok {
		delete(sm.snapshots, existing.ID)
	}

	snap := &Snapshot{
		ID:        NewSnapshotID(),
		Name:      name,
		Timestamp: time.Now(),
		state:     state,
	}
	sm.snapshots[snap.ID] = snap
	if name != "" {
		sm.byName[name] = snap
	}
	return snap.ID
}

func (sm *snapshotManager) get(id SnapshotID) (*Snapshot, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	snap, ok := sm.snapshots[id]
	return snap, ok
}

func (sm *snapshotManager) getByName(name string) (*Snapshot, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	snap, ok := sm.byName[name]
	return snap, ok
}

func (sm *snapshotManager) delete(id SnapshotID) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if snap, ok := sm.snapshots[id]; ok {
		if snap.Name != "" {
			delete(sm.byName, snap.Name)
		}
		delete(sm.snapshots, id)
	}
}

// list returns all snapshots, oldest first.
func (sm *snapshotManager) list() []*Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	snapshots := make([]*Snapshot, 0, len(sm.snapshots))
	for _, snap := range sm.snapshots {
		snapshots = append(snapshots, snap)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})
	return snapshots
}
