// Package store provides the presented-notice history.
package store

import (
	"sort"
	"sync"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// ChangeType indicates the type of store change.
type ChangeType int

const (
	// ChangeTypeAdd indicates a notice was added.
	ChangeTypeAdd ChangeType = iota
	// ChangeTypeUpdate indicates a notice was updated.
	ChangeTypeUpdate
	// ChangeTypeDelete indicates a notice was deleted.
	ChangeTypeDelete
	// ChangeTypePrune indicates old notices were pruned.
	ChangeTypePrune
	// ChangeTypeClear indicates all notices were cleared.
	ChangeTypeClear
	// ChangeTypeReload indicates the store was rehydrated from disk.
	ChangeTypeReload
)

// ChangeEvent signals store content changes.
type ChangeEvent struct {
	Type  ChangeType
	Count int
	ID    string
}

// Store manages the notice history with thread-safe operations.
type Store struct {
	mu      sync.RWMutex
	notices []model.Notice
	index   map[string]int // id -> slice index

	persistence Persistence

	subscribers []chan ChangeEvent
	closed      bool
}

// NewStore creates a new Store.
// If persistence is not nil, it will be used to persist notices.
func NewStore(persistence Persistence) *Store {
	return &Store{
		notices:     make([]model.Notice, 0),
		index:       make(map[string]int),
		persistence: persistence,
	}
}

// Add records a notice. Adding an existing ID updates it instead.
func (s *Store) Add(n model.Notice) error {
	if err := n.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	changeType := ChangeTypeAdd
	if idx, exists := s.index[n.ID]; exists {
		s.notices[idx] = n
		changeType = ChangeTypeUpdate
	} else {
		s.index[n.ID] = len(s.notices)
		s.notices = append(s.notices, n)
	}

	if s.persistence != nil {
		if err := s.persistence.Append(n); err != nil {
			return err
		}
	}

	s.notifyChange(ChangeEvent{Type: changeType, Count: 1, ID: n.ID})
	return nil
}

// Update replaces an existing notice.
func (s *Store) Update(n model.Notice) error {
	s.mu.RLock()
	_, exists := s.index[n.ID]
	s.mu.RUnlock()

	if !exists {
		return ErrNotFound
	}
	return s.Add(n)
}

// All returns every notice, most recent first.
func (s *Store) All() []model.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Notice, len(s.notices))
	copy(result, s.notices)
	sortRecentFirst(result)
	return result
}

// Recent returns up to limit notices, most recent first. A limit of 0
// returns everything.
func (s *Store) Recent(limit int) []model.Notice {
	all := s.All()
	if limit > 0 && len(all) > limit {
		return all[:limit]
	}
	return all
}

// Get returns a copy of the notice with the given ID, or nil.
func (s *Store) Get(id string) *model.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx, ok := s.index[id]; ok {
		n := s.notices[idx]
		return &n
	}
	return nil
}

// Delete removes a notice by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	idx, exists := s.index[id]
	if !exists {
		return ErrNotFound
	}

	s.notices = append(s.notices[:idx], s.notices[idx+1:]...)
	s.reindexLocked()

	if err := s.rewriteLocked(); err != nil {
		return err
	}

	s.notifyChange(ChangeEvent{Type: ChangeTypeDelete, Count: 1, ID: id})
	return nil
}

// Prune keeps only the keep most recent notices and returns how many were
// removed. A keep of 0 is a no-op.
func (s *Store) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}
	if len(s.notices) <= keep {
		return 0, nil
	}

	sorted := make([]model.Notice, len(s.notices))
	copy(sorted, s.notices)
	sortRecentFirst(sorted)

	removed := len(sorted) - keep
	kept := sorted[:keep]
	// Store oldest first, matching append order
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	s.notices = kept
	s.reindexLocked()

	if err := s.rewriteLocked(); err != nil {
		return 0, err
	}

	s.notifyChange(ChangeEvent{Type: ChangeTypePrune, Count: removed})
	return removed, nil
}

// Clear removes all notices from the store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	count := len(s.notices)
	s.notices = make([]model.Notice, 0)
	s.index = make(map[string]int)

	if s.persistence != nil {
		if err := s.persistence.Clear(); err != nil {
			return err
		}
	}

	s.notifyChange(ChangeEvent{Type: ChangeTypeClear, Count: count})
	return nil
}

// Count returns the number of notices.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notices)
}

// Hydrate replaces the in-memory history with the persisted one.
func (s *Store) Hydrate() error {
	if s.persistence == nil {
		return nil
	}

	notices, err := s.persistence.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	s.notices = notices
	if s.notices == nil {
		s.notices = make([]model.Notice, 0)
	}
	s.reindexLocked()

	s.notifyChange(ChangeEvent{Type: ChangeTypeReload, Count: len(s.notices)})
	return nil
}

// Subscribe returns a channel that receives change events.
func (s *Store) Subscribe() <-chan ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ChangeEvent, 10)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription.
func (s *Store) Unsubscribe(ch <-chan ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close releases resources and closes all subscriber channels.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil

	if s.persistence != nil {
		return s.persistence.Close()
	}
	return nil
}

func (s *Store) reindexLocked() {
	s.index = make(map[string]int, len(s.notices))
	for i, n := range s.notices {
		s.index[n.ID] = i
	}
}

func (s *Store) rewriteLocked() error {
	if s.persistence == nil {
		return nil
	}
	return s.persistence.Rewrite(s.notices)
}

// notifyChange sends a change event to all subscribers (non-blocking).
func (s *Store) notifyChange(event ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// sortRecentFirst orders by presentation time, falling back to creation
// time; ULIDs break ties.
func sortRecentFirst(ns []model.Notice) {
	sort.SliceStable(ns, func(i, j int) bool {
		ti, tj := lastActive(ns[i]), lastActive(ns[j])
		if ti != tj {
			return ti > tj
		}
		return ns[i].ID > ns[j].ID
	})
}

func lastActive(n model.Notice) int64 {
	if n.PresentedAt > n.CreatedAt {
		return n.PresentedAt
	}
	return n.CreatedAt
}

// Errors
var (
	ErrStoreClosed = storeError("store is closed")
	ErrNotFound    = storeError("notice not found")
)

type storeError string

func (e storeError) Error() string {
	return string(e)
}
