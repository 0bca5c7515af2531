package task

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps tasks in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]Task
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: map[string]Task{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a new task.
func (s *MemoryStore) Create(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; ok {
		return fmt.Errorf("create %s: %w", t.ID, ErrDuplicateTask)
	}
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	s.tasks[t.ID] = t
	return nil
}

// Get retrieves a snapshot of a task by ID.
func (s *MemoryStore) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("get %s: %w", id, ErrTaskNotFound)
	}
	return t, nil
}

// Update merges changes into a task under the write lock.
func (s *MemoryStore) Update(id string, fn func(t *Task)) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("update %s: %w", id, ErrTaskNotFound)
	}
	fn(&t)
	t.ID = id
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return t, nil
}

// Delete removes a task.
func (s *MemoryStore) Delete(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("delete %s: %w", id, ErrTaskNotFound)
	}
	delete(s.tasks, id)
	return t, nil
}

// List returns the most recent tasks first. limit <= 0 returns all of them.
func (s *MemoryStore) List(limit int) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
