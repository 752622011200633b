// Package persistence provides an in-memory repository for local development
// and handler tests.
package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jtylerm/PTExerciseApp/internal/domain"
)

// InMemoryRepository stores exercise records in memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]domain.ExerciseRecord
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:  1,
		records: make(map[int64]domain.ExerciseRecord),
	}
}

// List implements domain.Repository.
func (r *InMemoryRepository) List(ctx context.Context, filter domain.Filter) ([]domain.ExerciseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.ExerciseRecord, 0, len(r.records))
	for _, record := range r.records {
		if matches(record, filter) {
			matched = append(matched, record)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	out := make([]domain.ExerciseRecord, len(matched))
	copy(out, matched)
	return out, nil
}

func matches(record domain.ExerciseRecord, filter domain.Filter) bool {
	if filter.Search != "" && !strings.Contains(strings.ToLower(record.Name), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.Type != "" && record.Type != filter.Type {
		return false
	}
	if filter.Muscle != "" && record.Muscle != filter.Muscle {
		return false
	}
	if filter.Equipment != "" && record.Equipment != filter.Equipment {
		return false
	}
	if filter.Difficulty != "" && record.Difficulty != filter.Difficulty {
		return false
	}
	if filter.Favorited && !record.IsFavorited {
		return false
	}
	return true
}

// Get returns the record by id, or nil when absent.
func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*domain.ExerciseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// FindByName returns the record with the exact name, or nil when absent.
func (r *InMemoryRepository) FindByName(ctx context.Context, name string) (*domain.ExerciseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if record.Name == name {
			match := record
			return &match, nil
		}
	}
	return nil, nil
}

// Create assigns the next surrogate id and stores the record.
func (r *InMemoryRepository) Create(ctx context.Context, record domain.ExerciseRecord) (domain.ExerciseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	r.records[record.ID] = record
	return record, nil
}

// Update replaces the stored record.
func (r *InMemoryRepository) Update(ctx context.Context, record domain.ExerciseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.ID]; !ok {
		return nil
	}
	r.records[record.ID] = record
	return nil
}

// Delete removes the record.
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, id)
	return nil
}

// ToggleFavorite inverts the favorite flag, stamps the modification time, and
// returns the updated record, or nil when the id does not exist.
func (r *InMemoryRepository) ToggleFavorite(ctx context.Context, id int64, at time.Time) (*domain.ExerciseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	record.IsFavorited = !record.IsFavorited
	record.LastUpdated = &at
	r.records[id] = record
	return &record, nil
}
