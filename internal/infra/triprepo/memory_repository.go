package triprepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// MemoryRepository keeps saved itineraries in memory for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]itinerary.SavedItinerary
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]itinerary.SavedItinerary)}
}

// Create implements itinerary.Repository.
func (r *MemoryRepository) Create(_ context.Context, it itinerary.SavedItinerary) (itinerary.SavedItinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[it.ID] = it
	return it, nil
}

// Get returns the itinerary only when userID owns it.
func (r *MemoryRepository) Get(_ context.Context, userID, id string) (itinerary.SavedItinerary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.records[id]
	if !ok || it.UserID != userID {
		return itinerary.SavedItinerary{}, false, nil
	}
	return it, true, nil
}

// List returns the user's itineraries, newest first.
func (r *MemoryRepository) List(_ context.Context, userID string) ([]itinerary.SavedItinerary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]itinerary.SavedItinerary, 0)
	for _, it := range r.records {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes the itinerary when userID owns it.
func (r *MemoryRepository) Delete(_ context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.records[id]
	if !ok || it.UserID != userID {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

var _ itinerary.Repository = (*MemoryRepository)(nil)
