package telemetry

import "sync"

// Repository stores field events
type Repository interface {
	RecordEvent(e Event) (Event, error)
	GetEvents(sinceTurn int, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository keeps events in memory; sessions use one by default
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
	}
}

// RecordEvent assigns the next sequence id and returns the stored event.
func (r *MemoryRepository) RecordEvent(e Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = r.nextID
	r.events = append(r.events, e)
	r.nextID++

	return e, nil
}

func (r *MemoryRepository) GetEvents(sinceTurn int, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Turn < sinceTurn {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1

	return nil
}
