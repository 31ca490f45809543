package event

import "sort"

// Registry holds event records by id.
type Registry struct {
	events map[ID]Event
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{events: make(map[ID]Event)}
}

// Get returns the event with id.
func (r *Registry) Get(id ID) (Event, bool) {
	e, ok := r.events[id]
	return e, ok
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id ID) bool {
	_, ok := r.events[id]
	return ok
}

// Put stores e, replacing any record with the same id.
func (r *Registry) Put(e Event) {
	r.events[e.ID] = e
}

// MaxSupply returns the cap of id, or 0 for unknown ids.
func (r *Registry) MaxSupply(id ID) uint64 {
	e, ok := r.events[id]
	if !ok {
		return 0
	}
	return e.MaxSupply.Value()
}

// TotalSupply returns the live token count of id, or 0 for unknown ids.
func (r *Registry) TotalSupply(id ID) uint64 {
	return r.events[id].TotalSupply
}

// Len returns the number of events.
func (r *Registry) Len() int {
	return len(r.events)
}

// All returns every event ordered by id.
func (r *Registry) All() []Event {
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
