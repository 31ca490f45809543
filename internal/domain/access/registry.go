package access

import (
	"sort"

	"github.com/rpggio/attest/internal/domain/event"
)

// Registry holds the admin set and the per-event minter sets.
//
// IsEventMinter answers only for explicit event minters. Admin bypass is the
// caller's decision (see IsAdminOrEventMinter).
type Registry struct {
	admins  map[Principal]struct{}
	minters map[event.ID]map[Principal]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		admins:  make(map[Principal]struct{}),
		minters: make(map[event.ID]map[Principal]struct{}),
	}
}

func (r *Registry) IsAdmin(p Principal) bool {
	_, ok := r.admins[p]
	return ok
}

func (r *Registry) IsEventMinter(id event.ID, p Principal) bool {
	_, ok := r.minters[id][p]
	return ok
}

// IsAdminOrEventMinter is the mint authorization predicate for one event.
func (r *Registry) IsAdminOrEventMinter(id event.ID, p Principal) bool {
	return r.IsAdmin(p) || r.IsEventMinter(id, p)
}

// RequireAdmin returns ErrNotAdmin unless p is an admin.
func (r *Registry) RequireAdmin(p Principal) error {
	if !r.IsAdmin(p) {
		return ErrNotAdmin
	}
	return nil
}

// SetAdmin grants or revokes admin standing.
func (r *Registry) SetAdmin(p Principal, granted bool) {
	if granted {
		r.admins[p] = struct{}{}
		return
	}
	delete(r.admins, p)
}

// SetEventMinter grants or revokes minter standing for one event.
func (r *Registry) SetEventMinter(id event.ID, p Principal, granted bool) {
	set := r.minters[id]
	if granted {
		if set == nil {
			set = make(map[Principal]struct{})
			r.minters[id] = set
		}
		set[p] = struct{}{}
		return
	}
	delete(set, p)
	if len(set) == 0 {
		delete(r.minters, id)
	}
}

// Admins returns the admin set in sorted order.
func (r *Registry) Admins() []Principal {
	return sortedKeys(r.admins)
}

// EventMinters returns the minters of id in sorted order.
func (r *Registry) EventMinters(id event.ID) []Principal {
	return sortedKeys(r.minters[id])
}

// MinterEvents returns every event id with at least one minter.
func (r *Registry) MinterEvents() []event.ID {
	ids := make([]event.ID, 0, len(r.minters))
	for id := range r.minters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedKeys(set map[Principal]struct{}) []Principal {
	out := make([]Principal, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
