// Package view holds the client-side state behind each screen: the feed,
// a post's comment thread and a profile's follow graph.
//
// View models never refetch by hand after a mutation. They call
// Invalidator.Invalidate for the entity they changed and every registered
// loader for that entity runs.
package view

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Entity is a kind of server data that views cache
type Entity string

const (
	EntitySkills   Entity = "skills"
	EntityComments Entity = "comments"
	EntityProfile  Entity = "profile"
	EntityFollows  Entity = "follows"
)

// Reloader refetches an entity into a view
type Reloader func(ctx context.Context) error

// Invalidator dispatches reloads by entity
type Invalidator struct {
	mu     sync.Mutex
	nextID int
	subs   map[Entity]map[int]Reloader
}

// NewInvalidator creates an empty registry
func NewInvalidator() *Invalidator {
	return &Invalidator{subs: make(map[Entity]map[int]Reloader)}
}

// Register adds a reloader and returns a func that removes it
func (inv *Invalidator) Register(entity Entity, reload Reloader) (unregister func()) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.nextID++
	id := inv.nextID
	if inv.subs[entity] == nil {
		inv.subs[entity] = make(map[int]Reloader)
	}
	inv.subs[entity][id] = reload

	var once sync.Once
	return func() {
		once.Do(func() {
			inv.mu.Lock()
			defer inv.mu.Unlock()
			delete(inv.subs[entity], id)
		})
	}
}

// Invalidate runs every reloader registered for entity in registration
// order and joins their errors
func (inv *Invalidator) Invalidate(ctx context.Context, entity Entity) error {
	inv.mu.Lock()
	ids := make([]int, 0, len(inv.subs[entity]))
	for id := range inv.subs[entity] {
		ids = append(ids, id)
	}
	reloads := make([]Reloader, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		reloads = append(reloads, inv.subs[entity][id])
	}
	inv.mu.Unlock()

	var errs []error
	for _, reload := range reloads {
		if err := reload(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of reloaders registered for entity
func (inv *Invalidator) Count(entity Entity) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.subs[entity])
}
