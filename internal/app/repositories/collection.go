package repositories

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// NewID returns a time ordered unique id
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Collection is the in-memory working copy of one persisted collection.
// Every mutator writes the whole collection through to the store before returning.
// Collections are not safe for concurrent use; the portal serializes access.
type Collection[T models.Entity] struct {
	key   string
	store *kvstore.Store
	items []T
}

// LoadCollection reads key from store, starting empty when absent or corrupt
func LoadCollection[T models.Entity](ctx context.Context, store *kvstore.Store, key string) *Collection[T] {
	items := kvstore.Load(ctx, store, key, []T{})
	if items == nil {
		items = []T{}
	}
	return &Collection[T]{key: key, store: store, items: items}
}

// All returns a copy of the items in stored order
func (c *Collection[T]) All() []T {
	return slices.Clone(c.items)
}

// Len returns the number of items
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// ByID returns the item with id
func (c *Collection[T]) ByID(id string) (T, bool) {
	return c.Find(func(item T) bool { return item.EntityID() == id })
}

// Find returns the first item matching pred
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the items matching pred, in order
func (c *Collection[T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Prepend inserts item at the front (newest first collections)
func (c *Collection[T]) Prepend(ctx context.Context, item T) {
	c.items = append([]T{item}, c.items...)
	c.save(ctx)
}

// Append inserts item at the end
func (c *Collection[T]) Append(ctx context.Context, item T) {
	c.items = append(c.items, item)
	c.save(ctx)
}

// Update applies fn to the item with id. Unknown ids are a no-op returning false.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T)) (T, bool) {
	for i := range c.items {
		if c.items[i].EntityID() == id {
			fn(&c.items[i])
			c.save(ctx)
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// UpdateMany applies fn to every item with one of ids and saves once.
// It returns false, changing nothing, unless all ids exist.
func (c *Collection[T]) UpdateMany(ctx context.Context, ids []string, fn func(map[string]*T)) bool {
	found := make(map[string]*T, len(ids))
	for i := range c.items {
		id := c.items[i].EntityID()
		if slices.Contains(ids, id) {
			found[id] = &c.items[i]
		}
	}
	if len(found) != len(ids) {
		return false
	}
	fn(found)
	c.save(ctx)
	return true
}

// Delete removes the item with id
func (c *Collection[T]) Delete(ctx context.Context, id string) bool {
	idx := slices.IndexFunc(c.items, func(item T) bool { return item.EntityID() == id })
	if idx < 0 {
		return false
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	c.save(ctx)
	return true
}

// Replace swaps the whole collection
func (c *Collection[T]) Replace(ctx context.Context, items []T) {
	c.items = slices.Clone(items)
	if c.items == nil {
		c.items = []T{}
	}
	c.save(ctx)
}

// Retain drops items failing keep from the working copy only; storage is untouched.
// It returns how many items were dropped.
func (c *Collection[T]) Retain(keep func(T) bool) int {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(item T) bool { return !keep(item) })
	return before - len(c.items)
}

func (c *Collection[T]) save(ctx context.Context) {
	c.store.Save(ctx, c.key, c.items)
}

// containsMember reports whether id is in set
func containsMember(set []string, id string) bool {
	return slices.Contains(set, id)
}

// toggleMember returns a new set with id added if absent or removed if present.
// added reports which of the two happened.
func toggleMember(set []string, id string) (next []string, added bool) {
	if containsMember(set, id) {
		return removeMember(set, id), false
	}
	return addMember(set, id), true
}

// addMember returns a new set containing id exactly once
func addMember(set []string, id string) []string {
	next := slices.Clone(set)
	if next == nil {
		next = []string{}
	}
	if !containsMember(next, id) {
		next = append(next, id)
	}
	return next
}

// removeMember returns a new set without id
func removeMember(set []string, id string) []string {
	next := make([]string, 0, len(set))
	for _, m := range set {
		if m != id {
			next = append(next, m)
		}
	}
	return next
}
