package physics

import (
	"github.com/elliotchance/orderedmap/v2"
)

type entry[T any] struct {
	handle Handle
	value  T
}

// registry keeps values in registration order behind generational handles.
// Mutations made while a cycle is iterating are deferred: additions wait in
// pending, removals are hidden immediately and dropped at flush.
type registry[T any] struct {
	handles handleStore
	items   *orderedmap.OrderedMap[Handle, T]
	pending []entry[T]
	dead    map[Handle]struct{}
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{
		items: orderedmap.NewOrderedMap[Handle, T](),
		dead:  make(map[Handle]struct{}),
	}
}

func (r *registry[T]) add(v T, deferred bool) Handle {
	h := r.handles.create()
	if deferred {
		r.pending = append(r.pending, entry[T]{handle: h, value: v})
		return h
	}
	r.items.Set(h, v)
	return h
}

func (r *registry[T]) remove(h Handle, deferred bool) (T, error) {
	var zero T
	if !r.handles.isAlive(h) {
		return zero, ErrStaleHandle
	}
	for i, e := range r.pending {
		if e.handle == h {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			r.handles.destroy(h)
			return e.value, nil
		}
	}
	v, ok := r.items.Get(h)
	if !ok {
		return zero, ErrStaleHandle
	}
	r.handles.destroy(h)
	if deferred {
		r.dead[h] = struct{}{}
		return v, nil
	}
	r.items.Delete(h)
	return v, nil
}

func (r *registry[T]) live(h Handle) bool {
	return r.handles.isAlive(h)
}

func (r *registry[T]) get(h Handle) (T, bool) {
	var zero T
	if !r.handles.isAlive(h) {
		return zero, false
	}
	if v, ok := r.items.Get(h); ok {
		return v, true
	}
	for _, e := range r.pending {
		if e.handle == h {
			return e.value, true
		}
	}
	return zero, false
}

// snapshot lists the live, non-pending entries in registration order.
func (r *registry[T]) snapshot() []entry[T] {
	out := make([]entry[T], 0, r.items.Len())
	for el := r.items.Front(); el != nil; el = el.Next() {
		if !r.handles.isAlive(el.Key) {
			continue
		}
		out = append(out, entry[T]{handle: el.Key, value: el.Value})
	}
	return out
}

func (r *registry[T]) len() int {
	return r.items.Len() - len(r.dead) + len(r.pending)
}

// flush applies deferred removals and then deferred additions, in the order
// they were requested.
func (r *registry[T]) flush() (added, removed int) {
	for h := range r.dead {
		r.items.Delete(h)
		removed++
	}
	clear(r.dead)
	for _, e := range r.pending {
		r.items.Set(e.handle, e.value)
		added++
	}
	r.pending = r.pending[:0]
	return added, removed
}
