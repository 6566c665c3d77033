// Package registry maps vertical identifiers to their strategies.
//
// Writes go through a Builder; a built Registry is immutable and safe for
// concurrent use without locking.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"goalflow/internal/goal"
	"goalflow/internal/vertical"
)

// NotFoundError is returned by strict lookups of unregistered verticals.
type NotFoundError struct {
	ID         goal.VerticalID
	Registered []goal.VerticalID
}

func (e *NotFoundError) Error() string {
	ids := make([]string, 0, len(e.Registered))
	for _, id := range e.Registered {
		ids = append(ids, string(id))
	}
	return fmt.Sprintf("vertical %q not found (registered: %s)", e.ID, strings.Join(ids, ", "))
}

// VerticalInfo is an id/label pair for selector UIs.
type VerticalInfo struct {
	ID    goal.VerticalID `json:"id"`
	Label string          `json:"label"`
}

// Resolution reports how a lenient lookup was satisfied.
type Resolution struct {
	Requested goal.VerticalID `json:"requested"`
	Resolved  goal.VerticalID `json:"resolved"`
	// Fallback is true when Resolved differs from Requested.
	Fallback bool `json:"fallback"`
}

// Builder collects strategies before a Registry is built. It is not safe for
// concurrent use.
type Builder struct {
	order      []goal.VerticalID
	strategies map[goal.VerticalID]vertical.Strategy
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{strategies: make(map[goal.VerticalID]vertical.Strategy)}
}

// Register adds a strategy, replacing any previous one with the same id.
// Registration order is kept for listings.
func (b *Builder) Register(s vertical.Strategy) *Builder {
	if s == nil {
		return b
	}
	id := s.ID()
	if _, exists := b.strategies[id]; !exists {
		b.order = append(b.order, id)
	}
	b.strategies[id] = s
	return b
}

// Build freezes the registered strategies into a Registry.
func (b *Builder) Build() *Registry {
	r := &Registry{
		order:      append([]goal.VerticalID(nil), b.order...),
		strategies: make(map[goal.VerticalID]vertical.Strategy, len(b.strategies)),
	}
	for id, s := range b.strategies {
		r.strategies[id] = s
	}
	return r
}

// Registry is a read-only lookup table of strategies.
type Registry struct {
	order      []goal.VerticalID
	strategies map[goal.VerticalID]vertical.Strategy
}

// Builtins returns the strategies shipped with the engine.
func Builtins(opts ...vertical.Option) []vertical.Strategy {
	return []vertical.Strategy{
		vertical.NewNetworkMarketing(opts...),
		vertical.NewRealEstate(opts...),
		vertical.NewFinance(opts...),
		vertical.NewCoaching(opts...),
	}
}

// Default builds a registry holding the built-in verticals.
func Default(opts ...vertical.Option) *Registry {
	b := NewBuilder()
	for _, s := range Builtins(opts...) {
		b.Register(s)
	}
	return b.Build()
}

// Extend returns a new registry with additional strategies registered on top
// of r. The receiver is left untouched.
func (r *Registry) Extend(strategies ...vertical.Strategy) *Registry {
	b := NewBuilder()
	for _, id := range r.order {
		b.Register(r.strategies[id])
	}
	for _, s := range strategies {
		b.Register(s)
	}
	return b.Build()
}

// Get returns the strategy for id or a *NotFoundError.
func (r *Registry) Get(id goal.VerticalID) (vertical.Strategy, error) {
	if s, ok := r.strategies[id]; ok {
		return s, nil
	}
	return nil, &NotFoundError{ID: id, Registered: r.IDs()}
}

// GetOrDefault resolves id, falling back to fallback (or goal.DefaultVertical
// when fallback is empty). It never fails on a registry that holds the
// fallback; on a registry without it, the first registered vertical is used.
// The strategy is nil only for an empty registry.
func (r *Registry) GetOrDefault(id, fallback goal.VerticalID) (vertical.Strategy, Resolution) {
	res := Resolution{Requested: id}
	if s, ok := r.strategies[id]; ok {
		res.Resolved = id
		return s, res
	}
	if fallback == "" {
		fallback = goal.DefaultVertical
	}
	res.Fallback = true
	if s, ok := r.strategies[fallback]; ok {
		res.Resolved = fallback
		return s, res
	}
	if len(r.order) == 0 {
		return nil, res
	}
	res.Resolved = r.order[0]
	return r.strategies[res.Resolved], res
}

// Has reports whether id is registered.
func (r *Registry) Has(id goal.VerticalID) bool {
	_, ok := r.strategies[id]
	return ok
}

// IDs returns the registered ids sorted alphabetically.
func (r *Registry) IDs() []goal.VerticalID {
	ids := append([]goal.VerticalID(nil), r.order...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ListVerticals returns id/label pairs in registration order.
func (r *Registry) ListVerticals() []VerticalInfo {
	out := make([]VerticalInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, VerticalInfo{ID: id, Label: r.strategies[id].Label()})
	}
	return out
}

// All returns every strategy in registration order.
func (r *Registry) All() []vertical.Strategy {
	out := make([]vertical.Strategy, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.strategies[id])
	}
	return out
}
