package entity

import "fmt"

// Arena holds every entity created during a run, indexed by (kind, id)
// and remembering creation order. Creation order is what makes id and
// sequence assignment deterministic, so it is never re-sorted.
type Arena struct {
	byRef map[Ref]Entity
	order []Ref
}

func NewArena() *Arena {
	return &Arena{byRef: make(map[Ref]Entity)}
}

// Add registers an entity. A duplicate (kind, id) pair is a surrogate-id
// collision and is reported as an error rather than overwritten.
func (a *Arena) Add(e Entity) error {
	ref := e.Ref()
	if _, ok := a.byRef[ref]; ok {
		return fmt.Errorf("duplicate surrogate id %d for %s", ref.ID, ref.Kind)
	}
	a.byRef[ref] = e
	a.order = append(a.order, ref)
	return nil
}

func (a *Arena) Get(ref Ref) (Entity, bool) {
	e, ok := a.byRef[ref]
	return e, ok
}

func (a *Arena) Len() int {
	return len(a.order)
}

// InOrder yields entities in creation order.
func (a *Arena) InOrder() []Entity {
	out := make([]Entity, 0, len(a.order))
	for _, ref := range a.order {
		out = append(out, a.byRef[ref])
	}
	return out
}

// OfKind yields entities of one kind in creation order.
func (a *Arena) OfKind(k Kind) []Entity {
	var out []Entity
	for _, ref := range a.order {
		if ref.Kind == k {
			out = append(out, a.byRef[ref])
		}
	}
	return out
}
