package types

import "fmt"

// EntityRef is a weak link to another entity: its type and id, optionally a
// display name and a partial copy. Holding a reference never implies
// ownership of the target, and the snapshot is never fetched implicitly.
type EntityRef struct {
	Type     string  `json:"type" yaml:"type"`
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Snapshot *Entity `json:"snapshot,omitempty" yaml:"-"`
}

// Ref returns an id-only reference.
func Ref(entityType string, id int64) EntityRef {
	return EntityRef{Type: entityType, ID: id}
}

// IsZero reports whether the reference points at nothing. Zero references
// are treated as absent by the serializer.
func (r EntityRef) IsZero() bool {
	return r.ID <= 0
}

// Equal compares references by type and id only.
func (r EntityRef) Equal(o EntityRef) bool {
	return r.Type == o.Type && r.ID == o.ID
}

// Resolve returns a copy of r upgraded with a snapshot of e. The entity must
// be the one the reference points at.
func (r EntityRef) Resolve(e *Entity) (EntityRef, error) {
	if e == nil || e.Type != r.Type || e.ID != r.ID {
		return r, fmt.Errorf("resolve %s/%d: %w", r.Type, r.ID, ErrReferenceMismatch)
	}
	r.Snapshot = e
	if name := e.DisplayName(); name != "" {
		r.Name = name
	}
	return r, nil
}

// String renders the reference as Type/ID.
func (r EntityRef) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}
