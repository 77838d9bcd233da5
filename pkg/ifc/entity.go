package ifc

import (
	"fmt"
)

// Entity is one instance of an IFC model graph. ID is the STEP instance number and is
// only meaningful inside the owning model; GlobalID is the identity that survives a copy
// into another model.
type Entity struct {
	ID   uint64
	Type string

	attrs []Value
	model *Model
}

// Model returns the model owning the entity.
func (e *Entity) Model() *Model {
	return e.model
}

// TypeName returns the schema spelling of the entity type, e.g. "IfcWall".
func (e *Entity) TypeName() string {
	return e.model.schema.CanonicalName(e.Type)
}

// IsA reports whether the entity is of the given type or one of its subtypes.
func (e *Entity) IsA(typeName string) bool {
	return e.model.schema.IsA(e.Type, typeName)
}

// Len returns the number of positional attributes.
func (e *Entity) Len() int {
	return len(e.attrs)
}

// Attrs returns a copy of the positional attribute values.
func (e *Entity) Attrs() []Value {
	out := make([]Value, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// AttrAt returns the attribute at position i.
func (e *Entity) AttrAt(i int) (Value, bool) {
	if i < 0 || i >= len(e.attrs) {
		return Null, false
	}
	return e.attrs[i], true
}

// Attr returns a named attribute. The second result is false when the schema does not
// define the attribute for this type or the instance has fewer attributes.
func (e *Entity) Attr(name string) (Value, bool) {
	i, ok := e.model.schema.AttrIndex(e.Type, name)
	if !ok {
		return Null, false
	}
	return e.AttrAt(i)
}

// AttrEntity resolves a named attribute holding a single entity reference.
func (e *Entity) AttrEntity(name string) (*Entity, bool) {
	v, ok := e.Attr(name)
	if !ok {
		return nil, false
	}
	id, ok := v.AsRef()
	if !ok {
		return nil, false
	}
	return e.model.Entity(id)
}

// AttrEntities resolves every reference held by a named attribute, in attribute order.
func (e *Entity) AttrEntities(name string) []*Entity {
	v, ok := e.Attr(name)
	if !ok {
		return nil
	}
	var out []*Entity
	for _, id := range v.Refs() {
		if ref, ok := e.model.Entity(id); ok {
			out = append(out, ref)
		}
	}
	return out
}

// GlobalID returns the IfcRoot GlobalId of the entity. Types the schema does not know,
// such as those of a newer schema revision, count as rooted when their first attribute
// is a well-formed compressed GlobalId.
func (e *Entity) GlobalID() (string, bool) {
	_, known := e.model.schema.Lookup(e.Type)
	if known && !e.IsA("IfcRoot") {
		return "", false
	}
	v, ok := e.AttrAt(0)
	if !ok {
		return "", false
	}
	s, ok := v.AsString()
	if !ok || s == "" {
		return "", false
	}
	if !known {
		if _, err := ExpandGlobalID(s); err != nil {
			return "", false
		}
	}
	return s, true
}

// Name returns the IfcRoot Name. A missing name is reported as absent, never as an error.
func (e *Entity) Name() (string, bool) {
	v, ok := e.Attr("Name")
	if !ok {
		return "", false
	}
	return v.AsString()
}

// SetAttr replaces a named attribute, keeping the model indexes consistent.
func (e *Entity) SetAttr(name string, v Value) error {
	i, ok := e.model.schema.AttrIndex(e.Type, name)
	if !ok {
		return fmt.Errorf("%s has no attribute %s", e.TypeName(), name)
	}
	attrs := e.Attrs()
	for len(attrs) <= i {
		attrs = append(attrs, Null)
	}
	attrs[i] = v
	return e.model.setAttrs(e, attrs)
}

// SetAttrs replaces every positional attribute, keeping the model indexes consistent.
func (e *Entity) SetAttrs(attrs []Value) error {
	return e.model.setAttrs(e, attrs)
}

func (e *Entity) String() string {
	return fmt.Sprintf("#%d=%s", e.ID, e.Type)
}
