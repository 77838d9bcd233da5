package ifc

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/btree"
)

var (
	ErrDanglingReference = errors.New("reference to unknown entity")
	ErrDuplicateID       = errors.New("duplicate instance number")
)

// Header carries the HEADER section of a STEP physical file.
type Header struct {
	Description         []string
	ImplementationLevel string
	FileName            FileName
}

// FileName mirrors the FILE_NAME header record.
type FileName struct {
	Name                string
	TimeStamp           string
	Author              []string
	Organization        []string
	PreprocessorVersion string
	OriginatingSystem   string
	Authorization       string
}

// Model is an owning collection of entities with an instance-number index, a GlobalId
// index and a reverse-reference index. It is not safe for concurrent mutation.
type Model struct {
	SchemaName string
	Header     Header

	schema   *Schema
	entities btree.Map[uint64, *Entity]
	byGUID   map[string]*Entity
	inverse  map[uint64]map[uint64]int
	nextID   uint64
}

// NewModel creates an empty model for the given FILE_SCHEMA identifier.
func NewModel(schemaName string) *Model {
	if schemaName == "" {
		schemaName = "IFC4"
	}
	return &Model{
		SchemaName: strings.ToUpper(schemaName),
		Header: Header{
			Description:         []string{"ViewDefinition [CoordinationView]"},
			ImplementationLevel: "2;1",
		},
		schema:  SchemaFor(schemaName),
		byGUID:  make(map[string]*Entity),
		inverse: make(map[uint64]map[uint64]int),
		nextID:  1,
	}
}

// Schema returns the type tree the model is interpreted with.
func (m *Model) Schema() *Schema {
	return m.schema
}

// Len returns the number of entities.
func (m *Model) Len() int {
	return m.entities.Len()
}

// Entity returns the entity with instance number id.
func (m *Model) Entity(id uint64) (*Entity, bool) {
	return m.entities.Get(id)
}

// ByGlobalID returns the rooted entity carrying the given GlobalId.
func (m *Model) ByGlobalID(guid string) (*Entity, bool) {
	e, ok := m.byGUID[guid]
	return e, ok
}

// Each calls fn for every entity in ascending instance-number order until fn returns false.
func (m *Model) Each(fn func(e *Entity) bool) {
	m.entities.Scan(func(_ uint64, e *Entity) bool {
		return fn(e)
	})
}

// ByType returns every entity that is-a typeName, including subtypes, in instance order.
func (m *Model) ByType(typeName string) []*Entity {
	var out []*Entity
	m.Each(func(e *Entity) bool {
		if e.IsA(typeName) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Create appends a new entity with the next free instance number. Every reference in
// attrs must point at an entity already present in the model.
func (m *Model) Create(typeName string, attrs ...Value) (*Entity, error) {
	e := &Entity{
		ID:    m.nextID,
		Type:  strings.ToUpper(typeName),
		model: m,
	}
	for _, v := range attrs {
		for _, ref := range v.Refs() {
			if _, ok := m.entities.Get(ref); !ok {
				return nil, fmt.Errorf("%s attribute #%d: %w", e.Type, ref, ErrDanglingReference)
			}
		}
	}
	m.insert(e)
	if err := m.setAttrs(e, attrs); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateNamed is Create with attributes given by name. Attributes the schema defines but
// the caller omits are written as null.
func (m *Model) CreateNamed(typeName string, attrs map[string]Value) (*Entity, error) {
	def, ok := m.schema.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown entity type %s", typeName)
	}
	values := make([]Value, len(def.Attrs))
	for i, name := range def.Attrs {
		if v, ok := attrs[name]; ok {
			values[i] = v
		}
	}
	return m.Create(typeName, values...)
}

// Referrers returns every entity holding a reference to e, in instance order.
func (m *Model) Referrers(e *Entity) []*Entity {
	refs := m.inverse[e.ID]
	if len(refs) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if r, ok := m.entities.Get(id); ok {
			out = append(out, r)
		}
	}
	return out
}

// Inverse returns the relationships reaching e through an inverse role such as
// "ContainedInStructure" or "Decomposes".
func (m *Model) Inverse(e *Entity, role string) []*Entity {
	inv, ok := m.schema.Inverse(role)
	if !ok {
		return nil
	}
	var out []*Entity
	for _, r := range m.Referrers(e) {
		if !r.IsA(inv.RelType) {
			continue
		}
		v, ok := r.Attr(inv.RelAttr)
		if ok && v.HasRef(e.ID) {
			out = append(out, r)
		}
	}
	return out
}

// insert places e into the instance index without touching attributes.
func (m *Model) insert(e *Entity) {
	m.entities.Set(e.ID, e)
	if e.ID >= m.nextID {
		m.nextID = e.ID + 1
	}
}

func (m *Model) setAttrs(e *Entity, attrs []Value) error {
	for _, v := range attrs {
		for _, ref := range v.Refs() {
			if _, ok := m.entities.Get(ref); !ok {
				return fmt.Errorf("%s attribute #%d: %w", e, ref, ErrDanglingReference)
			}
		}
	}

	m.unindex(e)
	e.attrs = attrs
	m.index(e)
	return nil
}

func (m *Model) index(e *Entity) {
	for _, v := range e.attrs {
		for _, ref := range v.Refs() {
			set, ok := m.inverse[ref]
			if !ok {
				set = make(map[uint64]int)
				m.inverse[ref] = set
			}
			set[e.ID]++
		}
	}
	if guid, ok := e.GlobalID(); ok {
		if _, exists := m.byGUID[guid]; !exists {
			m.byGUID[guid] = e
		}
	}
}

func (m *Model) unindex(e *Entity) {
	for _, v := range e.attrs {
		for _, ref := range v.Refs() {
			set := m.inverse[ref]
			if set == nil {
				continue
			}
			set[e.ID]--
			if set[e.ID] <= 0 {
				delete(set, e.ID)
			}
			if len(set) == 0 {
				delete(m.inverse, ref)
			}
		}
	}
	if guid, ok := e.GlobalID(); ok && m.byGUID[guid] == e {
		delete(m.byGUID, guid)
	}
}
