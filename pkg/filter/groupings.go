package filter

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

// EntitySet is an insertion-ordered set of destination entities.
type EntitySet struct {
	order []*ifc.Entity
	seen  map[uint64]struct{}
}

func newEntitySet() *EntitySet {
	return &EntitySet{seen: make(map[uint64]struct{})}
}

// Add inserts e unless it is already present and reports whether it was added.
func (s *EntitySet) Add(e *ifc.Entity) bool {
	if _, ok := s.seen[e.ID]; ok {
		return false
	}
	s.seen[e.ID] = struct{}{}
	s.order = append(s.order, e)
	return true
}

func (s *EntitySet) Len() int {
	return len(s.order)
}

// Entities returns the members in insertion order.
func (s *EntitySet) Entities() []*ifc.Entity {
	out := make([]*ifc.Entity, len(s.order))
	copy(out, s.order)
	return out
}

// IDs returns the instance numbers of the members in insertion order.
func (s *EntitySet) IDs() []uint64 {
	out := make([]uint64, len(s.order))
	for i, e := range s.order {
		out[i] = e.ID
	}
	return out
}

// Groupings collects the hierarchy edges discovered while building a subset, keyed by the
// GlobalId of the parent. ContainedIn maps a spatial structure to the elements it contains,
// Aggregates maps an aggregate to its parts.
type Groupings struct {
	ContainedIn *orderedmap.OrderedMap[string, *EntitySet]
	Aggregates  *orderedmap.OrderedMap[string, *EntitySet]
}

func NewGroupings() Groupings {
	return Groupings{
		ContainedIn: orderedmap.New[string, *EntitySet](),
		Aggregates:  orderedmap.New[string, *EntitySet](),
	}
}

// AddContained records that the structure with GlobalId key contains e.
func (g Groupings) AddContained(key string, e *ifc.Entity) {
	add(g.ContainedIn, key, e)
}

// AddAggregate records that the object with GlobalId key aggregates e.
func (g Groupings) AddAggregate(key string, e *ifc.Entity) {
	add(g.Aggregates, key, e)
}

func add(m *orderedmap.OrderedMap[string, *EntitySet], key string, e *ifc.Entity) {
	set, ok := m.Get(key)
	if !ok {
		set = newEntitySet()
		m.Set(key, set)
	}
	set.Add(e)
}
