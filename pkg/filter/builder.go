package filter

import (
	"fmt"
	"slices"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

// Builder copies selected elements of a source model into a fresh destination model
// together with everything they need to stay meaningful: forward references, property,
// type and material relationships, and every spatial or aggregate parent up to the project.
//
// A Builder holds all bookkeeping of one run and must not be reused or shared.
type Builder struct {
	src *ifc.Model
	dst *ifc.Model

	// copies maps source instance numbers to destination entities. It is the only record
	// of what has been copied.
	copies map[uint64]*ifc.Entity
	// expanded holds source object definitions whose parents were already walked. An entity
	// is usually copied before it is expanded, so this cannot be derived from copies.
	expanded map[uint64]struct{}
	// pending is the upward work list of source object definitions.
	pending []*ifc.Entity

	groupings    Groupings
	ownerHistory *ifc.Entity
	includeParts bool
}

type BuilderOption func(*Builder)

// WithParts makes the builder copy the aggregated parts of every added element.
func WithParts(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.includeParts = enabled
	}
}

func NewBuilder(src *ifc.Model, opts ...BuilderOption) *Builder {
	dst := ifc.NewModel(src.SchemaName)
	if len(src.Header.Description) > 0 {
		dst.Header.Description = slices.Clone(src.Header.Description)
	}
	if src.Header.ImplementationLevel != "" {
		dst.Header.ImplementationLevel = src.Header.ImplementationLevel
	}

	b := &Builder{
		src:       src,
		dst:       dst,
		copies:    make(map[uint64]*ifc.Entity),
		expanded:  make(map[uint64]struct{}),
		groupings: NewGroupings(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Destination returns the model being built.
func (b *Builder) Destination() *ifc.Model {
	return b.dst
}

// OwnerHistory returns the destination copy of the source's first IfcOwnerHistory, or nil.
func (b *Builder) OwnerHistory() *ifc.Entity {
	return b.ownerHistory
}

// Groupings returns the hierarchy edges collected so far.
func (b *Builder) Groupings() Groupings {
	return b.groupings
}

// Build copies the project root, the first owner history and every seed in order. The
// returned groupings still have to be turned into relationships with Materialize.
func (b *Builder) Build(seeds []*ifc.Entity) (*ifc.Model, Groupings, error) {
	projects := b.src.ByType("IfcProject")
	if len(projects) == 0 {
		return nil, Groupings{}, fmt.Errorf("source has no IfcProject: %w", ErrMalformedModel)
	}
	if _, err := b.AppendAsset(projects[0]); err != nil {
		return nil, Groupings{}, fmt.Errorf("failed to copy project: %w", err)
	}

	if histories := b.src.ByType("IfcOwnerHistory"); len(histories) > 0 {
		oh, err := b.AppendAsset(histories[0])
		if err != nil {
			return nil, Groupings{}, fmt.Errorf("failed to copy owner history: %w", err)
		}
		b.ownerHistory = oh
	}
	if err := b.drain(); err != nil {
		return nil, Groupings{}, err
	}

	for _, seed := range seeds {
		if err := b.AddElement(seed); err != nil {
			return nil, Groupings{}, fmt.Errorf("failed to add %s: %w", seed, err)
		}
	}

	return b.dst, b.groupings, nil
}

// AddElement appends e, copies its non-hierarchy relationships and walks its parents.
func (b *Builder) AddElement(e *ifc.Entity) error {
	if e.Model() != b.src {
		return fmt.Errorf("%s does not belong to the source model", e)
	}

	dst, err := b.AppendAsset(e)
	if err != nil {
		return err
	}
	if err := b.copyRelationships(e, dst); err != nil {
		return err
	}
	if b.includeParts {
		if err := b.copyParts(e); err != nil {
			return err
		}
	}

	b.pending = append(b.pending, e)
	return b.drain()
}

// AppendAsset returns the destination counterpart of e, copying e and its forward
// references if the destination has none yet. Rooted entities are matched by GlobalId, so
// appending the same element twice yields the same destination entity.
func (b *Builder) AppendAsset(e *ifc.Entity) (*ifc.Entity, error) {
	if dst, ok := b.copies[e.ID]; ok {
		return dst, nil
	}
	if guid, ok := e.GlobalID(); ok {
		if dst, ok := b.dst.ByGlobalID(guid); ok {
			b.copies[e.ID] = dst
			return dst, nil
		}
	}
	return b.deepCopy(e)
}

// drain walks the pending object definitions upward, containment first.
func (b *Builder) drain() error {
	for len(b.pending) > 0 {
		e := b.pending[len(b.pending)-1]
		b.pending = b.pending[:len(b.pending)-1]

		if _, done := b.expanded[e.ID]; done {
			continue
		}
		b.expanded[e.ID] = struct{}{}

		child, ok := b.copies[e.ID]
		if !ok {
			return fmt.Errorf("%s walked before being copied", e)
		}
		if err := b.walkContainment(e, child); err != nil {
			return err
		}
		if err := b.walkDecomposition(e, child); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) walkContainment(e, child *ifc.Entity) error {
	for _, rel := range b.src.Inverse(e, "ContainedInStructure") {
		structure, ok := rel.AttrEntity("RelatingStructure")
		if !ok {
			continue
		}
		key, err := b.appendParent(structure)
		if err != nil {
			return err
		}
		b.groupings.AddContained(key, child)
	}
	return nil
}

func (b *Builder) walkDecomposition(e, child *ifc.Entity) error {
	for _, rel := range b.src.Inverse(e, "Decomposes") {
		parent, ok := rel.AttrEntity("RelatingObject")
		if !ok {
			continue
		}
		key, err := b.appendParent(parent)
		if err != nil {
			return err
		}
		b.groupings.AddAggregate(key, child)
	}
	return nil
}

// appendParent copies a hierarchy parent, queues it for its own walk and returns the
// GlobalId its grouping is keyed by.
func (b *Builder) appendParent(parent *ifc.Entity) (string, error) {
	dst, err := b.AppendAsset(parent)
	if err != nil {
		return "", fmt.Errorf("failed to copy parent %s: %w", parent, err)
	}
	key, ok := dst.GlobalID()
	if !ok {
		return "", fmt.Errorf("parent %s has no GlobalId: %w", parent, ErrMalformedModel)
	}
	b.pending = append(b.pending, parent)
	return key, nil
}

// copyParts appends everything e decomposes into, recursively. The parts find their way
// into the aggregate groupings through their own upward walk.
func (b *Builder) copyParts(e *ifc.Entity) error {
	visited := make(map[uint64]struct{})
	stack := []*ifc.Entity{e}
	for len(stack) > 0 {
		whole := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[whole.ID]; ok {
			continue
		}
		visited[whole.ID] = struct{}{}

		for _, rel := range b.src.Inverse(whole, "IsDecomposedBy") {
			for _, part := range rel.AttrEntities("RelatedObjects") {
				if _, err := b.AppendAsset(part); err != nil {
					return fmt.Errorf("failed to copy part %s: %w", part, err)
				}
				b.pending = append(b.pending, part)
				stack = append(stack, part)
			}
		}
	}
	return nil
}
