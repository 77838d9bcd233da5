package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

// Relationships between two elements. Copying them would pull the unselected neighbour
// into the subset together with its whole hierarchy.
var peerConnections = []string{
	"IfcRelConnectsElements",
	"IfcRelConnectsPortToElement",
	"IfcRelConnectsPorts",
	"IfcRelSpaceBoundary",
	"IfcRelInterferesElements",
}

// deepCopy copies root and every entity reachable through its attributes. Shells are
// created first and filled once the whole closure is known, so reference cycles resolve
// through b.copies without recursion.
func (b *Builder) deepCopy(root *ifc.Entity) (*ifc.Entity, error) {
	var created []*ifc.Entity

	stack := []*ifc.Entity{root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := b.copies[e.ID]; ok {
			continue
		}
		if guid, ok := e.GlobalID(); ok {
			if existing, ok := b.dst.ByGlobalID(guid); ok {
				b.copies[e.ID] = existing
				continue
			}
		}

		shell, err := b.dst.Create(e.Type)
		if err != nil {
			return nil, err
		}
		b.copies[e.ID] = shell
		created = append(created, e)

		for _, v := range e.Attrs() {
			for _, ref := range v.Refs() {
				if _, ok := b.copies[ref]; ok {
					continue
				}
				target, ok := b.src.Entity(ref)
				if !ok {
					return nil, fmt.Errorf("%s references #%d: %w", e, ref, ifc.ErrDanglingReference)
				}
				stack = append(stack, target)
			}
		}
	}

	for _, e := range created {
		if err := b.copies[e.ID].SetAttrs(b.translate(e.Attrs())); err != nil {
			return nil, fmt.Errorf("failed to fill %s: %w", e, err)
		}
		if e.IsA("IfcObjectDefinition") {
			b.pending = append(b.pending, e)
		}
	}

	return b.copies[root.ID], nil
}

// translate rewrites source references to their destination counterparts. Every reference
// must already be present in b.copies.
func (b *Builder) translate(attrs []ifc.Value) []ifc.Value {
	for i, v := range attrs {
		attrs[i] = v.MapRefs(func(id uint64) uint64 {
			return b.copies[id].ID
		})
	}
	return attrs
}

// copyValue deep copies every entity v refers to and returns v translated.
func (b *Builder) copyValue(v ifc.Value) (ifc.Value, error) {
	for _, ref := range v.Refs() {
		target, ok := b.src.Entity(ref)
		if !ok {
			return ifc.Null, fmt.Errorf("#%d: %w", ref, ifc.ErrDanglingReference)
		}
		if _, err := b.AppendAsset(target); err != nil {
			return ifc.Null, err
		}
	}
	return v.MapRefs(func(id uint64) uint64 {
		return b.copies[id].ID
	}), nil
}

// copyRelationships copies every relationship that references e, except the spatial and
// aggregate hierarchy, which is rebuilt from the groupings, and peer connections.
func (b *Builder) copyRelationships(e, dst *ifc.Entity) error {
	for _, rel := range b.src.Referrers(e) {
		if !isRelationship(rel) || isHierarchy(rel) || isPeerConnection(rel) {
			continue
		}
		if err := b.projectRelationship(rel, e, dst); err != nil {
			return fmt.Errorf("failed to copy %s: %w", rel, err)
		}
	}
	return nil
}

// projectRelationship copies rel once per run. List attributes holding the member are
// restricted to the members added so far, so a property set shared by many elements only
// links the selected ones. The remaining attributes are copied as they are.
func (b *Builder) projectRelationship(rel, member, dstMember *ifc.Entity) error {
	attrs := rel.Attrs()

	var lists []int
	for i, v := range attrs {
		if v.Kind == ifc.KindList && v.HasRef(member.ID) {
			lists = append(lists, i)
		}
	}

	if existing, ok := b.existing(rel); ok {
		return extendLists(existing, lists, dstMember)
	}

	out := make([]ifc.Value, len(attrs))
	for i, v := range attrs {
		if slices.Contains(lists, i) {
			out[i] = ifc.RefList(dstMember.ID)
			continue
		}
		copied, err := b.copyValue(v)
		if err != nil {
			return err
		}
		out[i] = copied
	}

	created, err := b.dst.Create(rel.Type, out...)
	if err != nil {
		return err
	}
	b.copies[rel.ID] = created
	return nil
}

// existing looks up a relationship copied earlier in this run.
func (b *Builder) existing(rel *ifc.Entity) (*ifc.Entity, bool) {
	if dst, ok := b.copies[rel.ID]; ok {
		return dst, true
	}
	guid, ok := rel.GlobalID()
	if !ok {
		return nil, false
	}
	dst, ok := b.dst.ByGlobalID(guid)
	if ok {
		b.copies[rel.ID] = dst
	}
	return dst, ok
}

// extendLists adds member to the list attributes at the given positions of a copied
// relationship.
func extendLists(rel *ifc.Entity, lists []int, member *ifc.Entity) error {
	if len(lists) == 0 {
		return nil
	}
	out := rel.Attrs()
	for _, i := range lists {
		if i < len(out) {
			out[i] = appendRef(out[i], member.ID)
		}
	}
	return rel.SetAttrs(out)
}

func appendRef(v ifc.Value, id uint64) ifc.Value {
	if v.HasRef(id) {
		return v
	}
	items := make([]ifc.Value, 0, len(v.Items)+1)
	items = append(items, v.Items...)
	items = append(items, ifc.Ref(id))
	return ifc.List(items...)
}

// isRelationship also accepts rooted IfcRel* types the schema does not know.
func isRelationship(e *ifc.Entity) bool {
	if e.IsA("IfcRelationship") {
		return true
	}
	if _, known := e.Model().Schema().Lookup(e.Type); known {
		return false
	}
	_, rooted := e.GlobalID()
	return rooted && strings.HasPrefix(strings.ToUpper(e.Type), "IFCREL")
}

func isHierarchy(rel *ifc.Entity) bool {
	return rel.IsA("IfcRelContainedInSpatialStructure") || rel.IsA("IfcRelAggregates")
}

func isPeerConnection(rel *ifc.Entity) bool {
	for _, t := range peerConnections {
		if rel.IsA(t) {
			return true
		}
	}
	return false
}
