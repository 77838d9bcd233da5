package filter

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

// Materialize turns the groupings into relationships of dst: one
// IfcRelContainedInSpatialStructure per containing structure and one IfcRelAggregates per
// aggregate, each with a fresh GlobalId and the given owner history. Every grouping key is
// resolved before anything is written, so a missing target leaves dst untouched.
func Materialize(dst *ifc.Model, ownerHistory *ifc.Entity, g Groupings) error {
	history := ifc.Null
	if ownerHistory != nil {
		history = ifc.Ref(ownerHistory.ID)
	}

	structures, err := resolveKeys(dst, g.ContainedIn)
	if err != nil {
		return fmt.Errorf("containment: %w", err)
	}
	parents, err := resolveKeys(dst, g.Aggregates)
	if err != nil {
		return fmt.Errorf("aggregation: %w", err)
	}

	i := 0
	for pair := g.ContainedIn.Oldest(); pair != nil; pair = pair.Next() {
		_, err := dst.CreateNamed("IfcRelContainedInSpatialStructure", map[string]ifc.Value{
			"GlobalId":          ifc.String(ifc.NewGlobalID()),
			"OwnerHistory":      history,
			"RelatedElements":   ifc.RefList(pair.Value.IDs()...),
			"RelatingStructure": ifc.Ref(structures[i].ID),
		})
		if err != nil {
			return fmt.Errorf("failed to create containment for %s: %w", pair.Key, err)
		}
		i++
	}

	i = 0
	for pair := g.Aggregates.Oldest(); pair != nil; pair = pair.Next() {
		_, err := dst.CreateNamed("IfcRelAggregates", map[string]ifc.Value{
			"GlobalId":       ifc.String(ifc.NewGlobalID()),
			"OwnerHistory":   history,
			"RelatingObject": ifc.Ref(parents[i].ID),
			"RelatedObjects": ifc.RefList(pair.Value.IDs()...),
		})
		if err != nil {
			return fmt.Errorf("failed to create aggregation for %s: %w", pair.Key, err)
		}
		i++
	}

	return nil
}

func resolveKeys(dst *ifc.Model, m *orderedmap.OrderedMap[string, *EntitySet]) ([]*ifc.Entity, error) {
	out := make([]*ifc.Entity, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		e, ok := dst.ByGlobalID(pair.Key)
		if !ok {
			return nil, fmt.Errorf("no entity with GlobalId %s: %w", pair.Key, ErrMalformedModel)
		}
		out = append(out, e)
	}
	return out, nil
}
