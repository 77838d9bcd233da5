package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

func TestMaterialize_OneEdgePerKey(t *testing.T) {
	f := newFixture(t)
	storey := f.named("IfcBuildingStorey", "L1")
	w1 := f.named("IfcWall", "W1")
	w2 := f.named("IfcWall", "W2")

	g := NewGroupings()
	g.AddContained(guid(t, storey), w1)
	g.AddContained(guid(t, storey), w2)
	g.AddContained(guid(t, storey), w1)
	g.AddAggregate(guid(t, f.project), storey)

	if err := Materialize(f.m, f.history, g); err != nil {
		t.Fatalf("Materialize error: %v", err)
	}

	contained := f.m.ByType("IfcRelContainedInSpatialStructure")
	if len(contained) != 1 {
		t.Fatalf("expected one containment, got %d", len(contained))
	}
	if got := guids(t, contained[0].AttrEntities("RelatedElements")); !equalStrings(got, []string{guid(t, w1), guid(t, w2)}) {
		t.Fatalf("unexpected elements %v", got)
	}
	if h, ok := contained[0].AttrEntity("OwnerHistory"); !ok || h != f.history {
		t.Fatal("expected the shared owner history")
	}

	aggregates := f.m.ByType("IfcRelAggregates")
	if len(aggregates) != 1 {
		t.Fatalf("expected one aggregation, got %d", len(aggregates))
	}
	parent, _ := aggregates[0].AttrEntity("RelatingObject")
	if parent != f.project {
		t.Fatalf("expected the project as parent, got %v", parent)
	}
	if guid(t, aggregates[0]) == guid(t, contained[0]) {
		t.Fatal("relationships must get distinct GlobalIds")
	}
}

func TestMaterialize_MissingKey(t *testing.T) {
	f := newFixture(t)
	wall := f.named("IfcWall", "W1")
	storey := f.named("IfcBuildingStorey", "L1")

	g := NewGroupings()
	g.AddContained(guid(t, storey), wall)
	g.AddAggregate(ifc.NewGlobalID(), storey)
	before := f.m.Len()

	err := Materialize(f.m, nil, g)
	if !errors.Is(err, ErrMalformedModel) {
		t.Fatalf("expected ErrMalformedModel, got %v", err)
	}
	if f.m.Len() != before {
		t.Fatalf("model changed on failure: %d -> %d", before, f.m.Len())
	}
}

func TestMaterialize_NoOwnerHistory(t *testing.T) {
	f := newFixture(t)
	storey := f.named("IfcBuildingStorey", "L1")
	wall := f.named("IfcWall", "W1")

	g := NewGroupings()
	g.AddContained(guid(t, storey), wall)
	if err := Materialize(f.m, nil, g); err != nil {
		t.Fatalf("Materialize error: %v", err)
	}
	rel := f.m.ByType("IfcRelContainedInSpatialStructure")[0]
	v, _ := rel.Attr("OwnerHistory")
	if !v.IsNull() {
		t.Fatalf("expected null owner history, got %s", v)
	}
}

func TestRun_Cancelled(t *testing.T) {
	src := loadTwoStoreys(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, src, Criteria{AllStories: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_NoMatchingStories(t *testing.T) {
	src := loadTwoStoreys(t)
	_, err := Run(context.Background(), src, Criteria{Stories: []string{"Basement"}})
	if !errors.Is(err, ErrNoMatchingStories) {
		t.Fatalf("expected ErrNoMatchingStories, got %v", err)
	}
}

func TestRun_NoSeeds(t *testing.T) {
	src := loadTwoStoreys(t)
	res, err := Run(context.Background(), src, Criteria{Stories: []string{"L1"}, Mode: ModeKeywordOnly})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Seeds != 0 {
		t.Fatalf("expected no seeds, got %d", res.Seeds)
	}
	if got := len(res.Model.ByType("IfcProject")); got != 1 {
		t.Fatalf("expected the project to be copied, got %d", got)
	}
	if got := len(res.Model.ByType("IfcProduct")); got != 0 {
		t.Fatalf("expected no products, got %d", got)
	}
}
