package filter

import (
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

// GlobalIds of testdata/two_storeys.ifc.
const (
	guidProject  = "0Prj100000000000000000"
	guidBuilding = "0Bld100000000000000000"
	guidL1       = "0Sty100000000000000000"
	guidL2       = "0Sty200000000000000000"
	guidSlabA    = "0Slb100000000000000000"
	guidSlabB    = "0Slb200000000000000000"
	guidSlabC    = "0Slb300000000000000000"
	guidWall     = "0Wal100000000000000000"
	guidBeam     = "0Bem100000000000000000"
	guidSlabType = "0Typ100000000000000000"
)

func loadTwoStoreys(t *testing.T) *ifc.Model {
	t.Helper()
	m, err := ifc.ReadFile(filepath.Join("testdata", "two_storeys.ifc"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return m
}

// fixture builds small models in code for the hierarchy edge cases.
type fixture struct {
	t       *testing.T
	m       *ifc.Model
	history *ifc.Entity
	project *ifc.Entity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newSchemaFixture(t, "IFC4")
}

func newSchemaFixture(t *testing.T, schema string) *fixture {
	t.Helper()
	f := &fixture{t: t, m: ifc.NewModel(schema)}
	f.history = f.create("IfcOwnerHistory", nil)
	f.project = f.named("IfcProject", "Project")
	return f
}

func (f *fixture) create(typ string, attrs map[string]ifc.Value) *ifc.Entity {
	f.t.Helper()
	if attrs == nil {
		attrs = make(map[string]ifc.Value)
	}
	if f.m.Schema().IsA(typ, "IfcRoot") {
		if _, ok := attrs["GlobalId"]; !ok {
			attrs["GlobalId"] = ifc.String(ifc.NewGlobalID())
		}
		attrs["OwnerHistory"] = ifc.Ref(f.history.ID)
	}
	e, err := f.m.CreateNamed(typ, attrs)
	if err != nil {
		f.t.Fatalf("failed to create %s: %v", typ, err)
	}
	return e
}

func (f *fixture) named(typ, name string) *ifc.Entity {
	f.t.Helper()
	return f.create(typ, map[string]ifc.Value{"Name": ifc.String(name)})
}

func (f *fixture) aggregate(parent *ifc.Entity, children ...*ifc.Entity) *ifc.Entity {
	f.t.Helper()
	return f.create("IfcRelAggregates", map[string]ifc.Value{
		"RelatingObject": ifc.Ref(parent.ID),
		"RelatedObjects": ifc.RefList(ids(children)...),
	})
}

func (f *fixture) contain(structure *ifc.Entity, elements ...*ifc.Entity) *ifc.Entity {
	f.t.Helper()
	return f.create("IfcRelContainedInSpatialStructure", map[string]ifc.Value{
		"RelatedElements":   ifc.RefList(ids(elements)...),
		"RelatingStructure": ifc.Ref(structure.ID),
	})
}

func ids(es []*ifc.Entity) []uint64 {
	out := make([]uint64, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func guids(t *testing.T, es []*ifc.Entity) []string {
	t.Helper()
	out := make([]string, len(es))
	for i, e := range es {
		g, ok := e.GlobalID()
		if !ok {
			t.Fatalf("%s has no GlobalId", e)
		}
		out[i] = g
	}
	return out
}

func guid(t *testing.T, e *ifc.Entity) string {
	t.Helper()
	return guids(t, []*ifc.Entity{e})[0]
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// reachesProject follows containment and aggregation upward from e.
func reachesProject(m *ifc.Model, e *ifc.Entity) bool {
	seen := make(map[uint64]struct{})
	stack := []*ifc.Entity{e}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.IsA("IfcProject") {
			return true
		}
		if _, ok := seen[cur.ID]; ok {
			continue
		}
		seen[cur.ID] = struct{}{}
		for _, rel := range m.Inverse(cur, "ContainedInStructure") {
			if s, ok := rel.AttrEntity("RelatingStructure"); ok {
				stack = append(stack, s)
			}
		}
		for _, rel := range m.Inverse(cur, "Decomposes") {
			if p, ok := rel.AttrEntity("RelatingObject"); ok {
				stack = append(stack, p)
			}
		}
	}
	return false
}

func mustEntity(t *testing.T, m *ifc.Model, guid string) *ifc.Entity {
	t.Helper()
	e, ok := m.ByGlobalID(guid)
	if !ok {
		t.Fatalf("no entity with GlobalId %s", guid)
	}
	return e
}
