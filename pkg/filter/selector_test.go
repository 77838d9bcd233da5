package filter

import (
	"errors"
	"slices"
	"testing"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

func TestSelect(t *testing.T) {
	m := loadTwoStoreys(t)

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "TypeAndKeyword",
			criteria: Criteria{Stories: []string{"L1"}, Types: []string{"IfcSlab"}, Keywords: []string{"slab"}, Mode: ModeTypeAndKeyword},
			want:     []string{guidSlabA, guidSlabB},
		},
		{
			name:     "KeywordCaseInsensitive",
			criteria: Criteria{Stories: []string{"L1"}, Keywords: []string{"SLAB"}, Mode: ModeKeywordOnly},
			want:     []string{guidSlabA, guidSlabB},
		},
		{
			name:     "KeywordAnyOf",
			criteria: Criteria{Stories: []string{"L1"}, Keywords: []string{"floor", "wall"}, Mode: ModeKeywordOnly},
			want:     []string{guidSlabB, guidWall},
		},
		{
			name:     "TypeOnlyIgnoresKeywords",
			criteria: Criteria{Stories: []string{"L1"}, Types: []string{"IfcSlab"}, Keywords: []string{"nothing"}, Mode: ModeTypeOnly},
			want:     []string{guidSlabA, guidSlabB},
		},
		{
			name:     "TypeIncludesSubtypes",
			criteria: Criteria{Stories: []string{"L1"}, Types: []string{"IfcBuildingElement"}, Mode: ModeTypeOnly},
			want:     []string{guidSlabA, guidSlabB, guidWall, guidBeam},
		},
		{
			name:     "EmptyKeywordsUnconstrained",
			criteria: Criteria{Stories: []string{"L1"}, Types: []string{"IfcSlab"}, Keywords: []string{"", "  "}, Mode: ModeTypeAndKeyword},
			want:     []string{guidSlabA, guidSlabB},
		},
		{
			name:     "EmptyKeywordsKeywordOnly",
			criteria: Criteria{Stories: []string{"L1"}, Keywords: nil, Mode: ModeKeywordOnly},
			want:     nil,
		},
		{
			name:     "UnnamedNeverMatchesKeyword",
			criteria: Criteria{Stories: []string{"L1"}, Types: []string{"IfcBeam"}, Keywords: []string{"a"}, Mode: ModeTypeAndKeyword},
			want:     nil,
		},
		{
			name:     "UnnamedMatchesType",
			criteria: Criteria{Stories: []string{"L1"}, Types: []string{"IfcBeam"}, Mode: ModeTypeOnly},
			want:     []string{guidBeam},
		},
		{
			name:     "OtherStory",
			criteria: Criteria{Stories: []string{"L2"}, Types: []string{"IfcSlab"}, Mode: ModeTypeOnly},
			want:     []string{guidSlabC},
		},
		{
			name:     "AllStoriesFlag",
			criteria: Criteria{AllStories: true, Types: []string{"IfcSlab"}, Mode: ModeTypeOnly},
			want:     []string{guidSlabA, guidSlabB, guidSlabC},
		},
		{
			name:     "AllStoriesSentinel",
			criteria: Criteria{Stories: []string{"Keep All Stories"}, Types: []string{"IfcSlab"}, Mode: "IFC types only"},
			want:     []string{guidSlabA, guidSlabB, guidSlabC},
		},
		{
			name:     "NoTypeFilter",
			criteria: Criteria{Stories: []string{"L1", "L2"}, Keywords: []string{"slab"}},
			want:     []string{guidSlabA, guidSlabB, guidSlabC},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Select(m, tc.criteria)
			if err != nil {
				t.Fatalf("Select error: %v", err)
			}
			if !equalStrings(guids(t, got), tc.want) {
				t.Fatalf("got %v, want %v", guids(t, got), tc.want)
			}
		})
	}
}

func TestSelect_NoMatchingStories(t *testing.T) {
	m := loadTwoStoreys(t)

	for _, c := range []Criteria{
		{Stories: []string{"L9"}},
		{Stories: []string{"l1"}},
		{},
	} {
		_, err := Select(m, c)
		if !errors.Is(err, ErrNoMatchingStories) {
			t.Fatalf("stories %v: expected ErrNoMatchingStories, got %v", c.Stories, err)
		}
	}

	empty := newFixture(t).m
	if _, err := Select(empty, Criteria{AllStories: true}); !errors.Is(err, ErrNoMatchingStories) {
		t.Fatalf("expected ErrNoMatchingStories for a model without storeys, got %v", err)
	}
}

func TestSelect_InvalidMode(t *testing.T) {
	m := loadTwoStoreys(t)
	_, err := Select(m, Criteria{Stories: []string{"L1"}, Mode: "fuzzy"})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestSelect_MultipleContainment(t *testing.T) {
	f := newFixture(t)
	l1 := f.named("IfcBuildingStorey", "L1")
	l2 := f.named("IfcBuildingStorey", "L2")
	proxy := f.named("IfcBuildingElementProxy", "Shaft")
	f.contain(l1, proxy)
	f.contain(l2, proxy)

	got, err := Select(f.m, Criteria{Stories: []string{"L2"}, Mode: ModeTypeOnly})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(got) != 1 || got[0] != proxy {
		t.Fatalf("expected the shaft once, got %v", got)
	}
}

func TestSelect_IFC4ElementTypes(t *testing.T) {
	f := newFixture(t)
	l1 := f.named("IfcBuildingStorey", "L1")
	door := f.named("IfcDoor", "Door")
	doorCase := f.named("IfcDoorStandardCase", "Door 2")
	chair := f.named("IfcFurniture", "Chair")
	floor := f.named("IfcSlabStandardCase", "Floor")
	valve := f.named("IfcValve", "Valve")
	wall := f.named("IfcWallElementedCase", "Stud wall")
	rebar := f.named("IfcReinforcingBar", "Bar")
	f.contain(l1, door, doorCase, chair, floor, valve, wall, rebar)

	tests := []struct {
		name     string
		criteria Criteria
		want     []*ifc.Entity
	}{
		{"DoorSubtypes", Criteria{Types: []string{"IfcDoor"}, Mode: ModeTypeOnly}, []*ifc.Entity{door, doorCase}},
		{"BareTypeName", Criteria{Types: []string{"Slab"}, Mode: ModeTypeOnly}, []*ifc.Entity{floor}},
		{"FurnishingElement", Criteria{Types: []string{"IfcFurnishingElement"}, Mode: ModeTypeOnly}, []*ifc.Entity{chair}},
		{"FlowController", Criteria{Types: []string{"IfcFlowController"}, Mode: ModeTypeOnly}, []*ifc.Entity{valve}},
		{"DistributionElement", Criteria{Types: []string{"IfcDistributionElement"}, Mode: ModeTypeOnly}, []*ifc.Entity{valve}},
		{"ElementComponent", Criteria{Types: []string{"IfcElementComponent"}, Mode: ModeTypeOnly}, []*ifc.Entity{rebar}},
		{"WallSubtypes", Criteria{Types: []string{"IfcWall"}, Mode: ModeTypeOnly}, []*ifc.Entity{wall}},
		{"KeywordOnFurniture", Criteria{Keywords: []string{"chair"}, Mode: ModeKeywordOnly}, []*ifc.Entity{chair}},
		{"NoTypeFilter", Criteria{Mode: ModeTypeOnly}, []*ifc.Entity{door, doorCase, chair, floor, valve, wall, rebar}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.criteria.Stories = []string{"L1"}
			got, err := Select(f.m, tc.criteria)
			if err != nil {
				t.Fatalf("Select error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
