package filter

import (
	"slices"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
)

// Summary lists the choices a user can filter a model by.
type Summary struct {
	Schema       string   `json:"schema"`
	Stories      []string `json:"stories"`
	ProductTypes []string `json:"product_types"`
	Products     int      `json:"products"`
	Entities     int      `json:"entities"`
}

// Inspect returns the storey names in source order and the sorted product types of m.
func Inspect(m *ifc.Model) Summary {
	s := Summary{
		Schema:       m.SchemaName,
		Stories:      []string{},
		ProductTypes: []string{},
		Entities:     m.Len(),
	}

	seenStories := make(map[string]struct{})
	for _, storey := range m.ByType("IfcBuildingStorey") {
		name, ok := storey.Name()
		if !ok || name == "" {
			continue
		}
		if _, dup := seenStories[name]; dup {
			continue
		}
		seenStories[name] = struct{}{}
		s.Stories = append(s.Stories, name)
	}

	seenTypes := make(map[string]struct{})
	for _, product := range m.ByType("IfcProduct") {
		s.Products++
		name := product.TypeName()
		if _, dup := seenTypes[name]; dup {
			continue
		}
		seenTypes[name] = struct{}{}
		s.ProductTypes = append(s.ProductTypes, name)
	}
	slices.Sort(s.ProductTypes)

	return s
}
