package ifc

import (
	"strings"
)

// Schema is the closed type tree of one IFC schema version. Ancestor sets and full
// attribute lists are computed once when the schema is built, so IsA is a map lookup.
type Schema struct {
	Name string

	types    map[string]*TypeDef
	inverses map[string]InverseDef
}

// TypeDef describes one entity type of a schema.
type TypeDef struct {
	Name   string
	Parent string
	// Attrs holds the full positional attribute list, inherited attributes first.
	Attrs []string

	ancestors map[string]struct{}
}

// InverseDef maps an inverse role such as "ContainedInStructure" to the relationship type
// and attribute that point at the entity.
type InverseDef struct {
	Role     string
	RelType  string
	RelAttr  string
	Multiple bool
}

type typeSpec struct {
	name   string
	parent string
	attrs  []string
}

var rootAttrs = []string{"GlobalId", "OwnerHistory", "Name", "Description"}

// baseAttrs names the attributes the filter reads, on the type that declares them. Their
// positions are identical in IFC2X3, IFC4 and IFC4X3.
var baseAttrs = map[string][]string{
	"IfcRoot":                            rootAttrs,
	"IfcObject":                          {"ObjectType"},
	"IfcProduct":                         {"ObjectPlacement", "Representation"},
	"IfcElement":                         {"Tag"},
	"IfcSpatialStructureElement":         {"LongName", "CompositionType"},
	"IfcSite":                            {"RefLatitude", "RefLongitude", "RefElevation", "LandTitleNumber", "SiteAddress"},
	"IfcBuilding":                        {"ElevationOfRefHeight", "ElevationOfTerrain", "BuildingAddress"},
	"IfcBuildingStorey":                  {"Elevation"},
	"IfcProject":                         {"LongName", "Phase", "RepresentationContexts", "UnitsInContext"},
	"IfcTypeObject":                      {"ApplicableOccurrence", "HasPropertySets"},
	"IfcTypeProduct":                     {"RepresentationMaps", "Tag"},
	"IfcElementType":                     {"ElementType"},
	"IfcRelContainedInSpatialStructure":  {"RelatedElements", "RelatingStructure"},
	"IfcRelReferencedInSpatialStructure": {"RelatedElements", "RelatingStructure"},
	"IfcRelVoidsElement":                 {"RelatingBuildingElement", "RelatedOpeningElement"},
	"IfcRelFillsElement":                 {"RelatingOpeningElement", "RelatedBuildingElement"},
	"IfcRelConnectsElements":             {"ConnectionGeometry", "RelatingElement", "RelatedElement"},
	"IfcRelConnectsPortToElement":        {"RelatingPort", "RelatedElement"},
	"IfcRelAggregates":                   {"RelatingObject", "RelatedObjects"},
	"IfcRelNests":                        {"RelatingObject", "RelatedObjects"},
	"IfcRelDefinesByProperties":          {"RelatedObjects", "RelatingPropertyDefinition"},
	"IfcRelDefinesByType":                {"RelatedObjects", "RelatingType"},
	"IfcRelDefinesByObject":              {"RelatedObjects", "RelatingObject"},
	"IfcRelAssociates":                   {"RelatedObjects"},
	"IfcRelAssociatesMaterial":           {"RelatingMaterial"},
	"IfcRelAssociatesClassification":     {"RelatingClassification"},
	"IfcRelAssociatesDocument":           {"RelatingDocument"},
	"IfcRelAssigns":                      {"RelatedObjects", "RelatedObjectsType"},
	"IfcRelAssignsToGroup":               {"RelatingGroup"},
	"IfcRelAssignsToProduct":             {"RelatingProduct"},
	"IfcRelDeclares":                     {"RelatingContext", "RelatedDefinitions"},
	"IfcPropertySet":                     {"HasProperties"},
	"IfcElementQuantity":                 {"MethodOfMeasurement", "Quantities"},
}

// ifc4Attrs moves LongName up to IfcSpatialElement and the project attributes to
// IfcContext, which keeps the positions of both subtrees.
var ifc4Attrs = map[string][]string{
	"IfcSpatialElement":          {"LongName"},
	"IfcSpatialStructureElement": {"CompositionType"},
	"IfcContext":                 {"ObjectType", "LongName", "Phase", "RepresentationContexts", "UnitsInContext"},
	"IfcProject":                 nil,
}

// resourceTypes are entities outside IfcRoot whose attributes are read by name.
var resourceTypes = []typeSpec{
	{"IfcOwnerHistory", "", []string{
		"OwningUser", "OwningApplication", "State", "ChangeAction",
		"LastModifiedDate", "LastModifyingUser", "LastModifyingApplication", "CreationDate",
	}},
}

var inverseDefs = []InverseDef{
	{Role: "ContainedInStructure", RelType: "IfcRelContainedInSpatialStructure", RelAttr: "RelatedElements", Multiple: true},
	{Role: "ContainsElements", RelType: "IfcRelContainedInSpatialStructure", RelAttr: "RelatingStructure", Multiple: false},
	{Role: "Decomposes", RelType: "IfcRelAggregates", RelAttr: "RelatedObjects", Multiple: true},
	{Role: "IsDecomposedBy", RelType: "IfcRelAggregates", RelAttr: "RelatingObject", Multiple: false},
	{Role: "IsDefinedBy", RelType: "IfcRelDefines", RelAttr: "RelatedObjects", Multiple: true},
	{Role: "HasAssociations", RelType: "IfcRelAssociates", RelAttr: "RelatedObjects", Multiple: true},
	{Role: "ReferencedInStructures", RelType: "IfcRelReferencedInSpatialStructure", RelAttr: "RelatedElements", Multiple: true},
}

var (
	schemaIFC2X3 = buildSchema("IFC2X3", parseTree(ifc2x3Tree), baseAttrs)
	schemaIFC4   = buildSchema("IFC4", parseTree(ifc4Tree), baseAttrs, ifc4Attrs)
	schemaIFC4X3 = buildSchema("IFC4X3", builtElementRename(parseTree(ifc4Tree, ifc4x3Patch)), baseAttrs, ifc4Attrs)
)

// SchemaFor returns the schema matching a FILE_SCHEMA identifier such as "IFC4" or
// "IFC4X3_ADD2". Unknown identifiers fall back to IFC4.
func SchemaFor(identifier string) *Schema {
	id := strings.ToUpper(strings.TrimSpace(identifier))
	switch {
	case strings.HasPrefix(id, "IFC2X3"):
		return schemaIFC2X3
	case strings.HasPrefix(id, "IFC4X3"):
		return schemaIFC4X3
	default:
		return schemaIFC4
	}
}

func buildSchema(name string, parents map[string]string, attrs ...map[string][]string) *Schema {
	specs := make(map[string]typeSpec, len(parents)+len(resourceTypes))
	for child, parent := range parents {
		spec := typeSpec{name: child, parent: parent}
		for _, table := range attrs {
			if declared, ok := table[child]; ok {
				spec.attrs = declared
			}
		}
		specs[strings.ToUpper(child)] = spec
	}
	for _, t := range resourceTypes {
		specs[strings.ToUpper(t.name)] = t
	}

	s := &Schema{
		Name:     name,
		types:    make(map[string]*TypeDef, len(specs)),
		inverses: make(map[string]InverseDef, len(inverseDefs)),
	}

	var resolve func(key string) *TypeDef
	resolve = func(key string) *TypeDef {
		if def, ok := s.types[key]; ok {
			return def
		}
		spec := specs[key]
		def := &TypeDef{
			Name:      spec.name,
			Parent:    spec.parent,
			ancestors: map[string]struct{}{key: {}},
		}
		if spec.parent != "" {
			parent := resolve(strings.ToUpper(spec.parent))
			def.Attrs = append(def.Attrs, parent.Attrs...)
			for a := range parent.ancestors {
				def.ancestors[a] = struct{}{}
			}
		}
		def.Attrs = append(def.Attrs, spec.attrs...)
		s.types[key] = def
		return def
	}
	for key := range specs {
		resolve(key)
	}

	for _, inv := range inverseDefs {
		s.inverses[inv.Role] = inv
	}
	return s
}

// Lookup returns the definition of a STEP type keyword, case-insensitively.
func (s *Schema) Lookup(typeName string) (*TypeDef, bool) {
	def, ok := s.types[strings.ToUpper(typeName)]
	return def, ok
}

// IsA reports whether typeName equals ancestor or derives from it.
func (s *Schema) IsA(typeName, ancestor string) bool {
	t := strings.ToUpper(typeName)
	a := strings.ToUpper(ancestor)
	if t == a {
		return true
	}
	def, ok := s.types[t]
	if !ok {
		return false
	}
	_, ok = def.ancestors[a]
	return ok
}

// AttrIndex returns the position of a named attribute for a type.
func (s *Schema) AttrIndex(typeName, attr string) (int, bool) {
	def, ok := s.Lookup(typeName)
	if !ok {
		return 0, false
	}
	for i, name := range def.Attrs {
		if name == attr {
			return i, true
		}
	}
	return 0, false
}

// CanonicalName returns the mixed-case schema name of a type keyword, or the keyword
// itself for types the schema does not know.
func (s *Schema) CanonicalName(typeName string) string {
	if def, ok := s.Lookup(typeName); ok {
		return def.Name
	}
	return typeName
}

// Inverse returns the definition of an inverse role.
func (s *Schema) Inverse(role string) (InverseDef, bool) {
	inv, ok := s.inverses[role]
	return inv, ok
}
