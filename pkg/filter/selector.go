package filter

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
)

// Select returns the products of model that satisfy the criteria, in source order.
func Select(model *ifc.Model, criteria Criteria) ([]*ifc.Entity, error) {
	c, err := criteria.Normalize()
	if err != nil {
		return nil, err
	}

	stories, err := resolveStories(model, c)
	if err != nil {
		return nil, err
	}
	keywords := c.ActiveKeywords()

	var out []*ifc.Entity
	for _, product := range model.ByType("IfcProduct") {
		if !onSelectedStory(model, product, stories) {
			continue
		}
		matchType := matchesType(product, c.Types)
		matchKeyword := matchesKeyword(product, keywords, c.Mode)

		var keep bool
		switch c.Mode {
		case ModeTypeOnly:
			keep = matchType
		case ModeKeywordOnly:
			keep = matchKeyword
		default:
			keep = matchType && matchKeyword
		}
		if keep {
			out = append(out, product)
		}
	}

	logger.Debug("[Select] Selected elements", "count", len(out), "stories", len(stories), "mode", c.Mode)
	return out, nil
}

// resolveStories maps the requested story names to the storeys of the model.
func resolveStories(model *ifc.Model, c Criteria) (map[uint64]struct{}, error) {
	wanted := make(map[string]struct{}, len(c.Stories))
	for _, name := range c.Stories {
		wanted[name] = struct{}{}
	}

	stories := make(map[uint64]struct{})
	for _, storey := range model.ByType("IfcBuildingStorey") {
		if c.AllStories {
			stories[storey.ID] = struct{}{}
			continue
		}
		name, ok := storey.Name()
		if !ok {
			continue
		}
		if _, ok := wanted[name]; ok {
			stories[storey.ID] = struct{}{}
		}
	}

	if len(stories) == 0 {
		if c.AllStories {
			return nil, fmt.Errorf("model has no IfcBuildingStorey: %w", ErrNoMatchingStories)
		}
		return nil, fmt.Errorf("%s: %w", strings.Join(c.Stories, ", "), ErrNoMatchingStories)
	}
	return stories, nil
}

// onSelectedStory reports direct containment of e in one of the selected storeys.
func onSelectedStory(model *ifc.Model, e *ifc.Entity, stories map[uint64]struct{}) bool {
	for _, rel := range model.Inverse(e, "ContainedInStructure") {
		structure, ok := rel.AttrEntity("RelatingStructure")
		if !ok {
			continue
		}
		if _, ok := stories[structure.ID]; ok {
			return true
		}
	}
	return false
}

func matchesType(e *ifc.Entity, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if e.IsA(t) {
			return true
		}
	}
	return false
}

// matchesKeyword is a case-insensitive substring match against the element name. An
// empty keyword set constrains nothing, except in keyword-only mode where it selects
// nothing.
func matchesKeyword(e *ifc.Entity, keywords []string, mode Mode) bool {
	if len(keywords) == 0 {
		return mode != ModeKeywordOnly
	}
	name, ok := e.Name()
	if !ok {
		return false
	}
	name = strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
