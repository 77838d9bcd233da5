package filter

import (
	"fmt"
	"slices"
	"strings"
)

// Mode decides how the type and keyword predicates are combined.
type Mode string

const (
	ModeTypeAndKeyword Mode = "type_and_keyword"
	ModeTypeOnly       Mode = "type_only"
	ModeKeywordOnly    Mode = "keyword_only"
)

// Labels the desktop and web front ends sent for the three modes.
var modeAliases = map[string]Mode{
	"type_and_keyword":         ModeTypeAndKeyword,
	"ifc types and keywords":   ModeTypeAndKeyword,
	"ifc product and keywords": ModeTypeAndKeyword,
	"type_only":                ModeTypeOnly,
	"ifc types only":           ModeTypeOnly,
	"ifc product only":         ModeTypeOnly,
	"keyword_only":             ModeKeywordOnly,
	"keywords only":            ModeKeywordOnly,
	"":                         ModeTypeAndKeyword,
}

// Story names that stand for "every storey" in story lists coming from the front ends.
var allStoriesSentinels = []string{"All Stories", "Keep All Stories"}

// ParseMode accepts the canonical mode names as well as the front end labels.
func ParseMode(s string) (Mode, error) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown mode %q: %w", s, ErrInvalidCriteria)
	}
	return m, nil
}

// Criteria is the user's selection request.
type Criteria struct {
	Stories    []string `json:"stories" yaml:"stories"`
	AllStories bool     `json:"all_stories" yaml:"all_stories"`
	// Types is an optional list of IFC product types. Empty means no type filter.
	Types    []string `json:"types" yaml:"types"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Mode     Mode     `json:"mode" yaml:"mode"`
	// IncludeParts also copies the aggregated parts of selected elements, e.g. the flights
	// of a stair or the plates of a curtain wall.
	IncludeParts bool `json:"include_parts" yaml:"include_parts"`
}

// Normalize resolves mode labels, drops blank keywords and types, and completes bare type
// names such as "Slab" to their IFC spelling.
func (c Criteria) Normalize() (Criteria, error) {
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return c, err
	}
	c.Mode = mode
	c.Keywords = compact(c.Keywords)
	c.Types = typeNames(compact(c.Types))
	c.Stories = compact(c.Stories)
	if slices.ContainsFunc(c.Stories, isAllStoriesSentinel) {
		c.AllStories = true
		c.Stories = nil
	}
	return c, nil
}

// ActiveKeywords returns the lower-cased, non-blank keywords.
func (c Criteria) ActiveKeywords() []string {
	var out []string
	for _, k := range c.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// SplitKeywords turns a comma separated keyword field into a keyword list.
func SplitKeywords(s string) []string {
	return compact(strings.Split(s, ","))
}

func isAllStoriesSentinel(s string) bool {
	for _, sentinel := range allStoriesSentinels {
		if strings.EqualFold(strings.TrimSpace(s), sentinel) {
			return true
		}
	}
	return false
}

func typeNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if len(t) < 3 || !strings.EqualFold(t[:3], "ifc") {
			t = "Ifc" + t
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
