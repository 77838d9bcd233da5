package filter

import (
	"path/filepath"
	"strings"
	"unicode"
)

// OutputName derives the result file name from the input name and the criteria, e.g.
// "tower_stories_L1_product_IfcSlab_keywords_Slab.ifc".
func OutputName(input string, criteria Criteria) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "model"
	}

	c, err := criteria.Normalize()
	if err != nil {
		c = criteria
	}

	stories := "all"
	if !c.AllStories && len(c.Stories) > 0 {
		stories = strings.Join(c.Stories, "_")
	}
	parts := []string{base, "stories", stories}
	if len(c.Types) > 0 {
		parts = append(parts, "product", strings.Join(c.Types, "_"))
	}
	if keywords := compact(c.Keywords); len(keywords) > 0 {
		parts = append(parts, "keywords", strings.Join(keywords, "_"))
	}

	return sanitizeName(strings.Join(parts, "_")) + ".ifc"
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			return r
		}
		return '-'
	}, s)
}
