package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/OFFIS-RIT/ifcfilter/pkg/filter"

	"gopkg.in/yaml.v3"
)

// criteriaFlags holds the selection flags of the filter command. set names
// the flags given on the command line.
type criteriaFlags struct {
	stories      []string
	allStories   bool
	types        []string
	keywords     []string
	mode         string
	includeParts bool

	set map[string]bool
}

// readCriteriaFile reads a criteria document such as
//
//	stories: [L1, L2]
//	types: [IfcSlab]
//	keywords: [slab]
//	mode: type_and_keyword
func readCriteriaFile(path string) (filter.Criteria, error) {
	var c filter.Criteria
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("%w: %s: %v", filter.ErrInvalidCriteria, path, err)
	}
	return c, nil
}

// mergeCriteria lets flags given on the command line override base.
func mergeCriteria(base filter.Criteria, f criteriaFlags) (filter.Criteria, error) {
	c := base
	if f.set["story"] {
		c.Stories = f.stories
	}
	if f.set["all-stories"] {
		c.AllStories = f.allStories
	}
	if f.set["type"] {
		c.Types = f.types
	}
	if f.set["keyword"] {
		var keywords []string
		for _, k := range f.keywords {
			keywords = append(keywords, filter.SplitKeywords(k)...)
		}
		c.Keywords = keywords
	}
	if f.set["mode"] {
		c.Mode = filter.Mode(f.mode)
	}
	if f.set["include-parts"] {
		c.IncludeParts = f.includeParts
	}

	c, err := c.Normalize()
	if err != nil {
		return c, err
	}
	if !c.AllStories && len(c.Stories) == 0 {
		return c, fmt.Errorf("%w: select at least one story or pass --all-stories", filter.ErrInvalidCriteria)
	}
	return c, nil
}
