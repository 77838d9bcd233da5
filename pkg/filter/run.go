package filter

import (
	"context"
	"time"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
)

// Result is the outcome of one filter run.
type Result struct {
	Model            *ifc.Model
	Seeds            int
	Entities         int
	ContainmentEdges int
	AggregationEdges int
	Duration         time.Duration
}

// Run selects the elements matching criteria and builds the self-contained subset model.
// The source is only read. Cancellation is checked before and after the build.
func Run(ctx context.Context, source *ifc.Model, criteria Criteria) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seeds, err := Select(source, criteria)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		logger.Warn("[Filter] No elements match the criteria, result holds the project only")
	}

	b := NewBuilder(source, WithParts(criteria.IncludeParts))
	dst, groups, err := b.Build(seeds)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := Materialize(dst, b.OwnerHistory(), groups); err != nil {
		return nil, err
	}

	res := &Result{
		Model:            dst,
		Seeds:            len(seeds),
		Entities:         dst.Len(),
		ContainmentEdges: groups.ContainedIn.Len(),
		AggregationEdges: groups.Aggregates.Len(),
		Duration:         time.Since(start),
	}
	logger.Info("[Filter] Built subset model",
		"seeds", res.Seeds,
		"entities", res.Entities,
		"source_entities", source.Len(),
		"duration", res.Duration,
	)
	return res, nil
}
