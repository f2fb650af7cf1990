package scorecard

import (
	"github.com/dinneroo/zonescore/internal/domain/model"
	"github.com/dinneroo/zonescore/internal/domain/types"
)

// Annotate derives the evidence level for a set of factor scores.
//
// Validated requires at least minMeasured factors backed by real data
// drawn from at least two independent source types (the behavioral +
// survey triangulation rule), and a composite that covered every track.
// Corroborated requires at least one measured factor. Everything else is
// Estimated.
func Annotate(scores []FactorScore, minMeasured int, trackPartial bool) types.EvidenceLevel {
	measured := 0
	sources := make(map[model.Source]struct{})
	for _, fs := range scores {
		if fs.HasData && fs.Source.Measured() {
			measured++
			sources[fs.Source] = struct{}{}
		}
	}
	switch {
	case measured >= minMeasured && len(sources) >= 2 && !trackPartial:
		return types.EvidenceValidated
	case measured >= 1:
		return types.EvidenceCorroborated
	default:
		return types.EvidenceEstimated
	}
}
