package survey

import (
	"github.com/starfix-data/starfix/internal/catalog"
	"github.com/starfix-data/starfix/internal/geom"
	"github.com/starfix-data/starfix/internal/monitoring"
	"github.com/starfix-data/starfix/internal/solver"
)

// VerifyOutcome classifies the result of re-deriving a star's coordinates
// from its stored distance list.
type VerifyOutcome string

const (
	VerifyOK        VerifyOutcome = "ok"
	VerifySkipped   VerifyOutcome = "skipped"
	VerifyBudget    VerifyOutcome = "budget_exceeded"
	VerifyNotFound  VerifyOutcome = "no_location"
	VerifyAmbiguous VerifyOutcome = "ambiguous"
	VerifyMismatch  VerifyOutcome = "mismatch"
)

// VerifyResult is the verification outcome for one star.
type VerifyResult struct {
	Star        *catalog.Star
	Outcome     VerifyOutcome
	Evaluations int
	Locations   []geom.Vec3
}

// VerifyStar re-derives a calculated star's coordinates from its distance
// list with the minimizer-free grid walker, seeded at the stored
// coordinate. A star verifies when the walker finds exactly one zero-error
// grid point and it equals the stored location.
//
// The walker is used instead of the full minimizer search because the
// stored coordinate is already grid-aligned, which is exactly the case the
// cheaper variant handles; see solver.Walker.
func VerifyStar(c *catalog.Catalog, star *catalog.Star, budget int) VerifyResult {
	result := VerifyResult{Star: star}

	if !star.Calculated || len(star.Distances) == 0 {
		monitoring.Logf("verify: skipping %s: no calculated location or no distances", star.Name)
		result.Outcome = VerifySkipped
		return result
	}
	connections := c.Connections(star)
	if len(connections) == 0 {
		monitoring.Logf("verify: skipping %s: no reference system is in the catalog", star.Name)
		result.Outcome = VerifySkipped
		return result
	}

	walker := solver.NewWalker(connections, budget)
	err := walker.Explore(star.Location())
	result.Evaluations = walker.Evaluations()
	result.Locations = walker.CorrectLocations()

	switch {
	case err != nil:
		result.Outcome = VerifyBudget
	case len(result.Locations) == 0:
		result.Outcome = VerifyNotFound
	case len(result.Locations) > 1:
		result.Outcome = VerifyAmbiguous
	case result.Locations[0] != star.Location():
		result.Outcome = VerifyMismatch
	default:
		result.Outcome = VerifyOK
	}
	return result
}

// VerifyCatalog verifies every calculated star, in name order.
func VerifyCatalog(c *catalog.Catalog, budget int) []VerifyResult {
	var results []VerifyResult
	for _, star := range c.All() {
		if !star.Calculated || len(star.Distances) == 0 {
			continue
		}
		results = append(results, VerifyStar(c, star, budget))
	}
	return results
}
