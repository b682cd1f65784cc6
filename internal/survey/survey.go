// Package survey implements the interactive workflow that pins down a new
// star's coordinates: trilaterate a first estimate from three reference
// distances, enumerate the candidate coordinates consistent with the
// quantized measurements, and keep requesting distances to well-chosen
// reference systems until a single candidate survives.
package survey

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/starfix-data/starfix/internal/catalog"
	"github.com/starfix-data/starfix/internal/geom"
	"github.com/starfix-data/starfix/internal/solver"
)

var (
	// ErrNoSeed means the initial three distances describe spheres that do
	// not intersect; at least one of them is wrong.
	ErrNoSeed = errors.New("trilateration produced no seed estimate")

	// ErrNoSolution means no grid coordinate matched every distance.
	ErrNoSolution = errors.New("no coordinate matches all distances")

	// ErrInconsistent means two connection subsets settled on different
	// coordinates, so one of the entered distances must be wrong.
	ErrInconsistent = errors.New("connection subsets disagree on the coordinate")

	// ErrNoReference means the catalog has no unused star left to
	// disambiguate with.
	ErrNoReference = errors.New("no reference star left to disambiguate with")
)

// Prompter supplies the measurements only a human (or a test script) can
// provide.
type Prompter interface {
	// Distance asks for the reported distance to the named system.
	Distance(system string) (float64, error)
	// StarName asks for the next star to enter; empty means stop.
	StarName() (string, error)
}

// Surveyor drives candidate elimination against a catalog.
type Surveyor struct {
	Catalog  *catalog.Catalog
	Prompter Prompter
	Budget   int       // explorer evaluation budget per run
	Out      io.Writer // progress output; defaults to stdout
}

func (s *Surveyor) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return os.Stdout
}

// EliminateCandidates narrows the candidate coordinates for the given
// connection set down to one, prompting for additional reference distances
// whenever more than one candidate survives. It returns the grown
// connection set and the single surviving coordinate.
//
// Stars named in ignore are never offered as new references (used by the
// leave-one-out audit, where the dropped connection must stay dropped).
func (s *Surveyor) EliminateCandidates(connections []solver.Constraint, ignore map[string]bool) ([]solver.Constraint, geom.Vec3, error) {
	connections = append([]solver.Constraint(nil), connections...)

	seeds, err := solver.Trilaterate(connections[:3])
	if err != nil {
		return nil, geom.Vec3{}, err
	}
	if len(seeds) == 0 {
		return nil, geom.Vec3{}, ErrNoSeed
	}

	for {
		explorer := solver.NewExplorer(connections, s.Budget)
		for _, seed := range seeds {
			if err := explorer.Explore(seed); err != nil {
				return nil, geom.Vec3{}, err
			}
		}

		candidates := explorer.CorrectLocations()
		if len(candidates) == 0 {
			return nil, geom.Vec3{}, ErrNoSolution
		}

		fmt.Fprintf(s.out(), "Evaluated %d locations\n", explorer.Evaluations())

		if len(candidates) == 1 {
			fmt.Fprintf(s.out(), "Found single correct location: %v\n", candidates[0])
			return connections, candidates[0], nil
		}

		fmt.Fprintf(s.out(), "Found %d candidate locations\n", len(candidates))

		used := make(map[string]bool, len(connections))
		for _, c := range connections {
			used[c.System] = true
		}
		for name := range ignore {
			used[name] = true
		}

		ref := s.nextReference(candidates, used)
		if ref == nil {
			return nil, geom.Vec3{}, ErrNoReference
		}

		distance, err := s.Prompter.Distance(ref.Name)
		if err != nil {
			return nil, geom.Vec3{}, err
		}
		connections = append(connections, solver.Constraint{
			System:   ref.Name,
			Location: ref.Location(),
			Distance: distance,
		})
	}
}

// nextReference picks the reference star that eliminates the most
// candidates in the worst case: candidates are partitioned by their
// display distance to the star, and the star whose largest partition is
// smallest wins. With 4 candidates, a star splitting them 2/2 beats one
// splitting 3/1, since whatever distance comes back, at most 2 survive. Ties
// prefer shorter names (less typing), then lexicographic order for
// determinism.
func (s *Surveyor) nextReference(candidates []geom.Vec3, used map[string]bool) *catalog.Star {
	var best *catalog.Star
	bestWorst := 0

	for _, star := range s.Catalog.All() {
		if used[star.Name] {
			continue
		}

		byDistance := make(map[float64]int)
		for _, c := range candidates {
			byDistance[geom.DisplayDistance(star.Location(), c)]++
		}
		worst := 0
		for _, n := range byDistance {
			if n > worst {
				worst = n
			}
		}

		switch {
		case best == nil,
			worst < bestWorst,
			worst == bestWorst && len(star.Name) < len(best.Name),
			worst == bestWorst && len(star.Name) == len(best.Name) && star.Name < best.Name:
			best, bestWorst = star, worst
		}
	}
	return best
}

// AddStar runs the full new-star entry flow: three initial reference
// distances, candidate elimination, a mandatory fourth reference as a
// cross-check, and a leave-one-out audit of every connection so a single
// bad distance cannot slip into the catalog. Returns nil, nil when the
// prompter reports there is nothing more to enter.
func (s *Surveyor) AddStar() (*catalog.Star, error) {
	var name string
	for {
		var err error
		name, err = s.Prompter.StarName()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, nil
		}
		if s.Catalog.Lookup(name) == nil {
			break
		}
		fmt.Fprintf(s.out(), "That star is already known.\n")
	}

	refs := s.Catalog.ByNameLength()
	if len(refs) < 4 {
		return nil, fmt.Errorf("catalog too small: need at least 4 reference stars, have %d", len(refs))
	}

	var connections []solver.Constraint
	for _, ref := range refs[:3] {
		d, err := s.Prompter.Distance(ref.Name)
		if err != nil {
			return nil, err
		}
		connections = append(connections, solver.Constraint{
			System:   ref.Name,
			Location: ref.Location(),
			Distance: d,
		})
	}

	connections, location, err := s.EliminateCandidates(connections, nil)
	if err != nil {
		return nil, err
	}

	// Three distances always leave a mirror ambiguity risk, so a fourth
	// reference off the anchors' plane is mandatory.
	if len(connections) == 3 {
		ref := refs[3]
		d, err := s.Prompter.Distance(ref.Name)
		if err != nil {
			return nil, err
		}
		connections = append(connections, solver.Constraint{
			System:   ref.Name,
			Location: ref.Location(),
			Distance: d,
		})
		previous := location
		connections, location, err = s.EliminateCandidates(connections, nil)
		if err != nil {
			return nil, err
		}
		if location != previous {
			return nil, ErrInconsistent
		}
	}

	all := append([]solver.Constraint(nil), connections...)
	audited := connections

	// Drop each connection in turn and confirm the rest still settle on
	// the same coordinate, requesting more data when they cannot.
	for _, dropped := range audited {
		test := make([]solver.Constraint, 0, len(all)-1)
		for _, c := range all {
			if c.System != dropped.System {
				test = append(test, c)
			}
		}

		fmt.Fprintf(s.out(), "Testing without %s\n", dropped.System)

		grown, testLocation, err := s.EliminateCandidates(test, map[string]bool{dropped.System: true})
		if err != nil {
			return nil, err
		}
		if testLocation != location {
			return nil, ErrInconsistent
		}

		known := make(map[string]bool, len(all))
		for _, c := range all {
			known[c.System] = true
		}
		for _, c := range grown {
			if !known[c.System] {
				all = append(all, c)
			}
		}
	}

	fmt.Fprintf(s.out(), "Doing sanity check on the final set of connections\n")

	final, finalLocation, err := s.EliminateCandidates(all, nil)
	if err != nil {
		return nil, err
	}
	if len(final) != len(all) {
		return nil, fmt.Errorf("final connection set was not sufficient on its own")
	}
	if finalLocation != location {
		return nil, ErrInconsistent
	}

	star := &catalog.Star{
		Name:       name,
		X:          location.X,
		Y:          location.Y,
		Z:          location.Z,
		Calculated: true,
	}
	for _, c := range all {
		star.Distances = append(star.Distances, catalog.DistanceRecord{
			System:   c.System,
			Distance: catalog.Distance(c.Distance),
		})
	}
	sort.Slice(star.Distances, func(i, j int) bool {
		return star.Distances[i].System < star.Distances[j].System
	})
	return star, nil
}
