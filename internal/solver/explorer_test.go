package solver

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starfix-data/starfix/internal/geom"
)

// constraintsFrom builds a constraint set whose reported distances are
// consistent with a hidden true location. Anchors are sorted by name so
// the constraint order, and with it the search trajectory, is fixed.
func constraintsFrom(truth geom.Vec3, anchors map[string]geom.Vec3) []Constraint {
	names := make([]string, 0, len(anchors))
	for name := range anchors {
		names = append(names, name)
	}
	sort.Strings(names)

	var constraints []Constraint
	for _, name := range names {
		constraints = append(constraints, Constraint{
			System:   name,
			Location: anchors[name],
			Distance: reported(truth, anchors[name]),
		})
	}
	return constraints
}

var (
	truePoint = geom.Vec3{X: 3, Y: 4, Z: 5}

	// Three anchors in the z=0 plane: enough to pin x and y but leaves a
	// mirror ambiguity in z.
	coplanarAnchors = map[string]geom.Vec3{
		"a": {},
		"b": {X: 10},
		"c": {Y: 10},
	}

	// A fourth anchor off the plane breaks the mirror.
	offPlaneAnchor = geom.Vec3{Z: 10}
)

func fourAnchors() map[string]geom.Vec3 {
	anchors := map[string]geom.Vec3{"d": offPlaneAnchor}
	for name, loc := range coplanarAnchors {
		anchors[name] = loc
	}
	return anchors
}

func TestExploreUniqueWithFourAnchors(t *testing.T) {
	e := NewExplorer(constraintsFrom(truePoint, fourAnchors()), 20000)

	seed := geom.Vec3{X: 3.1, Y: 3.9, Z: 5.05}
	if err := e.Explore(seed); err != nil {
		t.Fatalf("Explore failed: %v", err)
	}

	want := []geom.Vec3{truePoint}
	if diff := cmp.Diff(want, e.CorrectLocations()); diff != "" {
		t.Errorf("CorrectLocations mismatch (-want +got):\n%s", diff)
	}
	if e.Evaluations() == 0 {
		t.Error("Evaluations = 0, expected some work to have happened")
	}
}

func TestExploreMirrorAmbiguityWithThreeAnchors(t *testing.T) {
	constraints := constraintsFrom(truePoint, coplanarAnchors)

	seeds, err := Trilaterate(constraints)
	if err != nil {
		t.Fatalf("Trilaterate failed: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("Trilaterate returned %d seeds, want 2", len(seeds))
	}

	e := NewExplorer(constraints, 20000)
	for _, seed := range seeds {
		if err := e.Explore(seed); err != nil {
			t.Fatalf("Explore(%v) failed: %v", seed, err)
		}
	}

	locations := e.CorrectLocations()
	if len(locations) != 2 {
		t.Fatalf("found %d correct locations %v, want 2", len(locations), locations)
	}
	mirror := geom.Vec3{X: truePoint.X, Y: truePoint.Y, Z: -truePoint.Z}
	found := map[geom.Vec3]bool{locations[0]: true, locations[1]: true}
	if !found[truePoint] || !found[mirror] {
		t.Errorf("locations = %v, want %v and its mirror %v", locations, truePoint, mirror)
	}
}

func TestExploreFourthAnchorResolvesMirror(t *testing.T) {
	// Same scenario, but reusing the coplanar seeds against the enlarged
	// constraint set, as the interactive workflow does after requesting
	// one more distance.
	coplanar := constraintsFrom(truePoint, coplanarAnchors)
	seeds, err := Trilaterate(coplanar)
	if err != nil || len(seeds) != 2 {
		t.Fatalf("Trilaterate = %v, %v; want 2 seeds", seeds, err)
	}

	full := append(coplanar, Constraint{
		System:   "d",
		Location: offPlaneAnchor,
		Distance: reported(truePoint, offPlaneAnchor),
	})

	e := NewExplorer(full, 20000)
	for _, seed := range seeds {
		if err := e.Explore(seed); err != nil {
			t.Fatalf("Explore(%v) failed: %v", seed, err)
		}
	}

	want := []geom.Vec3{truePoint}
	if diff := cmp.Diff(want, e.CorrectLocations()); diff != "" {
		t.Errorf("CorrectLocations mismatch (-want +got):\n%s", diff)
	}
}

func TestExploreDeterministic(t *testing.T) {
	run := func() ([]geom.Vec3, int) {
		e := NewExplorer(constraintsFrom(truePoint, fourAnchors()), 20000)
		if err := e.Explore(geom.Vec3{X: 3.1, Y: 3.9, Z: 5.05}); err != nil {
			t.Fatalf("Explore failed: %v", err)
		}
		return e.CorrectLocations(), e.Evaluations()
	}

	locs1, evals1 := run()
	locs2, evals2 := run()
	if diff := cmp.Diff(locs1, locs2); diff != "" {
		t.Errorf("runs disagree on locations (-first +second):\n%s", diff)
	}
	if evals1 != evals2 {
		t.Errorf("runs disagree on evaluation count: %d vs %d", evals1, evals2)
	}
}

func TestExploreRepeatAddsNothing(t *testing.T) {
	e := NewExplorer(constraintsFrom(truePoint, fourAnchors()), 20000)
	seed := geom.Vec3{X: 3.1, Y: 3.9, Z: 5.05}

	if err := e.Explore(seed); err != nil {
		t.Fatalf("Explore failed: %v", err)
	}
	locations := append([]geom.Vec3(nil), e.CorrectLocations()...)
	evaluations := e.Evaluations()

	// Every coordinate is already cached, so a repeat run must not
	// re-evaluate anything or append duplicates.
	if err := e.Explore(seed); err != nil {
		t.Fatalf("repeat Explore failed: %v", err)
	}
	if e.Evaluations() != evaluations {
		t.Errorf("repeat run evaluated new coordinates: %d -> %d", evaluations, e.Evaluations())
	}
	if diff := cmp.Diff(locations, e.CorrectLocations()); diff != "" {
		t.Errorf("repeat run changed correct locations (-before +after):\n%s", diff)
	}
}

func TestCorrectLocationsGridAlignedAndZero(t *testing.T) {
	constraints := constraintsFrom(truePoint, fourAnchors())
	e := NewExplorer(constraints, 20000)
	if err := e.Explore(geom.Vec3{X: 3.1, Y: 3.9, Z: 5.05}); err != nil {
		t.Fatalf("Explore failed: %v", err)
	}

	m := NewErrorModel(constraints)
	for _, loc := range e.CorrectLocations() {
		if !geom.OnGrid(loc) {
			t.Errorf("correct location %v is not grid-aligned", loc)
		}
		if err := m.TotalError(loc); err != 0 {
			t.Errorf("re-evaluated error at %v = %v, want exactly 0", loc, err)
		}
	}
}

func TestExploreBudgetExceeded(t *testing.T) {
	// A single constraint leaves a whole spherical shell of zero error,
	// far larger than any reasonable budget can enumerate.
	constraints := []Constraint{{
		System:   "a",
		Location: geom.Vec3{},
		Distance: 10,
	}}

	const budget = 50
	e := NewExplorer(constraints, budget)
	err := e.Explore(geom.Vec3{X: 10})
	if err == nil {
		t.Fatal("Explore succeeded, want budget exceeded")
	}
	if !IsBudgetError(err) {
		t.Fatalf("Explore error = %v, want *BudgetError", err)
	}
	if e.Evaluations() > budget+1 {
		t.Errorf("cache grew to %d entries, should stop at %d", e.Evaluations(), budget+1)
	}
}
