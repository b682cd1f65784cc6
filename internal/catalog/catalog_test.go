package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starfix-data/starfix/internal/geom"
)

const sampleJSON = `[
	{"name": "Sol", "x": 0, "y": 0, "z": 0},
	{"name": "Alioth", "x": -33.65625, "y": 72.46875, "z": -20.65625},
	{
		"name": "Surveyed",
		"x": 3, "y": 4, "z": 5,
		"calculated": true,
		"distances": [
			{"system": "Sol", "distance": 7.071},
			{"system": "Alioth", "distance": "88.123"},
			{"system": "Unknown Star", "distance": 1.234}
		]
	}
]`

func TestReadAcceptsNumberAndStringDistances(t *testing.T) {
	c, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	s := c.Lookup("Surveyed")
	if s == nil {
		t.Fatal("Lookup(Surveyed) = nil")
	}
	if got := float64(s.Distances[0].Distance); got != 7.071 {
		t.Errorf("numeric distance = %v, want 7.071", got)
	}
	if got := float64(s.Distances[1].Distance); got != 88.123 {
		t.Errorf("string distance = %v, want 88.123", got)
	}
}

func TestConnectionsSkipsUnknownReferences(t *testing.T) {
	c, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	conns := c.Connections(c.Lookup("Surveyed"))
	if len(conns) != 2 {
		t.Fatalf("got %d connections, want 2 (unknown reference skipped)", len(conns))
	}
	if conns[0].System != "Sol" || conns[0].Distance != 7.071 {
		t.Errorf("first connection = %+v", conns[0])
	}
	if conns[0].Location != (geom.Vec3{}) {
		t.Errorf("Sol location = %v, want origin", conns[0].Location)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	c, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-Read failed: %v", err)
	}

	if diff := cmp.Diff(c.All(), back.All()); diff != "" {
		t.Errorf("round trip mismatch (-orig +back):\n%s", diff)
	}
}

func TestAllSortedByName(t *testing.T) {
	c := New()
	c.Add(&Star{Name: "Zeta"})
	c.Add(&Star{Name: "Alpha"})
	c.Add(&Star{Name: "Mu"})

	var names []string
	for _, s := range c.All() {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"Alpha", "Mu", "Zeta"}, names); diff != "" {
		t.Errorf("All() order mismatch:\n%s", diff)
	}
}

func TestByNameLength(t *testing.T) {
	c := New()
	c.Add(&Star{Name: "Wolf 359"})
	c.Add(&Star{Name: "Sol"})
	c.Add(&Star{Name: "Ross 128"})
	c.Add(&Star{Name: "Alioth"})

	var names []string
	for _, s := range c.ByNameLength() {
		names = append(names, s.Name)
	}
	want := []string{"Sol", "Alioth", "Ross 128", "Wolf 359"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ByNameLength() order mismatch:\n%s", diff)
	}
}

func TestInvalidDistance(t *testing.T) {
	_, err := Read(strings.NewReader(`[{"name": "X", "x": 0, "y": 0, "z": 0,
		"distances": [{"system": "Sol", "distance": "not a number"}]}]`))
	if err == nil {
		t.Fatal("Read accepted an unparseable distance")
	}
}
