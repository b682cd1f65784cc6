// Package catalog manages the star catalog: the JSON interchange format
// used by community distance collections and a sqlite-backed store for
// local work.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/starfix-data/starfix/internal/geom"
	"github.com/starfix-data/starfix/internal/solver"
)

// Distance is a reported distance value. Community catalogs are not
// consistent about encoding distances as JSON numbers or strings, so both
// are accepted on decode.
type Distance float64

// UnmarshalJSON accepts either 3.456 or "3.456".
func (d *Distance) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid distance %s: %v", b, err)
	}
	*d = Distance(v)
	return nil
}

// DistanceRecord is one measured distance from a star to a reference
// system.
type DistanceRecord struct {
	System   string   `json:"system"`
	Distance Distance `json:"distance"`
}

// Star is one catalog record. Calculated marks coordinates derived from
// distance measurements rather than taken from an authoritative source;
// only calculated stars carry the distance list that produced them.
type Star struct {
	Name       string           `json:"name"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Z          float64          `json:"z"`
	Calculated bool             `json:"calculated,omitempty"`
	Distances  []DistanceRecord `json:"distances,omitempty"`
}

// Location returns the star's coordinates as a vector.
func (s *Star) Location() geom.Vec3 {
	return geom.Vec3{X: s.X, Y: s.Y, Z: s.Z}
}

// Catalog is an in-memory, name-keyed star collection.
type Catalog struct {
	stars map[string]*Star
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{stars: make(map[string]*Star)}
}

// Load reads a JSON star list from path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON star list.
func Read(r io.Reader) (*Catalog, error) {
	var stars []*Star
	if err := json.NewDecoder(r).Decode(&stars); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %v", err)
	}
	c := New()
	for _, s := range stars {
		c.stars[s.Name] = s
	}
	return c, nil
}

// Add inserts or replaces a star.
func (c *Catalog) Add(s *Star) {
	c.stars[s.Name] = s
}

// Lookup returns the star with the given name, or nil.
func (c *Catalog) Lookup(name string) *Star {
	return c.stars[name]
}

// Len returns the number of stars in the catalog.
func (c *Catalog) Len() int {
	return len(c.stars)
}

// All returns every star sorted by name, for deterministic iteration.
func (c *Catalog) All() []*Star {
	stars := make([]*Star, 0, len(c.stars))
	for _, s := range c.stars {
		stars = append(stars, s)
	}
	sort.Slice(stars, func(i, j int) bool { return stars[i].Name < stars[j].Name })
	return stars
}

// ByNameLength returns every star sorted by name length then name. The
// entry workflow offers the shortest names first since a human has to type
// them repeatedly.
func (c *Catalog) ByNameLength() []*Star {
	stars := c.All()
	sort.SliceStable(stars, func(i, j int) bool { return len(stars[i].Name) < len(stars[j].Name) })
	return stars
}

// Connections resolves a star's distance records into solver constraints,
// skipping references to systems the catalog does not know.
func (c *Catalog) Connections(s *Star) []solver.Constraint {
	var conns []solver.Constraint
	for _, rec := range s.Distances {
		ref := c.stars[rec.System]
		if ref == nil {
			continue
		}
		conns = append(conns, solver.Constraint{
			System:   rec.System,
			Location: ref.Location(),
			Distance: float64(rec.Distance),
		})
	}
	return conns
}

// Write encodes the full catalog as an indented JSON star list.
func (c *Catalog) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c.All())
}

// Save writes the catalog to path.
func (c *Catalog) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
