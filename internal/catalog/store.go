package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/starfix-data/starfix/internal/timeutil"
)

// Store is the sqlite-backed catalog. It holds the same star records as
// the JSON interchange format plus a history of solver runs.
type Store struct {
	*sql.DB
	clock timeutil.Clock
}

// NewStore opens (or creates) the catalog database at path and ensures the
// base schema exists. Use ":memory:" for an ephemeral store.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS stars (
			name              TEXT PRIMARY KEY,
			x                 DOUBLE,
			y                 DOUBLE,
			z                 DOUBLE,
			calculated        INTEGER DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS star_distances (
			star              TEXT,
			reference         TEXT,
			distance          DOUBLE,
			PRIMARY KEY (star, reference),
			FOREIGN KEY (star) REFERENCES stars(name)
		);
		CREATE TABLE IF NOT EXISTS solver_runs (
			run_id            TEXT PRIMARY KEY,
			star              TEXT,
			evaluations       BIGINT,
			candidates        BIGINT,
			outcome           TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{DB: db, clock: timeutil.RealClock{}}, nil
}

// UpsertStar writes a star record and its distance list, replacing any
// previous version.
func (s *Store) UpsertStar(star *Star) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO stars (name, x, y, z, calculated) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET x=excluded.x, y=excluded.y, z=excluded.z, calculated=excluded.calculated`,
		star.Name, star.X, star.Y, star.Z, star.Calculated)
	if err != nil {
		return fmt.Errorf("failed to upsert star %q: %v", star.Name, err)
	}

	if _, err := tx.Exec(`DELETE FROM star_distances WHERE star = ?`, star.Name); err != nil {
		return fmt.Errorf("failed to clear distances for %q: %v", star.Name, err)
	}
	for _, rec := range star.Distances {
		_, err := tx.Exec(`INSERT INTO star_distances (star, reference, distance) VALUES (?, ?, ?)`,
			star.Name, rec.System, float64(rec.Distance))
		if err != nil {
			return fmt.Errorf("failed to insert distance %q -> %q: %v", star.Name, rec.System, err)
		}
	}

	return tx.Commit()
}

// GetStar reads one star record with its distance list. Returns nil, nil
// when the star is unknown.
func (s *Store) GetStar(name string) (*Star, error) {
	star := &Star{}
	var calculated int
	err := s.QueryRow(`SELECT name, x, y, z, calculated FROM stars WHERE name = ?`, name).
		Scan(&star.Name, &star.X, &star.Y, &star.Z, &calculated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	star.Calculated = calculated != 0

	rows, err := s.Query(`SELECT reference, distance FROM star_distances WHERE star = ? ORDER BY reference`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rec DistanceRecord
		var d float64
		if err := rows.Scan(&rec.System, &d); err != nil {
			return nil, err
		}
		rec.Distance = Distance(d)
		star.Distances = append(star.Distances, rec)
	}
	return star, rows.Err()
}

// LoadCatalog reads the entire store into an in-memory catalog.
func (s *Store) LoadCatalog() (*Catalog, error) {
	rows, err := s.Query(`SELECT name FROM stars ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c := New()
	for _, name := range names {
		star, err := s.GetStar(name)
		if err != nil {
			return nil, err
		}
		c.Add(star)
	}
	return c, nil
}

// ImportCatalog writes every star of an in-memory catalog into the store.
func (s *Store) ImportCatalog(c *Catalog) error {
	for _, star := range c.All() {
		if err := s.UpsertStar(star); err != nil {
			return err
		}
	}
	return nil
}

// Run is one recorded solver invocation.
type Run struct {
	ID          string
	Star        string
	Evaluations int
	Candidates  int
	Outcome     string
	Timestamp   time.Time
}

// RecordRun stores the outcome of a solver run and returns its generated
// id.
func (s *Store) RecordRun(star string, evaluations, candidates int, outcome string) (string, error) {
	id := uuid.NewString()
	_, err := s.Exec(`INSERT INTO solver_runs (run_id, star, evaluations, candidates, outcome, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		id, star, evaluations, candidates, outcome, s.clock.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record run for %q: %v", star, err)
	}
	return id, nil
}

// ListRuns returns recorded runs for a star, most recent first.
func (s *Store) ListRuns(star string) ([]Run, error) {
	rows, err := s.Query(`
		SELECT run_id, star, evaluations, candidates, outcome, timestamp
		FROM solver_runs WHERE star = ? ORDER BY timestamp DESC`, star)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Star, &r.Evaluations, &r.Candidates, &r.Outcome, &r.Timestamp); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
