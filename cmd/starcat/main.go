// Command starcat is the catalog utility: it moves star records between
// the JSON interchange format and the sqlite store, lists stored stars and
// solver runs, and manages schema migrations.
//
// Usage:
//
//	starcat -db systems.db import systems.json
//	starcat -db systems.db export systems.json
//	starcat -db systems.db list
//	starcat -db systems.db runs "Star Name"
//	starcat -db systems.db migrate up|down|version
//	starcat -db systems.db migrate force <version>
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/starfix-data/starfix/internal/catalog"
)

var (
	dbPath        = flag.String("db", "systems.db", "Path to the sqlite catalog")
	migrationsDir = flag.String("migrations", "migrations", "Path to the migrations directory")
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: starcat [flags] import|export|list|runs|migrate ...")
	}

	store, err := catalog.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open catalog db: %v", err)
	}
	defer store.Close()

	switch flag.Arg(0) {
	case "import":
		if flag.NArg() != 2 {
			log.Fatal("usage: starcat import <systems.json>")
		}
		cat, err := catalog.Load(flag.Arg(1))
		if err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
		if err := store.ImportCatalog(cat); err != nil {
			log.Fatalf("import failed: %v", err)
		}
		log.Printf("imported %d stars", cat.Len())

	case "export":
		if flag.NArg() != 2 {
			log.Fatal("usage: starcat export <systems.json>")
		}
		cat, err := store.LoadCatalog()
		if err != nil {
			log.Fatalf("failed to read store: %v", err)
		}
		if err := cat.Save(flag.Arg(1)); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		log.Printf("exported %d stars", cat.Len())

	case "list":
		cat, err := store.LoadCatalog()
		if err != nil {
			log.Fatalf("failed to read store: %v", err)
		}
		for _, star := range cat.All() {
			tag := ""
			if star.Calculated {
				tag = fmt.Sprintf(" (calculated, %d distances)", len(star.Distances))
			}
			fmt.Printf("%s: (%g, %g, %g)%s\n", star.Name, star.X, star.Y, star.Z, tag)
		}

	case "runs":
		if flag.NArg() != 2 {
			log.Fatal("usage: starcat runs <star name>")
		}
		runs, err := store.ListRuns(flag.Arg(1))
		if err != nil {
			log.Fatalf("failed to list runs: %v", err)
		}
		for _, r := range runs {
			fmt.Printf("%s %s: %s, %d evaluations, %d candidates\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.ID, r.Outcome, r.Evaluations, r.Candidates)
		}

	case "migrate":
		runMigrate(store)

	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
}

func runMigrate(store *catalog.Store) {
	if flag.NArg() < 2 {
		log.Fatal("usage: starcat migrate up|down|version|force ...")
	}
	switch flag.Arg(1) {
	case "up":
		if err := store.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("migrate up failed: %v", err)
		}
	case "down":
		if err := store.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("migrate down failed: %v", err)
		}
	case "version":
		version, dirty, err := store.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("migrate version failed: %v", err)
		}
		fmt.Printf("version %d, dirty=%v\n", version, dirty)
	case "force":
		if flag.NArg() != 3 {
			log.Fatal("usage: starcat migrate force <version>")
		}
		v, err := strconv.Atoi(flag.Arg(2))
		if err != nil {
			log.Fatalf("invalid version %q: %v", flag.Arg(2), err)
		}
		if err := store.MigrateForce(*migrationsDir, v); err != nil {
			log.Fatalf("migrate force failed: %v", err)
		}
	default:
		log.Fatalf("unknown migrate subcommand %q", flag.Arg(1))
	}
}
