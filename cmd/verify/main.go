// Command verify re-derives the coordinates of every calculated star in a
// catalog from its stored distance list and reports any that no longer
// check out.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/starfix-data/starfix/internal/catalog"
	"github.com/starfix-data/starfix/internal/config"
	"github.com/starfix-data/starfix/internal/survey"
	"github.com/starfix-data/starfix/internal/version"
)

var (
	catalogPath = flag.String("catalog", "", "Path to a systems JSON catalog")
	dbPath      = flag.String("db", "", "Path to a sqlite catalog (alternative to -catalog)")
	budget      = flag.Int("budget", 0, "Evaluation budget per star (0 = tuning default)")
	tuningPath  = flag.String("tuning", "", "Path to a JSON tuning config")
	record      = flag.Bool("record", false, "Record run outcomes in the sqlite catalog (needs -db)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func failure(message string) {
	fmt.Println("******************************")
	fmt.Println(message)
	fmt.Println("******************************")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if (*catalogPath == "") == (*dbPath == "") {
		log.Fatal("exactly one of -catalog or -db is required")
	}

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}
	if *budget <= 0 {
		*budget = tuning.GetVerifyBudget()
	}

	var cat *catalog.Catalog
	var store *catalog.Store
	var err error
	if *dbPath != "" {
		store, err = catalog.NewStore(*dbPath)
		if err != nil {
			log.Fatalf("failed to open catalog db: %v", err)
		}
		defer store.Close()
		cat, err = store.LoadCatalog()
	} else {
		cat, err = catalog.Load(*catalogPath)
	}
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	failures := 0
	for _, result := range survey.VerifyCatalog(cat, *budget) {
		name := result.Star.Name
		switch result.Outcome {
		case survey.VerifyOK:
			fmt.Printf("Success: %s: Verified location after evaluating %d points\n", name, result.Evaluations)
		case survey.VerifyBudget:
			failure(fmt.Sprintf("Failure: %s: Took too many iterations", name))
		case survey.VerifyNotFound:
			failure(fmt.Sprintf("Failure: %s: Couldn't find a correct location", name))
		case survey.VerifyAmbiguous:
			failure(fmt.Sprintf("Failure: %s: Found %d correct locations", name, len(result.Locations)))
		case survey.VerifyMismatch:
			failure(fmt.Sprintf("Failure: %s: Found location %v, but doesn't match original location %v",
				name, result.Locations[0], result.Star.Location()))
		}
		if result.Outcome != survey.VerifyOK {
			failures++
		}

		if *record && store != nil {
			_, err := store.RecordRun(name, result.Evaluations, len(result.Locations), string(result.Outcome))
			if err != nil {
				log.Printf("failed to record run for %s: %v", name, err)
			}
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}
