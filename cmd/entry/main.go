// Command entry is the interactive workflow for adding new stars to a
// catalog: it prompts for distances to reference systems, narrows the
// candidate coordinates down to one, and cross-checks every entered
// distance before accepting the star.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/starfix-data/starfix/internal/catalog"
	"github.com/starfix-data/starfix/internal/config"
	"github.com/starfix-data/starfix/internal/survey"
)

var (
	catalogPath = flag.String("catalog", "", "Path to a systems JSON catalog")
	dbPath      = flag.String("db", "", "Path to a sqlite catalog (alternative to -catalog)")
	budget      = flag.Int("budget", 0, "Explorer evaluation budget per run (0 = tuning default)")
	tuningPath  = flag.String("tuning", "", "Path to a JSON tuning config")
)

// terminalPrompter reads measurements from stdin the way a human enters
// them, re-asking on unparseable input.
type terminalPrompter struct {
	scanner *bufio.Scanner
}

func (p *terminalPrompter) Distance(system string) (float64, error) {
	for {
		fmt.Printf("Enter distance for %s: ", system)
		if !p.scanner.Scan() {
			return 0, io.EOF
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(p.scanner.Text()), 64)
		if err != nil {
			fmt.Println("Invalid distance.")
			continue
		}
		return v, nil
	}
}

func (p *terminalPrompter) StarName() (string, error) {
	fmt.Print("New star name? ")
	if !p.scanner.Scan() {
		return "", nil
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func main() {
	flag.Parse()

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
		*budget = tuning.GetBudget()
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

	surveyor := &survey.Surveyor{
		Catalog:  cat,
		Prompter: &terminalPrompter{scanner: bufio.NewScanner(os.Stdin)},
		Budget:   *budget,
	}

	var added []*catalog.Star
	for {
		star, err := surveyor.AddStar()
		if err != nil {
			log.Fatalf("entry failed: %v", err)
		}
		if star == nil {
			break
		}

		cat.Add(star)
		added = append(added, star)
		if store != nil {
			if err := store.UpsertStar(star); err != nil {
				log.Fatalf("failed to save %s: %v", star.Name, err)
			}
		}

		fmt.Printf("Successfully added %s\n", star.Name)
		fmt.Println("--------")
	}

	if len(added) > 0 {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "    ")
		if err := enc.Encode(added); err != nil {
			log.Fatalf("failed to encode new stars: %v", err)
		}
	}
}
