// Command genmock writes a small, deterministic set of input fixtures for a
// local pipeline run: one queue workbook per operator file named in the
// manifest, the packed natural amenity CSV, the opposed projects workbook,
// and the locations table.
//
// Usage:
//
//	go run ./cmd/genmock -data-dir data -rows 40
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/interconnection-etl/internal/adapter/excel"
	"github.com/couchcryptid/interconnection-etl/internal/config"
	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

type county struct {
	name  string
	state string // two-letter code
	fips  string
	tier  int
	rank  int
}

// Counties are ordered from least to most scenic so that in-service projects
// can be drawn from the front of the list.
var counties = []county{
	{"Benton", "IN", "18007", 1, 3050},
	{"Tazewell", "IL", "17179", 1, 3000},
	{"Somerset", "PA", "42111", 2, 2500},
	{"Steuben", "NY", "36101", 2, 2600},
	{"Lewis", "NY", "36049", 3, 2100},
	{"Chautauqua", "NY", "36013", 3, 1800},
	{"Aroostook", "ME", "23003", 4, 1000},
	{"Jefferson", "NY", "36045", 5, 600},
	{"Berkshire", "MA", "25003", 5, 500},
	{"Coos", "NH", "33007", 6, 200},
}

var fuelTypes = []string{"W", "W", "W", "S", "NG", "ES"}

var developers = []string{"Acme Wind", "Northern Breeze LLC", "Ridge Renewables", "Lakeshore Power"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "data", "directory to write fixtures to")
	trainingDir := flag.String("training-dir", "", "directory for queue workbooks (default: <data-dir>/training)")
	manifestPath := flag.String("manifest", "", "YAML manifest (default: built-in)")
	rows := flag.Int("rows", 40, "rows per queue workbook")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}
	if *trainingDir == "" {
		*trainingDir = filepath.Join(*dataDir, "training")
	}

	manifest, err := config.LoadManifest(*manifestPath)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(*seed, *seed>>32))

	for _, op := range manifest.Operators {
		for _, name := range op.QueueFiles {
			path := filepath.Join(*trainingDir, name)
			if err := excel.Write(path, "Sheet1", queueTable(rng, domain.StatusFromName(name), *rows)); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
			log.Printf("wrote queue workbook: %s", path)
		}
	}

	fixtures := []struct {
		name string
		save func(path string) error
	}{
		{manifest.Amenity.Source, func(p string) error { return table.Save(p, amenityTable()) }},
		{manifest.Bryce.Source, func(p string) error { return excel.Write(p, "Sheet1", bryceTable()) }},
		{manifest.Locations.Source, func(p string) error { return table.Save(p, locationsTable(rng)) }},
	}
	for _, f := range fixtures {
		if f.name == "" {
			continue
		}
		path := filepath.Join(*dataDir, f.name)
		if err := f.save(path); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		log.Printf("wrote fixture: %s", path)
	}
	return nil
}

func queueTable(rng *rand.Rand, status domain.Status, n int) *table.Table {
	t := table.New("Position", "Type", "County", "State", "Developer Name", "Project Name")
	for i := range n {
		c := pickCounty(rng, status)
		raw := c.name
		if rng.IntN(2) == 0 {
			raw += " County"
		}
		t.Append(
			strconv.Itoa(100+i),
			fuelTypes[rng.IntN(len(fuelTypes))],
			raw,
			c.state,
			developers[rng.IntN(len(developers))],
			fmt.Sprintf("%s Wind %d", c.name, i),
		)
	}
	return t
}

// pickCounty skews in-service projects toward low amenity tiers and
// withdrawn ones toward high tiers.
func pickCounty(rng *rand.Rand, status domain.Status) county {
	half := len(counties) / 2
	switch {
	case status == domain.StatusInService && rng.IntN(4) > 0:
		return counties[rng.IntN(half)]
	case status == domain.StatusWithdrawn && rng.IntN(4) > 0:
		return counties[half+rng.IntN(len(counties)-half)]
	default:
		return counties[rng.IntN(len(counties))]
	}
}

func amenityTable() *table.Table {
	t := table.New("County", "State", "NaturalAmenityTier", "NaturalAmenityRank")
	for _, c := range counties {
		state := strings.ReplaceAll(domain.ExpandState(c.state), " ", "")
		cell := fmt.Sprintf("County(%s %sCounty %s US)", c.fips, c.name, state)
		t.Append(cell, c.state, strconv.Itoa(c.tier), strconv.Itoa(c.rank))
	}
	return t
}

func bryceTable() *table.Table {
	t := table.New("Entity", "Government", "State", "Year")
	t.Append("Lewis County Board of Legislators", "Lewis County", "NY", "2019")
	t.Append("Cape Vincent Township Board", "Town of Cape Vincent, Jefferson County", "NY", "2020")
	t.Append("Berkshire County Commission", "Berkshire County", "MA", "2018")
	t.Append("Residents for Responsible Siting", "", "ME", "2021")
	return t
}

func locationsTable(rng *rand.Rand) *table.Table {
	t := table.New("Project Name", "County", "State", "Developer Name", "Points of Interconnection")
	for i, c := range counties {
		if c.state != "NY" {
			continue
		}
		t.Append(
			fmt.Sprintf("%s Ridge Wind", c.name),
			c.name,
			domain.ExpandState(c.state),
			developers[rng.IntN(len(developers))],
			fmt.Sprintf("%s %dkV", c.name, 115+i*5),
		)
	}
	return t
}
