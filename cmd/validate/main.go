// Command validate checks the outputs of a pipeline run for the invariants
// downstream consumers rely on: normalized county and state names in the
// cleaned queues and amenity reference, tiers within range in the merged
// files, and a well-formed GeoJSON document.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/interconnection-etl/internal/config"
	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory holding stage outputs")
	trainingDir := flag.String("training-dir", "", "directory holding queue and merged CSVs (default: <data-dir>/training)")
	manifestPath := flag.String("manifest", "", "YAML manifest (default: built-in)")
	flag.Parse()

	if *trainingDir == "" {
		*trainingDir = filepath.Join(*dataDir, "training")
	}
	manifest, err := config.LoadManifest(*manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	os.Exit(run(*dataDir, *trainingDir, manifest))
}

func run(dataDir, trainingDir string, m *config.Manifest) int {
	fmt.Println("=== Interconnection Output Validation ===")
	fmt.Println()

	phases := []*phase{
		validateQueues(trainingDir, m),
		validateAmenities(filepath.Join(dataDir, m.Amenity.Output)),
		validateMerged(trainingDir, m.Merge.Inputs),
		validateGeoJSON(filepath.Join(dataDir, m.GeoJSON.Output)),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func load(path string) (*table.Table, error) {
	if !table.Exists(path) {
		return nil, fmt.Errorf("%s: not found", path)
	}
	return table.Load(path, observability.DiscardLogger())
}

// checkLocation reports a county that still carries the word "County" or a
// state that is not a full state name.
func checkLocation(p *phase, where string, county, state string) {
	if strings.Contains(county, "County") {
		p.errorf("%s: county %q still contains \"County\"", where, county)
	}
	if state == "" {
		return
	}
	if !domain.IsStateName(state) {
		p.errorf("%s: state %q is not a full state name", where, state)
	}
}

func validateQueues(dir string, m *config.Manifest) *phase {
	p := &phase{name: "Cleaned queues"}
	for _, name := range m.QueueFiles() {
		saveName := domain.QueueSaveName(name)
		path := filepath.Join(dir, saveName)
		if !table.Exists(path) {
			continue
		}
		t, err := load(path)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		want := fmt.Sprint(int(domain.StatusFromName(name)))
		for i := range t.Rows {
			where := fmt.Sprintf("%s row %d", saveName, i)
			if got := t.Get(i, "Type"); got != m.FuelType {
				p.errorf("%s: fuel type %q, want %q", where, got, m.FuelType)
			}
			if got := t.Get(i, "Indicator"); got != want {
				p.errorf("%s: indicator %q, want %q", where, got, want)
			}
			checkLocation(p, where, t.Get(i, "County"), t.Get(i, "State"))
		}
	}
	return p
}

func validateAmenities(path string) *phase {
	p := &phase{name: "Amenity reference"}
	t, err := load(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for i := range t.Rows {
		where := fmt.Sprintf("%s row %d", filepath.Base(path), i)
		county := t.Get(i, "County")
		if county == "" {
			p.errorf("%s: empty county", where)
		}
		checkLocation(p, where, county, t.Get(i, "State"))
		checkTier(p, where, t, i)
	}
	return p
}

func checkTier(p *phase, where string, t *table.Table, i int) {
	if t.Get(i, "NaturalAmenityTier") == "" {
		return
	}
	tier, ok := t.Float(i, "NaturalAmenityTier")
	if !ok || tier < 1 || tier > 7 {
		p.errorf("%s: tier %q outside 1 to 7", where, t.Get(i, "NaturalAmenityTier"))
	}
}

func validateMerged(dir string, inputs []string) *phase {
	p := &phase{name: "Merged training files"}
	for _, name := range inputs {
		path := filepath.Join(dir, "merged_"+name)
		if !table.Exists(path) {
			continue
		}
		t, err := load(path)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		for i := range t.Rows {
			checkTier(p, fmt.Sprintf("%s row %d", filepath.Base(path), i), t, i)
		}
	}
	return p
}

func validateGeoJSON(path string) *phase {
	p := &phase{name: "GeoJSON FeatureCollection"}
	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	var fc domain.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		p.errorf("decode %s: %v", path, err)
		return p
	}
	if fc.Type != "FeatureCollection" {
		p.errorf("type %q, want FeatureCollection", fc.Type)
	}
	for i, f := range fc.Features {
		where := fmt.Sprintf("feature %d (%s)", i, f.Properties.Title)
		if f.Type != "Feature" || f.Geometry.Type != "Point" {
			p.errorf("%s: type %q geometry %q", where, f.Type, f.Geometry.Type)
		}
		if len(f.Geometry.Coordinates) != 2 {
			p.errorf("%s: %d coordinates, want 2", where, len(f.Geometry.Coordinates))
			continue
		}
		lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
			p.errorf("%s: [%v, %v] is not [lon, lat]", where, lon, lat)
		}
		want := domain.Key{County: f.Properties.County, State: f.Properties.State}.String()
		if f.Properties.Description != want {
			p.errorf("%s: description %q, want %q", where, f.Properties.Description, want)
		}
	}
	return p
}
