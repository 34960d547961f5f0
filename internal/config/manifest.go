package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var defaultManifest []byte

// Operator is one grid operator and its queue workbooks.
type Operator struct {
	Name       string   `yaml:"name"`
	QueueFiles []string `yaml:"queue_files"`
}

// StageFiles names a stage's input and output file.
type StageFiles struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
}

// MergeFiles lists the cleaned queue CSVs to join with the amenity reference.
type MergeFiles struct {
	Inputs      []string `yaml:"inputs"`
	FlagOpposed bool     `yaml:"flag_opposed"`
}

// ModelFiles configures the model run outputs.
type ModelFiles struct {
	ResidualPlot string `yaml:"residual_plot"`
}

// Manifest lists the files each stage reads and writes.
type Manifest struct {
	FuelType         string     `yaml:"fuel_type"`
	IncludeDeveloper bool       `yaml:"include_developer"`
	Operators        []Operator `yaml:"operators"`
	Amenity          StageFiles `yaml:"amenity"`
	Bryce            StageFiles `yaml:"bryce"`
	Locations        StageFiles `yaml:"locations"`
	GeoJSON          StageFiles `yaml:"geojson"`
	Merge            MergeFiles `yaml:"merge"`
	Models           ModelFiles `yaml:"models"`
}

// DefaultManifest returns the built-in manifest.
func DefaultManifest() (*Manifest, error) {
	return ParseManifest(defaultManifest)
}

// LoadManifest reads the manifest at path, or the built-in one when path is empty.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return DefaultManifest()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.FuelType == "" {
		return errors.New("manifest: fuel_type is required")
	}
	for i, op := range m.Operators {
		if op.Name == "" {
			return fmt.Errorf("manifest: operators[%d] has no name", i)
		}
	}
	if m.Amenity.Output == "" {
		return errors.New("manifest: amenity.output is required")
	}
	if m.Merge.FlagOpposed && m.Bryce.Output == "" {
		return errors.New("manifest: merge.flag_opposed needs bryce.output")
	}
	return nil
}

// QueueFiles returns every operator's queue workbooks in manifest order.
func (m *Manifest) QueueFiles() []string {
	var files []string
	for _, op := range m.Operators {
		files = append(files, op.QueueFiles...)
	}
	return files
}
