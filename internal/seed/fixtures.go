package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// Fixtures is the hand-written reference data every environment starts with.
type Fixtures struct {
	Categories []CategoryFixture `yaml:"categories"`
	Tags       []TagFixture      `yaml:"tags"`
	Genres     []GenreFixture    `yaml:"genres"`
	CrewRoles  []CrewRoleFixture `yaml:"crew_roles"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type TagFixture struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Description string `yaml:"description"`
}

type GenreFixture struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type CrewRoleFixture struct {
	Role       string `yaml:"role"`
	Department string `yaml:"department"`
}

// LoadFixtures parses the embedded fixture file.
func LoadFixtures() (*Fixtures, error) {
	return parseFixtures(fixturesYAML)
}

func parseFixtures(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixtures: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("seed fixtures define no forum categories")
	}
	if len(f.CrewRoles) == 0 {
		return nil, fmt.Errorf("seed fixtures define no crew roles")
	}
	return &f, nil
}
