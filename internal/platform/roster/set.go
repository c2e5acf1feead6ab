package roster

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type fileSchema struct {
	TrackedClub  []string `yaml:"tracked_club"`
	Opponents    []Entry  `yaml:"opponents"`
	Stadiums     []Entry  `yaml:"stadiums"`
	Competitions []Entry  `yaml:"competitions"`
}

// Set bundles every roster one scrape run needs.
type Set struct {
	TrackedClub  []string
	Opponents    *List
	Stadiums     *List
	Competitions *List
}

// Default returns the season rosters compiled into the binary.
func Default() Set {
	set, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded roster is invalid: %v", err))
	}
	return set
}

// LoadFile reads rosters from a YAML file. An empty path yields Default.
func LoadFile(path string) (Set, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read roster file %s: %w", path, err)
	}
	set, err := Parse(raw)
	if err != nil {
		return Set{}, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	return set, nil
}

func Parse(raw []byte) (Set, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return Set{}, err
	}

	tracked := make([]string, 0, len(schema.TrackedClub))
	for _, name := range schema.TrackedClub {
		if name = strings.TrimSpace(name); name != "" {
			tracked = append(tracked, name)
		}
	}
	if len(tracked) == 0 {
		return Set{}, fmt.Errorf("tracked_club must list at least one name")
	}

	return Set{
		TrackedClub:  tracked,
		Opponents:    NewList(schema.Opponents...),
		Stadiums:     NewList(schema.Stadiums...),
		Competitions: NewList(schema.Competitions...),
	}, nil
}
