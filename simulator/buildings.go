package simulator

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed buildings.yaml
var defaultBuildings []byte

type Building struct {
	Name      string `yaml:"name"`
	Floors    int    `yaml:"floors"`
	Elevators int    `yaml:"elevators"`
	Requests  int    `yaml:"requests"`
	Turns     int    `yaml:"turns"`
	Clustered bool   `yaml:"clustered"` // passengers arrive in rush-hour bursts
}

// DefaultBuildings returns the embedded presets keyed by name.
func DefaultBuildings() map[string]Building {
	b, err := parseBuildings(defaultBuildings)
	if err != nil {
		panic(fmt.Sprintf("embedded buildings.yaml: %v", err))
	}
	return b
}

// LoadBuildings reads a preset list in the same YAML layout as the embedded one.
func LoadBuildings(r io.Reader) (map[string]Building, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseBuildings(raw)
}

func parseBuildings(raw []byte) (map[string]Building, error) {
	var list []Building
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	out := make(map[string]Building, len(list))
	for _, b := range list {
		if err := b.validate(); err != nil {
			return nil, err
		}
		if _, dup := out[b.Name]; dup {
			return nil, fmt.Errorf("building %q listed twice", b.Name)
		}
		out[b.Name] = b
	}
	return out, nil
}

func (b Building) validate() error {
	switch {
	case b.Name == "":
		return fmt.Errorf("building without a name")
	case b.Floors < 2:
		return fmt.Errorf("building %q: need at least 2 floors, got %d", b.Name, b.Floors)
	case b.Elevators < 1:
		return fmt.Errorf("building %q: need at least 1 elevator", b.Name)
	case b.Turns < 1:
		return fmt.Errorf("building %q: need at least 1 turn", b.Name)
	case b.Requests < 0:
		return fmt.Errorf("building %q: negative request count", b.Name)
	}
	return nil
}
