package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// VenueEntry is one venue of the catalogue file.
type VenueEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Capacity *int   `yaml:"capacity,omitempty"`
	Area     string `yaml:"area,omitempty"`
}

type venueFile struct {
	Venues []VenueEntry `yaml:"venues"`
}

// LoadVenues reads the YAML venue catalogue:
//
//	venues:
//	  - id: grand-hall
//	    name: Grand Hall
//	    capacity: 300
//	    area: Main Wing
func LoadVenues(path string) ([]VenueEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading venue file: %w", err)
	}
	return ParseVenues(data)
}

// ParseVenues decodes and validates catalogue YAML. Ids default to the
// lower-cased, hyphenated name.
func ParseVenues(data []byte) ([]VenueEntry, error) {
	var file venueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing venue file: %w", err)
	}

	seenIDs := make(map[string]bool, len(file.Venues))
	seenNames := make(map[string]bool, len(file.Venues))
	for i := range file.Venues {
		v := &file.Venues[i]
		v.Name = strings.TrimSpace(v.Name)
		v.ID = strings.TrimSpace(v.ID)
		if v.Name == "" {
			return nil, fmt.Errorf("venue %d: name is required", i+1)
		}
		if v.ID == "" {
			v.ID = slug(v.Name)
		}
		if v.Capacity != nil && *v.Capacity < 0 {
			return nil, fmt.Errorf("venue %q: capacity must not be negative", v.Name)
		}
		if seenIDs[v.ID] {
			return nil, fmt.Errorf("venue %q: duplicate id %q", v.Name, v.ID)
		}
		if seenNames[v.Name] {
			return nil, fmt.Errorf("venue %q: duplicate name", v.Name)
		}
		seenIDs[v.ID] = true
		seenNames[v.Name] = true
	}
	return file.Venues, nil
}

func slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
