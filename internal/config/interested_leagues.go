package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// InterestedLeague is one allow-list entry. Matching is case-insensitive on
// both fields.
type InterestedLeague struct {
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
}

type interestedLeaguesFile struct {
	InterestedLeagues []InterestedLeague `yaml:"interested_leagues"`
}

// loadInterestedLeagues prefers the YAML file when a path is set and falls
// back to the inline "Name:Country,..." list. Order is preserved.
func loadInterestedLeagues(path, inline string) ([]InterestedLeague, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read SYNC_INTERESTED_LEAGUES_FILE: %w", err)
		}
		return parseInterestedLeaguesYAML(raw)
	}

	out, err := parseInterestedLeagues(inline)
	if err != nil {
		return nil, fmt.Errorf("parse SYNC_INTERESTED_LEAGUES: %w", err)
	}
	return out, nil
}

func parseInterestedLeaguesYAML(raw []byte) ([]InterestedLeague, error) {
	var file interestedLeaguesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode interested leagues yaml: %w", err)
	}

	out := make([]InterestedLeague, 0, len(file.InterestedLeagues))
	for i, item := range file.InterestedLeagues {
		item.Name = strings.TrimSpace(item.Name)
		item.Country = strings.TrimSpace(item.Country)
		if item.Name == "" || item.Country == "" {
			return nil, fmt.Errorf("interested_leagues[%d]: name and country are required", i)
		}
		out = append(out, item)
	}
	return out, nil
}

func parseInterestedLeagues(raw string) ([]InterestedLeague, error) {
	items := splitCSV(raw)
	out := make([]InterestedLeague, 0, len(items))
	for _, item := range items {
		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid league %q, expected name:country", item)
		}

		name := strings.TrimSpace(segments[0])
		country := strings.TrimSpace(segments[1])
		if name == "" || country == "" {
			return nil, fmt.Errorf("invalid league %q, name and country are required", item)
		}
		out = append(out, InterestedLeague{Name: name, Country: country})
	}
	return out, nil
}
