package config

import (
	"encoding/json"
	"fmt"
	"os"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"edinet_xbrl/pkg/core/xbrl"
)

// LoadCatalogEntries reads an ordered taxonomy table from path. The file is a list of
// {stem, description} objects; comments and unquoted strings (Hjson) are allowed.
func LoadCatalogEntries(path string) ([]xbrl.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	entries, err := ParseCatalogEntries(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return entries, nil
}

// ParseCatalogEntries tries, in order: strict JSON, Hjson, then repaired JSON.
func ParseCatalogEntries(input string) ([]xbrl.CatalogEntry, error) {
	var entries []xbrl.CatalogEntry

	// Try 1: Standard JSON
	if err := json.Unmarshal([]byte(input), &entries); err == nil {
		return validateEntries(entries)
	}

	// Try 2: Hjson
	var generic interface{}
	if err := hjson.Unmarshal([]byte(input), &generic); err == nil {
		jsonBytes, err := json.Marshal(generic)
		if err == nil {
			entries = nil
			if err := json.Unmarshal(jsonBytes, &entries); err == nil {
				return validateEntries(entries)
			}
		}
	}

	// Try 3: JSON Repair
	repaired, err := jsonrepair.RepairJSON(input)
	if err != nil {
		return nil, fmt.Errorf("catalog is neither JSON nor Hjson: %w", err)
	}
	entries = nil
	if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
		return nil, fmt.Errorf("catalog is neither JSON nor Hjson: %w", err)
	}
	return validateEntries(entries)
}

func validateEntries(entries []xbrl.CatalogEntry) ([]xbrl.CatalogEntry, error) {
	for i, e := range entries {
		if e.Stem == "" {
			return nil, fmt.Errorf("catalog entry %d has an empty stem", i)
		}
	}
	return entries, nil
}
