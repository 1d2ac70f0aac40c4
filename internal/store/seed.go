package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// SeedEntry is one record of the optional seed file used to bootstrap an
// empty store on first start.
type SeedEntry struct {
	URL            string   `json:"url"`
	Name           string   `json:"name"`
	RelatedDomains []string `json:"related_domains"`
}

// LoadSeedFile reads the seed file. A missing file is not an error; it just
// means there is nothing to bootstrap from.
func LoadSeedFile(path string) ([]SeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var entries []SeedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return entries, nil
}
