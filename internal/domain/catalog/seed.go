package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed seed/episodes.json
var seedJSON []byte

// SeedEpisodes returns the catalog compiled into the binary, newest first.
func SeedEpisodes() ([]Episode, error) {
	var episodes []Episode
	if err := json.Unmarshal(seedJSON, &episodes); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	for i := range episodes {
		episodes[i].EnsureID()
	}
	sortNewestFirst(episodes)
	return episodes, nil
}

func sortNewestFirst(episodes []Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].PublishedAt.After(episodes[j].PublishedAt)
	})
}
