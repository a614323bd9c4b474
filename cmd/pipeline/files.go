package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

// loadPayloads reads <provider>_<anything>.json files from dir in name order.
// Files whose prefix names no known provider are returned in skipped.
func loadPayloads(dir string) ([]usecase.IngestInput, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read payload dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var (
		inputs  []usecase.IngestInput
		skipped []string
	)
	for _, name := range names {
		provider, ok := providerFromFilename(name)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		path := filepath.Join(dir, name)
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read payload %s: %w", name, err)
		}
		inputs = append(inputs, usecase.IngestInput{
			Provider: provider,
			Body:     body,
			Source:   path,
		})
	}
	return inputs, skipped, nil
}

func providerFromFilename(name string) (rawevent.Provider, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return "", false
	}
	provider, err := rawevent.ParseProvider(prefix)
	if err != nil {
		return "", false
	}
	return provider, true
}
