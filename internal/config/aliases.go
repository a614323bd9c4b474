package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AliasBook is the on-disk shape of RESOLVER_ALIASES_FILE:
//
//	aliases:
//	  psv: [PSV Eindhoven, Philips Sport Vereniging]
type AliasBook struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadAliases reads the alias groups used by the team name matcher. An empty
// path yields an empty book.
func LoadAliases(path string) (map[string][]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return map[string][]string{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases file: %w", err)
	}
	return ParseAliases(raw)
}

func ParseAliases(raw []byte) (map[string][]string, error) {
	var book AliasBook
	if err := yaml.Unmarshal(raw, &book); err != nil {
		return nil, fmt.Errorf("decode aliases file: %w", err)
	}
	out := make(map[string][]string, len(book.Aliases))
	for group, names := range book.Aliases {
		group = strings.TrimSpace(group)
		if group == "" {
			return nil, fmt.Errorf("alias group key cannot be empty")
		}
		for _, name := range names {
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("alias group %q has an empty name", group)
			}
		}
		out[group] = names
	}
	return out, nil
}
