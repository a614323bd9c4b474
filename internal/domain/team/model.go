package team

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

// Team is a canonical club. ProviderIDs holds the team id each provider uses.
type Team struct {
	ID          string
	Name        string
	Aliases     []string
	ProviderIDs map[rawevent.Provider]string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// Names returns the canonical name followed by every distinct alias.
func (t Team) Names() []string {
	out := make([]string, 0, len(t.Aliases)+1)
	seen := make(map[string]struct{}, len(t.Aliases)+1)
	for _, name := range append([]string{t.Name}, t.Aliases...) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// AddAlias records name once and keeps aliases sorted.
func (t *Team) AddAlias(name string) {
	name = strings.TrimSpace(name)
	if name == "" || name == t.Name {
		return
	}
	for _, alias := range t.Aliases {
		if alias == name {
			return
		}
	}
	t.Aliases = append(t.Aliases, name)
	sort.Strings(t.Aliases)
}

func (t Team) ProviderID(p rawevent.Provider) string {
	if t.ProviderIDs == nil {
		return ""
	}
	return t.ProviderIDs[p]
}

func (t *Team) SetProviderID(p rawevent.Provider, id string) {
	if t.ProviderIDs == nil {
		t.ProviderIDs = make(map[rawevent.Provider]string, len(rawevent.Providers))
	}
	t.ProviderIDs[p] = id
}

// Clone returns a copy that shares no slices or maps with t.
func (t Team) Clone() Team {
	out := t
	out.Aliases = append([]string(nil), t.Aliases...)
	if t.ProviderIDs != nil {
		out.ProviderIDs = make(map[rawevent.Provider]string, len(t.ProviderIDs))
		for k, v := range t.ProviderIDs {
			out.ProviderIDs[k] = v
		}
	}
	return out
}
