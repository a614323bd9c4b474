package mapping

import (
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

// Side is a team slot inside a fixture.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Coverage tells which providers contributed to a canonical match.
type Coverage string

const (
	CoverageFull          Coverage = "full"
	CoverageWhoScoredOnly Coverage = "whoscored_only"
	CoverageFotMobOnly    Coverage = "fotmob_only"
)

// ProviderIdentity is the unit the resolver maps.
type ProviderIdentity struct {
	Provider        rawevent.Provider
	ProviderMatchID string
	ProviderTeamID  string
}

// ProviderMatchRef is one provider's view of a canonical match with its team
// ids already placed in canonical slots.
type ProviderMatchRef struct {
	ProviderMatchID string
	HomeTeamID      string
	AwayTeamID      string
}

// MatchMapping binds a canonical match to at most one fixture per provider.
// A nil ref means the provider never delivered that fixture.
type MatchMapping struct {
	ID          string
	Competition string
	Kickoff     time.Time
	HomeTeamID  string
	AwayTeamID  string
	HomeScore   *int
	AwayScore   *int
	WhoScored   *ProviderMatchRef
	FotMob      *ProviderMatchRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m MatchMapping) Ref(p rawevent.Provider) *ProviderMatchRef {
	switch p {
	case rawevent.ProviderWhoScored:
		return m.WhoScored
	case rawevent.ProviderFotMob:
		return m.FotMob
	default:
		return nil
	}
}

func (m *MatchMapping) SetRef(p rawevent.Provider, ref *ProviderMatchRef) {
	switch p {
	case rawevent.ProviderWhoScored:
		m.WhoScored = ref
	case rawevent.ProviderFotMob:
		m.FotMob = ref
	}
}

func (m MatchMapping) Coverage() Coverage {
	switch {
	case m.WhoScored != nil && m.FotMob != nil:
		return CoverageFull
	case m.WhoScored != nil:
		return CoverageWhoScoredOnly
	default:
		return CoverageFotMobOnly
	}
}

// TeamID returns the canonical team in slot s.
func (m MatchMapping) TeamID(s Side) string {
	if s == SideHome {
		return m.HomeTeamID
	}
	return m.AwayTeamID
}

// SideOf finds the canonical slot of a canonical team.
func (m MatchMapping) SideOf(teamID string) (Side, bool) {
	switch teamID {
	case m.HomeTeamID:
		return SideHome, true
	case m.AwayTeamID:
		return SideAway, true
	default:
		return "", false
	}
}

// Identity returns the provider identity for slot s, false when the provider
// is missing.
func (m MatchMapping) Identity(p rawevent.Provider, s Side) (ProviderIdentity, bool) {
	ref := m.Ref(p)
	if ref == nil {
		return ProviderIdentity{}, false
	}
	teamID := ref.HomeTeamID
	if s == SideAway {
		teamID = ref.AwayTeamID
	}
	return ProviderIdentity{Provider: p, ProviderMatchID: ref.ProviderMatchID, ProviderTeamID: teamID}, true
}

// ProviderSide maps a provider team id onto its canonical slot.
func (m MatchMapping) ProviderSide(p rawevent.Provider, providerTeamID string) (Side, bool) {
	ref := m.Ref(p)
	if ref == nil {
		return "", false
	}
	switch providerTeamID {
	case ref.HomeTeamID:
		return SideHome, true
	case ref.AwayTeamID:
		return SideAway, true
	default:
		return "", false
	}
}

// Clone returns a copy sharing no pointers with m.
func (m MatchMapping) Clone() MatchMapping {
	out := m
	if m.HomeScore != nil {
		v := *m.HomeScore
		out.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		out.AwayScore = &v
	}
	if m.WhoScored != nil {
		v := *m.WhoScored
		out.WhoScored = &v
	}
	if m.FotMob != nil {
		v := *m.FotMob
		out.FotMob = &v
	}
	return out
}

// GapWarning reports a fixture only one provider delivered. The partial
// mapping is still stored.
type GapWarning struct {
	CanonicalMatchID string
	Provider         rawevent.Provider
	ProviderMatchID  string
	Missing          rawevent.Provider
	Reason           string
}
