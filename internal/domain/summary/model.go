package summary

import (
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
)

// MatchSummary is the denormalized, retrieval-ready view of one canonical
// match. Home or Away stays nil when metrics were never computed.
type MatchSummary struct {
	MatchID         string
	Competition     string
	Kickoff         time.Time
	HomeTeamID      string
	AwayTeamID      string
	HomeTeam        string
	AwayTeam        string
	HomeScore       *int
	AwayScore       *int
	Coverage        mapping.Coverage
	Home            *teammetrics.TeamMatchMetrics
	Away            *teammetrics.TeamMatchMetrics
	HomeProfile     Profile
	AwayProfile     Profile
	Digest          string
	DigestHash      string
	TemplateVersion string
}

// HasTeam reports whether teamID played in the match.
func (s MatchSummary) HasTeam(teamID string) bool {
	return teamID != "" && (s.HomeTeamID == teamID || s.AwayTeamID == teamID)
}

// Metrics returns the row for teamID.
func (s MatchSummary) Metrics(teamID string) *teammetrics.TeamMatchMetrics {
	switch teamID {
	case s.HomeTeamID:
		return s.Home
	case s.AwayTeamID:
		return s.Away
	default:
		return nil
	}
}

// Filter narrows summaries before ranking. Every team in TeamIDs must have
// played; no team in ExcludeTeamIDs may have.
type Filter struct {
	Competition    string
	From           *time.Time
	To             *time.Time
	TeamIDs        []string
	ExcludeTeamIDs []string
}

func (f Filter) Matches(s MatchSummary) bool {
	if f.Competition != "" && f.Competition != s.Competition {
		return false
	}
	if f.From != nil && s.Kickoff.Before(*f.From) {
		return false
	}
	if f.To != nil && s.Kickoff.After(*f.To) {
		return false
	}
	for _, id := range f.TeamIDs {
		if !s.HasTeam(id) {
			return false
		}
	}
	for _, id := range f.ExcludeTeamIDs {
		if s.HasTeam(id) {
			return false
		}
	}
	return true
}
