package httpapi

import (
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/summary"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

type queryRequest struct {
	Query       string     `json:"query" validate:"required,min=2,max=500"`
	Competition string     `json:"competition,omitempty" validate:"omitempty,max=120"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Limit       int        `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

type teamMetricsDTO struct {
	TeamID            string   `json:"team_id"`
	OpponentTeamID    string   `json:"opponent_team_id"`
	Side              string   `json:"side"`
	EventsStatus      string   `json:"events_status"`
	PassesTotal       int      `json:"passes_total"`
	PassesCompleted   int      `json:"passes_completed"`
	PassAccuracy      *float64 `json:"pass_accuracy"`
	ProgressivePasses int      `json:"progressive_passes"`
	Verticality       *float64 `json:"verticality"`
	PPDA              *float64 `json:"ppda"`
	HighPressActions  int      `json:"high_press_actions"`
	DefensiveActions  int      `json:"defensive_actions"`
	Tackles           int      `json:"tackles"`
	Interceptions     int      `json:"interceptions"`
	Clearances        int      `json:"clearances"`
	Aerials           int      `json:"aerials"`
	Fouls             int      `json:"fouls"`
	BallRecoveries    int      `json:"ball_recoveries"`
	Shots             int      `json:"shots"`
	ShotsOnTarget     int      `json:"shots_on_target"`
	Goals             int      `json:"goals"`
	XG                *float64 `json:"xg"`
	XGPerShot         *float64 `json:"xg_per_shot"`
	XGStatus          string   `json:"xg_status"`
	MedianX           *float64 `json:"median_x"`
	MedianY           *float64 `json:"median_y"`
	DefenseLine       *float64 `json:"defense_line"`
	ForwardLine       *float64 `json:"forward_line"`
	Compactness       *float64 `json:"compactness"`
	Touches           int      `json:"touches"`
	Possession        *float64 `json:"possession"`
	FieldTilt         *float64 `json:"field_tilt"`
}

type profileDTO struct {
	Tempo         string `json:"tempo,omitempty"`
	Block         string `json:"block,omitempty"`
	ChanceQuality string `json:"chance_quality,omitempty"`
	Possession    string `json:"possession,omitempty"`
	Shape         string `json:"shape,omitempty"`
	Territory     string `json:"territory,omitempty"`
}

type matchSummaryDTO struct {
	MatchID         string          `json:"match_id"`
	Competition     string          `json:"competition"`
	Kickoff         time.Time       `json:"kickoff"`
	HomeTeamID      string          `json:"home_team_id"`
	AwayTeamID      string          `json:"away_team_id"`
	HomeTeam        string          `json:"home_team"`
	AwayTeam        string          `json:"away_team"`
	HomeScore       *int            `json:"home_score"`
	AwayScore       *int            `json:"away_score"`
	Coverage        string          `json:"coverage"`
	Home            *teamMetricsDTO `json:"home_metrics"`
	Away            *teamMetricsDTO `json:"away_metrics"`
	HomeProfile     profileDTO      `json:"home_profile"`
	AwayProfile     profileDTO      `json:"away_profile"`
	Digest          string          `json:"digest"`
	TemplateVersion string          `json:"template_version"`
}

// matchMappingDTO tells readers which providers back a match without
// exposing their native ids.
type matchMappingDTO struct {
	ID           string    `json:"id"`
	Competition  string    `json:"competition"`
	Kickoff      time.Time `json:"kickoff"`
	HomeTeamID   string    `json:"home_team_id"`
	AwayTeamID   string    `json:"away_team_id"`
	HomeScore    *int      `json:"home_score"`
	AwayScore    *int      `json:"away_score"`
	Coverage     string    `json:"coverage"`
	HasWhoScored bool      `json:"has_whoscored"`
	HasFotMob    bool      `json:"has_fotmob"`
}

type matchDetailDTO struct {
	Mapping matchMappingDTO  `json:"mapping"`
	Summary *matchSummaryDTO `json:"summary,omitempty"`
	Metrics []teamMetricsDTO `json:"metrics"`
}

type mentionDTO struct {
	TeamID   string  `json:"team_id"`
	TeamName string  `json:"team_name"`
	Fragment string  `json:"fragment"`
	Score    float64 `json:"score"`
}

type rankedMatchDTO struct {
	Summary  matchSummaryDTO `json:"summary"`
	Distance float64         `json:"distance"`
}

type queryResultDTO struct {
	Query             string           `json:"query"`
	Intent            string           `json:"intent"`
	Route             string           `json:"route"`
	Status            string           `json:"status"`
	Teams             []mentionDTO     `json:"teams"`
	Match             *matchSummaryDTO `json:"match,omitempty"`
	Matches           []rankedMatchDTO `json:"matches,omitempty"`
	MissingEmbeddings int              `json:"missing_embeddings"`
}

type gapWarningDTO struct {
	CanonicalMatchID string `json:"canonical_match_id"`
	Provider         string `json:"provider"`
	ProviderMatchID  string `json:"provider_match_id"`
	Missing          string `json:"missing"`
	Reason           string `json:"reason"`
}

type resolveReportDTO struct {
	Created     int             `json:"created"`
	Widened     int             `json:"widened"`
	Unchanged   int             `json:"unchanged"`
	TeamsSaved  int             `json:"teams_saved"`
	Gaps        []gapWarningDTO `json:"gaps"`
	Ambiguities []string        `json:"ambiguities"`
}

type runReportDTO struct {
	RunID      string                  `json:"run_id"`
	Status     string                  `json:"status"`
	StartedAt  time.Time               `json:"started_at"`
	DurationMs int64                   `json:"duration_ms"`
	Resolve    resolveReportDTO        `json:"resolve"`
	Metrics    usecase.MetricsReport   `json:"metrics"`
	Summaries  usecase.SummaryReport   `json:"summaries"`
	Embeddings usecase.EmbeddingReport `json:"embeddings"`
	Stages     map[string]int64        `json:"stage_duration_ms"`
}

func teamMetricsToDTO(m teammetrics.TeamMatchMetrics) teamMetricsDTO {
	return teamMetricsDTO{
		TeamID:            m.TeamID,
		OpponentTeamID:    m.OpponentTeamID,
		Side:              string(m.Side),
		EventsStatus:      string(m.EventsStatus),
		PassesTotal:       m.PassesTotal,
		PassesCompleted:   m.PassesCompleted,
		PassAccuracy:      m.PassAccuracy,
		ProgressivePasses: m.ProgressivePasses,
		Verticality:       m.Verticality,
		PPDA:              m.PPDA,
		HighPressActions:  m.HighPressActions,
		DefensiveActions:  m.DefensiveActions,
		Tackles:           m.Tackles,
		Interceptions:     m.Interceptions,
		Clearances:        m.Clearances,
		Aerials:           m.Aerials,
		Fouls:             m.Fouls,
		BallRecoveries:    m.BallRecoveries,
		Shots:             m.Shots,
		ShotsOnTarget:     m.ShotsOnTarget,
		Goals:             m.Goals,
		XG:                m.XG,
		XGPerShot:         m.XGPerShot,
		XGStatus:          string(m.XGStatus),
		MedianX:           m.MedianX,
		MedianY:           m.MedianY,
		DefenseLine:       m.DefenseLine,
		ForwardLine:       m.ForwardLine,
		Compactness:       m.Compactness,
		Touches:           m.Touches,
		Possession:        m.Possession,
		FieldTilt:         m.FieldTilt,
	}
}

func optionalTeamMetricsToDTO(m *teammetrics.TeamMatchMetrics) *teamMetricsDTO {
	if m == nil {
		return nil
	}
	out := teamMetricsToDTO(*m)
	return &out
}

func profileToDTO(p summary.Profile) profileDTO {
	return profileDTO{
		Tempo:         p.Tempo,
		Block:         p.Block,
		ChanceQuality: p.ChanceQuality,
		Possession:    p.Possession,
		Shape:         p.Shape,
		Territory:     p.Territory,
	}
}

func summaryToDTO(s summary.MatchSummary) matchSummaryDTO {
	return matchSummaryDTO{
		MatchID:         s.MatchID,
		Competition:     s.Competition,
		Kickoff:         s.Kickoff,
		HomeTeamID:      s.HomeTeamID,
		AwayTeamID:      s.AwayTeamID,
		HomeTeam:        s.HomeTeam,
		AwayTeam:        s.AwayTeam,
		HomeScore:       s.HomeScore,
		AwayScore:       s.AwayScore,
		Coverage:        string(s.Coverage),
		Home:            optionalTeamMetricsToDTO(s.Home),
		Away:            optionalTeamMetricsToDTO(s.Away),
		HomeProfile:     profileToDTO(s.HomeProfile),
		AwayProfile:     profileToDTO(s.AwayProfile),
		Digest:          s.Digest,
		TemplateVersion: s.TemplateVersion,
	}
}

func matchViewToDTO(m usecase.MatchView) matchMappingDTO {
	return matchMappingDTO{
		ID:           m.ID,
		Competition:  m.Competition,
		Kickoff:      m.Kickoff,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		Coverage:     string(m.Coverage),
		HasWhoScored: m.HasWhoScored,
		HasFotMob:    m.HasFotMob,
	}
}

func matchDetailToDTO(d usecase.MatchDetail) matchDetailDTO {
	out := matchDetailDTO{
		Mapping: matchViewToDTO(d.Match),
		Metrics: make([]teamMetricsDTO, 0, len(d.Metrics)),
	}
	if d.Summary != nil {
		s := summaryToDTO(*d.Summary)
		out.Summary = &s
	}
	for _, row := range d.Metrics {
		out.Metrics = append(out.Metrics, teamMetricsToDTO(row))
	}
	return out
}

func queryResultToDTO(r usecase.QueryResult) queryResultDTO {
	out := queryResultDTO{
		Query:             r.Query,
		Intent:            string(r.Intent),
		Route:             r.Route,
		Status:            r.Status,
		Teams:             make([]mentionDTO, 0, len(r.Teams)),
		MissingEmbeddings: r.MissingEmbeddings,
	}
	for _, m := range r.Teams {
		out.Teams = append(out.Teams, mentionDTO{
			TeamID:   m.TeamID,
			TeamName: m.TeamName,
			Fragment: m.Fragment,
			Score:    m.Score,
		})
	}
	if r.Match != nil {
		s := summaryToDTO(*r.Match)
		out.Match = &s
	}
	for _, hit := range r.Matches {
		out.Matches = append(out.Matches, rankedMatchDTO{Summary: summaryToDTO(hit.Summary), Distance: hit.Distance})
	}
	return out
}

func runReportToDTO(r usecase.RunReport) runReportDTO {
	gaps := make([]gapWarningDTO, 0, len(r.Resolve.Gaps))
	for _, g := range r.Resolve.Gaps {
		gaps = append(gaps, gapWarningDTO{
			CanonicalMatchID: g.CanonicalMatchID,
			Provider:         string(g.Provider),
			ProviderMatchID:  g.ProviderMatchID,
			Missing:          string(g.Missing),
			Reason:           g.Reason,
		})
	}
	ambiguities := r.Resolve.Ambiguities
	if ambiguities == nil {
		ambiguities = []string{}
	}
	return runReportDTO{
		RunID:      r.RunID,
		Status:     r.Status,
		StartedAt:  r.StartedAt,
		DurationMs: r.DurationMs,
		Resolve: resolveReportDTO{
			Created:     r.Resolve.Created,
			Widened:     r.Resolve.Widened,
			Unchanged:   r.Resolve.Unchanged,
			TeamsSaved:  r.Resolve.TeamsSaved,
			Gaps:        gaps,
			Ambiguities: ambiguities,
		},
		Metrics:    r.Metrics,
		Summaries:  r.Summaries,
		Embeddings: r.Embeddings,
		Stages:     r.Stages,
	}
}
