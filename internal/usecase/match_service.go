package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/embedding"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/summary"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
)

// CanonicalEvent is a raw event re-keyed to canonical match and team ids.
// No provider-native id survives the conversion.
type CanonicalEvent struct {
	ID         string        `json:"id"`
	MatchID    string        `json:"match_id"`
	TeamID     string        `json:"team_id"`
	Side       mapping.Side  `json:"side"`
	Provider   string        `json:"provider"`
	Kind       rawevent.Kind `json:"kind"`
	Successful bool          `json:"successful"`
	Period     int           `json:"period"`
	Minute     int           `json:"minute"`
	Second     int           `json:"second"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	EndX       *float64      `json:"end_x,omitempty"`
	EndY       *float64      `json:"end_y,omitempty"`
	IsTouch    bool          `json:"is_touch"`
	IsGoal     bool          `json:"is_goal"`
	OnTarget   bool          `json:"on_target"`
	XG         *float64      `json:"xg,omitempty"`
}

// MatchView is the canonical match as readers see it. It only says which
// providers back the match.
type MatchView struct {
	ID           string           `json:"id"`
	Competition  string           `json:"competition"`
	Kickoff      time.Time        `json:"kickoff"`
	HomeTeamID   string           `json:"home_team_id"`
	AwayTeamID   string           `json:"away_team_id"`
	HomeScore    *int             `json:"home_score"`
	AwayScore    *int             `json:"away_score"`
	Coverage     mapping.Coverage `json:"coverage"`
	HasWhoScored bool             `json:"has_whoscored"`
	HasFotMob    bool             `json:"has_fotmob"`
}

func newMatchView(m mapping.MatchMapping) MatchView {
	return MatchView{
		ID:           m.ID,
		Competition:  m.Competition,
		Kickoff:      m.Kickoff,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		Coverage:     m.Coverage(),
		HasWhoScored: m.WhoScored != nil,
		HasFotMob:    m.FotMob != nil,
	}
}

type MatchDetail struct {
	Match   MatchView                      `json:"match"`
	Summary *summary.MatchSummary          `json:"summary,omitempty"`
	Metrics []teammetrics.TeamMatchMetrics `json:"metrics"`
}

type CoverageReport struct {
	MappingsTotal int `json:"mappings_total"`
	Full          int `json:"full"`
	WhoScoredOnly int `json:"whoscored_only"`
	FotMobOnly    int `json:"fotmob_only"`
	// UnmappedFixtures counts stored fixtures no mapping references. After a
	// resolve these are exactly the ambiguous ones.
	UnmappedFixtures int `json:"unmapped_fixtures"`

	EventsNoProviderData int `json:"events_no_provider_data"`
	XGJoined             int `json:"xg_joined"`
	XGJoinedNoShots      int `json:"xg_joined_no_shots"`
	XGNoProviderData     int `json:"xg_no_provider_data"`
	MatchesWithMetrics   int `json:"matches_with_metrics"`

	SummariesTotal    int `json:"summaries_total"`
	EmbeddingsMissing int `json:"embeddings_missing"`
	EmbeddingsStale   int `json:"embeddings_stale"`
}

// MatchService serves the canonical read views.
type MatchService struct {
	mappings  mapping.Repository
	events    rawevent.Repository
	rows      teammetrics.Repository
	summaries summary.Repository
	vectors   embedding.Repository
}

func NewMatchService(
	mappings mapping.Repository,
	events rawevent.Repository,
	rows teammetrics.Repository,
	summaries summary.Repository,
	vectors embedding.Repository,
) *MatchService {
	return &MatchService{
		mappings:  mappings,
		events:    events,
		rows:      rows,
		summaries: summaries,
		vectors:   vectors,
	}
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", matchAttr(matchID))
	defer span.End()

	m, err := s.mapping(ctx, matchID)
	if err != nil {
		return MatchDetail{}, err
	}
	rows, err := s.rows.ListByMatch(ctx, m.ID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("list metrics: %w", err)
	}
	detail := MatchDetail{Match: newMatchView(m), Metrics: rows}

	item, ok, err := s.summaries.GetByMatchID(ctx, m.ID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("get summary: %w", err)
	}
	if ok {
		detail.Summary = &item
	}
	return detail, nil
}

// ListEvents returns every provider event of the match with canonical ids,
// ordered by clock then provider.
func (s *MatchService) ListEvents(ctx context.Context, matchID string) ([]CanonicalEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListEvents", matchAttr(matchID))
	defer span.End()

	m, err := s.mapping(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var out []CanonicalEvent
	for _, p := range rawevent.Providers {
		ref := m.Ref(p)
		if ref == nil {
			continue
		}
		events, err := s.events.ListEvents(ctx, p, ref.ProviderMatchID)
		if err != nil {
			return nil, fmt.Errorf("list %s events: %w", p, err)
		}
		for _, e := range events {
			side, ok := m.ProviderSide(p, e.ProviderTeamID)
			if !ok {
				continue
			}
			out = append(out, CanonicalEvent{
				ID:         mapping.CanonicalEventID(p, ref.ProviderMatchID, e.ProviderEventID),
				MatchID:    m.ID,
				TeamID:     m.TeamID(side),
				Side:       side,
				Provider:   string(p),
				Kind:       e.Kind,
				Successful: e.Successful,
				Period:     e.Period,
				Minute:     e.Minute,
				Second:     e.Second,
				X:          e.X,
				Y:          e.Y,
				EndX:       e.EndX,
				EndY:       e.EndY,
				IsTouch:    e.IsTouch,
				IsGoal:     e.IsGoal,
				OnTarget:   e.OnTarget,
				XG:         e.XG,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Minute != b.Minute {
			return a.Minute < b.Minute
		}
		if a.Second != b.Second {
			return a.Second < b.Second
		}
		return a.Provider > b.Provider
	})
	return out, nil
}

// Coverage makes mapping and xG join gaps observable.
func (s *MatchService) Coverage(ctx context.Context) (CoverageReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Coverage")
	defer span.End()

	var report CoverageReport
	mappings, err := s.mappings.List(ctx)
	if err != nil {
		return CoverageReport{}, fmt.Errorf("list mappings: %w", err)
	}
	report.MappingsTotal = len(mappings)
	mapped := make(map[string]struct{}, 2*len(mappings))
	for _, m := range mappings {
		for _, p := range rawevent.Providers {
			if ref := m.Ref(p); ref != nil {
				mapped[string(p)+":"+ref.ProviderMatchID] = struct{}{}
			}
		}
		switch m.Coverage() {
		case mapping.CoverageFull:
			report.Full++
		case mapping.CoverageWhoScoredOnly:
			report.WhoScoredOnly++
		case mapping.CoverageFotMobOnly:
			report.FotMobOnly++
		}
	}

	for _, p := range rawevent.Providers {
		fixtures, err := s.events.ListFixtures(ctx, p)
		if err != nil {
			return CoverageReport{}, fmt.Errorf("list %s fixtures: %w", p, err)
		}
		for _, f := range fixtures {
			if _, ok := mapped[string(p)+":"+f.ProviderMatchID]; !ok {
				report.UnmappedFixtures++
			}
		}
	}

	rows, err := s.rows.List(ctx)
	if err != nil {
		return CoverageReport{}, fmt.Errorf("list metrics: %w", err)
	}
	withMetrics := make(map[string]struct{}, len(rows)/2)
	for _, row := range rows {
		withMetrics[row.MatchID] = struct{}{}
		if !row.HasEvents() {
			report.EventsNoProviderData++
		}
		switch row.XGStatus {
		case teammetrics.XGJoined:
			report.XGJoined++
		case teammetrics.XGJoinedNoShots:
			report.XGJoinedNoShots++
		default:
			report.XGNoProviderData++
		}
	}
	report.MatchesWithMetrics = len(withMetrics)

	summaries, err := s.summaries.List(ctx, summary.Filter{})
	if err != nil {
		return CoverageReport{}, fmt.Errorf("list summaries: %w", err)
	}
	report.SummariesTotal = len(summaries)
	ids := make([]string, 0, len(summaries))
	for _, item := range summaries {
		ids = append(ids, item.MatchID)
	}
	stored, err := s.vectors.ListStates(ctx, ids)
	if err != nil {
		return CoverageReport{}, fmt.Errorf("list embeddings: %w", err)
	}
	for _, item := range summaries {
		v, ok := stored[item.MatchID]
		switch {
		case !ok:
			report.EmbeddingsMissing++
		case v.IsStale(item.DigestHash, item.TemplateVersion):
			report.EmbeddingsStale++
		}
	}
	return report, nil
}

func (s *MatchService) mapping(ctx context.Context, matchID string) (mapping.MatchMapping, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return mapping.MatchMapping{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m, ok, err := s.mappings.GetByID(ctx, matchID)
	if err != nil {
		return mapping.MatchMapping{}, fmt.Errorf("get mapping: %w", err)
	}
	if !ok {
		return mapping.MatchMapping{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return m, nil
}
