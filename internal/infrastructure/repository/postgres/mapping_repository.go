package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

// MappingRepository relies on the partial unique indexes over provider
// match ids to keep one canonical match per provider fixture.
type MappingRepository struct {
	db *sqlx.DB
}

func NewMappingRepository(db *sqlx.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) List(ctx context.Context) ([]mapping.MatchMapping, error) {
	return r.selectMany(ctx, psql.Select("*").From("match_mappings").OrderBy("kickoff_at", "id"), "list match mappings")
}

func (r *MappingRepository) GetByID(ctx context.Context, matchID string) (mapping.MatchMapping, bool, error) {
	return r.selectOne(ctx, sq.Eq{"id": matchID}, "get match mapping")
}

func (r *MappingRepository) FindByProviderMatch(ctx context.Context, provider rawevent.Provider, providerMatchID string) (mapping.MatchMapping, bool, error) {
	column, err := providerMatchColumn(provider)
	if err != nil {
		return mapping.MatchMapping{}, false, err
	}
	return r.selectOne(ctx, sq.Eq{column: providerMatchID}, "find match mapping by provider")
}

func (r *MappingRepository) UpsertMany(ctx context.Context, items []mapping.MatchMapping) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, r.db, "upsert match mappings", func(tx *sqlx.Tx) error {
		for _, m := range items {
			if m.ID == "" || m.HomeTeamID == "" || m.AwayTeamID == "" {
				return fmt.Errorf("mapping id and teams are required")
			}
			ws, fm := refColumns(m.WhoScored), refColumns(m.FotMob)
			insert := psql.Insert("match_mappings").
				Columns(
					"id", "competition", "kickoff_at", "home_team_id", "away_team_id", "home_score", "away_score",
					"whoscored_match_id", "whoscored_home_team_id", "whoscored_away_team_id",
					"fotmob_match_id", "fotmob_home_team_id", "fotmob_away_team_id",
				).
				Values(
					m.ID, m.Competition, m.Kickoff.UTC(), m.HomeTeamID, m.AwayTeamID, m.HomeScore, m.AwayScore,
					ws[0], ws[1], ws[2],
					fm[0], fm[1], fm[2],
				).
				// A stored provider id is never replaced by NULL; mappings only widen.
				Suffix(`ON CONFLICT (id) DO UPDATE SET
    competition = EXCLUDED.competition,
    kickoff_at = EXCLUDED.kickoff_at,
    home_score = COALESCE(EXCLUDED.home_score, match_mappings.home_score),
    away_score = COALESCE(EXCLUDED.away_score, match_mappings.away_score),
    whoscored_match_id = COALESCE(match_mappings.whoscored_match_id, EXCLUDED.whoscored_match_id),
    whoscored_home_team_id = COALESCE(match_mappings.whoscored_home_team_id, EXCLUDED.whoscored_home_team_id),
    whoscored_away_team_id = COALESCE(match_mappings.whoscored_away_team_id, EXCLUDED.whoscored_away_team_id),
    fotmob_match_id = COALESCE(match_mappings.fotmob_match_id, EXCLUDED.fotmob_match_id),
    fotmob_home_team_id = COALESCE(match_mappings.fotmob_home_team_id, EXCLUDED.fotmob_home_team_id),
    fotmob_away_team_id = COALESCE(match_mappings.fotmob_away_team_id, EXCLUDED.fotmob_away_team_id),
    updated_at = NOW()`)
			if _, err := execBuilder(ctx, tx, insert, "upsert match mapping "+m.ID); err != nil {
				if constraint := uniqueConstraint(err); constraint != "" {
					return fmt.Errorf("%w: mapping %s (%s)", mapping.ErrIdentityConflict, m.ID, constraint)
				}
				return err
			}
		}
		return nil
	})
}

func (r *MappingRepository) selectOne(ctx context.Context, where sq.Sqlizer, what string) (mapping.MatchMapping, bool, error) {
	query, args, err := psql.Select("*").From("match_mappings").Where(where).ToSql()
	if err != nil {
		return mapping.MatchMapping{}, false, fmt.Errorf("build %s query: %w", what, err)
	}
	var row matchMappingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return mapping.MatchMapping{}, false, nil
		}
		return mapping.MatchMapping{}, false, fmt.Errorf("%s: %w", what, err)
	}
	return row.mapping(), true, nil
}

func (r *MappingRepository) selectMany(ctx context.Context, b sq.SelectBuilder, what string) ([]mapping.MatchMapping, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", what, err)
	}
	var rows []matchMappingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	out := make([]mapping.MatchMapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.mapping())
	}
	return out, nil
}

func providerMatchColumn(p rawevent.Provider) (string, error) {
	switch p {
	case rawevent.ProviderWhoScored:
		return "whoscored_match_id", nil
	case rawevent.ProviderFotMob:
		return "fotmob_match_id", nil
	default:
		return "", fmt.Errorf("unknown provider %q", p)
	}
}

func refColumns(ref *mapping.ProviderMatchRef) [3]*string {
	if ref == nil {
		return [3]*string{}
	}
	return [3]*string{&ref.ProviderMatchID, &ref.HomeTeamID, &ref.AwayTeamID}
}

func refFromColumns(matchID, homeID, awayID sql.NullString) *mapping.ProviderMatchRef {
	if !matchID.Valid {
		return nil
	}
	return &mapping.ProviderMatchRef{
		ProviderMatchID: matchID.String,
		HomeTeamID:      stringValue(homeID),
		AwayTeamID:      stringValue(awayID),
	}
}

func (m matchMappingTableModel) mapping() mapping.MatchMapping {
	return mapping.MatchMapping{
		ID:          m.ID,
		Competition: m.Competition,
		Kickoff:     m.KickoffAt.UTC(),
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		HomeScore:   intPtr(m.HomeScore),
		AwayScore:   intPtr(m.AwayScore),
		WhoScored:   refFromColumns(m.WhoScoredMatchID, m.WhoScoredHomeTeamID, m.WhoScoredAwayTeamID),
		FotMob:      refFromColumns(m.FotMobMatchID, m.FotMobHomeTeamID, m.FotMobAwayTeamID),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
