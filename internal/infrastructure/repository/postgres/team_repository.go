package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := psql.Select("*").From("teams").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.team())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := psql.Select("*").From("teams").Where(sq.Eq{"id": teamID}).ToSql()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return row.team(), true, nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}
	return withTx(ctx, r.db, "upsert teams", func(tx *sqlx.Tx) error {
		for _, t := range teams {
			if err := t.Validate(); err != nil {
				return err
			}
			aliases := t.Aliases
			if aliases == nil {
				aliases = []string{}
			}
			insert := psql.Insert("teams").
				Columns("id", "name", "aliases", "whoscored_team_id", "fotmob_team_id").
				Values(
					t.ID, t.Name, pq.StringArray(aliases),
					nullableString(t.ProviderID(rawevent.ProviderWhoScored)),
					nullableString(t.ProviderID(rawevent.ProviderFotMob)),
				).
				Suffix(`ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    aliases = EXCLUDED.aliases,
    whoscored_team_id = COALESCE(EXCLUDED.whoscored_team_id, teams.whoscored_team_id),
    fotmob_team_id = COALESCE(EXCLUDED.fotmob_team_id, teams.fotmob_team_id),
    updated_at = NOW()`)
			if _, err := execBuilder(ctx, tx, insert, "upsert team "+t.ID); err != nil {
				if constraint := uniqueConstraint(err); constraint != "" {
					return fmt.Errorf("%w: team %s (%s)", mapping.ErrIdentityConflict, t.ID, constraint)
				}
				return err
			}
		}
		return nil
	})
}

func (m teamTableModel) team() team.Team {
	t := team.Team{
		ID:      m.ID,
		Name:    m.Name,
		Aliases: append([]string(nil), m.Aliases...),
	}
	if v := stringValue(m.WhoScoredTeamID); v != "" {
		t.SetProviderID(rawevent.ProviderWhoScored, v)
	}
	if v := stringValue(m.FotMobTeamID); v != "" {
		t.SetProviderID(rawevent.ProviderFotMob, v)
	}
	return t
}
