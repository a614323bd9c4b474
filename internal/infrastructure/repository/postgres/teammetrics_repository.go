package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
)

type TeamMetricsRepository struct {
	db *sqlx.DB
}

func NewTeamMetricsRepository(db *sqlx.DB) *TeamMetricsRepository {
	return &TeamMetricsRepository{db: db}
}

// ReplaceByMatch deletes and reinserts in one transaction so readers never
// see a match with a single side.
func (r *TeamMetricsRepository) ReplaceByMatch(ctx context.Context, matchID string, rows []teammetrics.TeamMatchMetrics) error {
	return withTx(ctx, r.db, "replace team match metrics", func(tx *sqlx.Tx) error {
		del := psql.Delete("team_match_metrics").Where(sq.Eq{"match_id": matchID})
		if _, err := execBuilder(ctx, tx, del, "delete team match metrics"); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		insert := psql.Insert("team_match_metrics").Columns(teamMatchMetricsColumns...)
		for _, row := range rows {
			if row.MatchID != matchID {
				return fmt.Errorf("metrics row of match %s passed for match %s", row.MatchID, matchID)
			}
			insert = insert.Values(teamMatchMetricsValues(row)...)
		}
		_, err := execBuilder(ctx, tx, insert, "insert team match metrics")
		return err
	})
}

func (r *TeamMetricsRepository) ListByMatch(ctx context.Context, matchID string) ([]teammetrics.TeamMatchMetrics, error) {
	return r.list(ctx, psql.Select(teamMatchMetricsColumns...).From("team_match_metrics").
		Where(sq.Eq{"match_id": matchID}).
		OrderBy("side DESC"))
}

func (r *TeamMetricsRepository) List(ctx context.Context) ([]teammetrics.TeamMatchMetrics, error) {
	return r.list(ctx, psql.Select(teamMatchMetricsColumns...).From("team_match_metrics").
		OrderBy("match_id", "side DESC"))
}

func (r *TeamMetricsRepository) list(ctx context.Context, b sq.SelectBuilder) ([]teammetrics.TeamMatchMetrics, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list team match metrics query: %w", err)
	}
	var rows []teamMatchMetricsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team match metrics: %w", err)
	}
	out := make([]teammetrics.TeamMatchMetrics, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.metrics())
	}
	return out, nil
}
