package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchlens/internal/domain/summary"
)

// SummaryRepository keeps the filter columns flat and the full summary in a
// JSONB document.
type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) UpsertMany(ctx context.Context, items []summary.MatchSummary) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, r.db, "upsert match summaries", func(tx *sqlx.Tx) error {
		for start := 0; start < len(items); start += insertChunk {
			end := min(start+insertChunk, len(items))
			insert := psql.Insert("match_summaries").
				Columns(
					"match_id", "competition", "kickoff_at", "home_team_id", "away_team_id",
					"coverage", "document", "digest", "digest_hash", "template_version",
				).
				Suffix(`ON CONFLICT (match_id) DO UPDATE SET
    competition = EXCLUDED.competition,
    kickoff_at = EXCLUDED.kickoff_at,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    coverage = EXCLUDED.coverage,
    document = EXCLUDED.document,
    digest = EXCLUDED.digest,
    digest_hash = EXCLUDED.digest_hash,
    template_version = EXCLUDED.template_version,
    updated_at = NOW()`)
			for _, item := range items[start:end] {
				doc, err := sonic.Marshal(item)
				if err != nil {
					return fmt.Errorf("encode summary %s: %w", item.MatchID, err)
				}
				insert = insert.Values(
					item.MatchID, item.Competition, item.Kickoff.UTC(), item.HomeTeamID, item.AwayTeamID,
					string(item.Coverage), string(doc), item.Digest, item.DigestHash, item.TemplateVersion,
				)
			}
			if _, err := execBuilder(ctx, tx, insert, "upsert match summaries"); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SummaryRepository) GetByMatchID(ctx context.Context, matchID string) (summary.MatchSummary, bool, error) {
	query, args, err := psql.Select("*").From("match_summaries").Where(sq.Eq{"match_id": matchID}).ToSql()
	if err != nil {
		return summary.MatchSummary{}, false, fmt.Errorf("build get match summary query: %w", err)
	}

	var row matchSummaryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return summary.MatchSummary{}, false, nil
		}
		return summary.MatchSummary{}, false, fmt.Errorf("get match summary: %w", err)
	}
	out, err := row.summary()
	if err != nil {
		return summary.MatchSummary{}, false, err
	}
	return out, true, nil
}

func (r *SummaryRepository) List(ctx context.Context, filter summary.Filter) ([]summary.MatchSummary, error) {
	query, args, err := summaryListQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list match summaries query: %w", err)
	}

	var rows []matchSummaryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match summaries: %w", err)
	}
	out := make([]summary.MatchSummary, 0, len(rows))
	for _, row := range rows {
		item, err := row.summary()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func summaryListQuery(filter summary.Filter) sq.SelectBuilder {
	b := psql.Select("*").From("match_summaries")
	if filter.Competition != "" {
		b = b.Where(sq.Eq{"competition": filter.Competition})
	}
	if filter.From != nil {
		b = b.Where(sq.GtOrEq{"kickoff_at": filter.From.UTC()})
	}
	if filter.To != nil {
		b = b.Where(sq.LtOrEq{"kickoff_at": filter.To.UTC()})
	}
	for _, id := range filter.TeamIDs {
		b = b.Where(sq.Or{sq.Eq{"home_team_id": id}, sq.Eq{"away_team_id": id}})
	}
	if len(filter.ExcludeTeamIDs) > 0 {
		b = b.Where(sq.NotEq{"home_team_id": filter.ExcludeTeamIDs}).
			Where(sq.NotEq{"away_team_id": filter.ExcludeTeamIDs})
	}
	return b.OrderBy("kickoff_at DESC", "match_id")
}

func (m matchSummaryTableModel) summary() (summary.MatchSummary, error) {
	var out summary.MatchSummary
	if err := sonic.Unmarshal(m.Document, &out); err != nil {
		return summary.MatchSummary{}, fmt.Errorf("decode summary %s: %w", m.MatchID, err)
	}
	out.Kickoff = out.Kickoff.UTC()
	return out, nil
}
