package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
	"github.com/riskibarqy/matchlens/internal/domain/embedding"
)

// EmbeddingRepository searches with the pgvector cosine operator, which the
// HNSW index on match_embeddings serves.
type EmbeddingRepository struct {
	db *sqlx.DB
}

func NewEmbeddingRepository(db *sqlx.DB) *EmbeddingRepository {
	return &EmbeddingRepository{db: db}
}

func (r *EmbeddingRepository) Upsert(ctx context.Context, v embedding.Vector) error {
	if v.MatchID == "" || len(v.Values) == 0 {
		return fmt.Errorf("embedding match id and values are required")
	}
	insert := psql.Insert("match_embeddings").
		Columns("match_id", "embedding", "digest_hash", "template_version", "model", "updated_at").
		Values(v.MatchID, pgvector.NewVector(v.Values), v.DigestHash, v.TemplateVersion, v.Model, v.UpdatedAt.UTC()).
		Suffix(`ON CONFLICT (match_id) DO UPDATE SET
    embedding = EXCLUDED.embedding,
    digest_hash = EXCLUDED.digest_hash,
    template_version = EXCLUDED.template_version,
    model = EXCLUDED.model,
    updated_at = EXCLUDED.updated_at`)
	_, err := execBuilder(ctx, r.db, insert, "upsert match embedding "+v.MatchID)
	return err
}

var embeddingStateColumns = []string{"match_id", "digest_hash", "template_version", "model", "updated_at"}

func (r *EmbeddingRepository) ListByMatchIDs(ctx context.Context, matchIDs []string) (map[string]embedding.Vector, error) {
	return r.list(ctx, matchIDs, append([]string{"embedding"}, embeddingStateColumns...), "list match embeddings")
}

// ListStates leaves the vector column out of the select.
func (r *EmbeddingRepository) ListStates(ctx context.Context, matchIDs []string) (map[string]embedding.Vector, error) {
	return r.list(ctx, matchIDs, embeddingStateColumns, "list match embedding states")
}

func embeddingListQuery(matchIDs, columns []string) sq.SelectBuilder {
	return psql.Select(columns...).From("match_embeddings").Where(sq.Eq{"match_id": matchIDs})
}

func (r *EmbeddingRepository) list(ctx context.Context, matchIDs, columns []string, op string) (map[string]embedding.Vector, error) {
	out := make(map[string]embedding.Vector, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}
	query, args, err := embeddingListQuery(matchIDs, columns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []matchEmbeddingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, row := range rows {
		out[row.MatchID] = embedding.Vector{
			MatchID:         row.MatchID,
			Values:          row.Embedding.Slice(),
			DigestHash:      row.DigestHash,
			TemplateVersion: row.TemplateVersion,
			Model:           row.Model,
			UpdatedAt:       row.UpdatedAt.UTC(),
		}
	}
	return out, nil
}

func (r *EmbeddingRepository) Search(ctx context.Context, query []float32, candidates []string, limit int) ([]embedding.Hit, error) {
	if len(candidates) == 0 || limit <= 0 {
		return nil, nil
	}
	sqlQuery, args, err := psql.Select("match_id").
		Column(sq.Expr("embedding <=> ? AS distance", pgvector.NewVector(query))).
		From("match_embeddings").
		Where(sq.Eq{"match_id": candidates}).
		OrderBy("distance", "match_id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search match embeddings query: %w", err)
	}

	var rows []embeddingHitModel
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("search match embeddings: %w", err)
	}
	out := make([]embedding.Hit, 0, len(rows))
	for _, row := range rows {
		out = append(out, embedding.Hit{MatchID: row.MatchID, Distance: row.Distance})
	}
	return out, nil
}
