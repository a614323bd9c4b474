package postgres

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type matchEmbeddingTableModel struct {
	MatchID         string          `db:"match_id"`
	Embedding       pgvector.Vector `db:"embedding"`
	DigestHash      string          `db:"digest_hash"`
	TemplateVersion string          `db:"template_version"`
	Model           string          `db:"model"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

type embeddingHitModel struct {
	MatchID  string  `db:"match_id"`
	Distance float64 `db:"distance"`
}
