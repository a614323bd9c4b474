package postgres

import "time"

type matchSummaryTableModel struct {
	MatchID         string    `db:"match_id"`
	Competition     string    `db:"competition"`
	KickoffAt       time.Time `db:"kickoff_at"`
	HomeTeamID      string    `db:"home_team_id"`
	AwayTeamID      string    `db:"away_team_id"`
	Coverage        string    `db:"coverage"`
	Document        []byte    `db:"document"`
	Digest          string    `db:"digest"`
	DigestHash      string    `db:"digest_hash"`
	TemplateVersion string    `db:"template_version"`
	UpdatedAt       time.Time `db:"updated_at"`
}
