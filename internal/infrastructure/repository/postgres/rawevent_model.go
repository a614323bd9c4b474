package postgres

import (
	"database/sql"
	"time"
)

type rawPayloadTableModel struct {
	Provider           string        `db:"provider"`
	ProviderMatchID    string        `db:"provider_match_id"`
	Body               []byte        `db:"body"`
	BodyHash           string        `db:"body_hash"`
	Competition        string        `db:"competition"`
	KickoffAt          time.Time     `db:"kickoff_at"`
	HomeProviderTeamID string        `db:"home_provider_team_id"`
	HomeTeamName       string        `db:"home_team_name"`
	AwayProviderTeamID string        `db:"away_provider_team_id"`
	AwayTeamName       string        `db:"away_team_name"`
	HomeScore          sql.NullInt64 `db:"home_score"`
	AwayScore          sql.NullInt64 `db:"away_score"`
	IngestedAt         time.Time     `db:"ingested_at"`
}

type rawEventTableModel struct {
	Provider         string          `db:"provider"`
	ProviderMatchID  string          `db:"provider_match_id"`
	Seq              int             `db:"seq"`
	ProviderEventID  string          `db:"provider_event_id"`
	ProviderTeamID   string          `db:"provider_team_id"`
	ProviderPlayerID string          `db:"provider_player_id"`
	Kind             string          `db:"kind"`
	Successful       bool            `db:"successful"`
	Period           int             `db:"period"`
	Minute           int             `db:"minute"`
	Second           int             `db:"second"`
	X                float64         `db:"x"`
	Y                float64         `db:"y"`
	EndX             sql.NullFloat64 `db:"end_x"`
	EndY             sql.NullFloat64 `db:"end_y"`
	IsTouch          bool            `db:"is_touch"`
	IsGoal           bool            `db:"is_goal"`
	OnTarget         bool            `db:"on_target"`
	XG               sql.NullFloat64 `db:"xg"`
}

var rawEventColumns = []string{
	"provider", "provider_match_id", "seq", "provider_event_id", "provider_team_id",
	"provider_player_id", "kind", "successful", "period", "minute", "second",
	"x", "y", "end_x", "end_y", "is_touch", "is_goal", "on_target", "xg",
}
