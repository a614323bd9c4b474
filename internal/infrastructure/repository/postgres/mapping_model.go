package postgres

import (
	"database/sql"
	"time"
)

type matchMappingTableModel struct {
	ID                  string         `db:"id"`
	Competition         string         `db:"competition"`
	KickoffAt           time.Time      `db:"kickoff_at"`
	HomeTeamID          string         `db:"home_team_id"`
	AwayTeamID          string         `db:"away_team_id"`
	HomeScore           sql.NullInt64  `db:"home_score"`
	AwayScore           sql.NullInt64  `db:"away_score"`
	WhoScoredMatchID    sql.NullString `db:"whoscored_match_id"`
	WhoScoredHomeTeamID sql.NullString `db:"whoscored_home_team_id"`
	WhoScoredAwayTeamID sql.NullString `db:"whoscored_away_team_id"`
	FotMobMatchID       sql.NullString `db:"fotmob_match_id"`
	FotMobHomeTeamID    sql.NullString `db:"fotmob_home_team_id"`
	FotMobAwayTeamID    sql.NullString `db:"fotmob_away_team_id"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}
