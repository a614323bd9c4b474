package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Aliases         pq.StringArray `db:"aliases"`
	WhoScoredTeamID sql.NullString `db:"whoscored_team_id"`
	FotMobTeamID    sql.NullString `db:"fotmob_team_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
