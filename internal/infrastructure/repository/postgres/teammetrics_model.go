package postgres

import (
	"database/sql"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
)

type teamMatchMetricsTableModel struct {
	MatchID           string          `db:"match_id"`
	TeamID            string          `db:"team_id"`
	OpponentTeamID    string          `db:"opponent_team_id"`
	Side              string          `db:"side"`
	EventsStatus      string          `db:"events_status"`
	PassesTotal       int             `db:"passes_total"`
	PassesCompleted   int             `db:"passes_completed"`
	PassAccuracy      sql.NullFloat64 `db:"pass_accuracy"`
	ProgressivePasses int             `db:"progressive_passes"`
	Verticality       sql.NullFloat64 `db:"verticality"`
	PPDA              sql.NullFloat64 `db:"ppda"`
	HighPressActions  int             `db:"high_press_actions"`
	DefensiveActions  int             `db:"defensive_actions"`
	Tackles           int             `db:"tackles"`
	Interceptions     int             `db:"interceptions"`
	Clearances        int             `db:"clearances"`
	Aerials           int             `db:"aerials"`
	Fouls             int             `db:"fouls"`
	BallRecoveries    int             `db:"ball_recoveries"`
	Shots             int             `db:"shots"`
	ShotsOnTarget     int             `db:"shots_on_target"`
	Goals             int             `db:"goals"`
	XG                sql.NullFloat64 `db:"xg"`
	XGPerShot         sql.NullFloat64 `db:"xg_per_shot"`
	XGStatus          string          `db:"xg_status"`
	MedianX           sql.NullFloat64 `db:"median_x"`
	MedianY           sql.NullFloat64 `db:"median_y"`
	DefenseLine       sql.NullFloat64 `db:"defense_line"`
	ForwardLine       sql.NullFloat64 `db:"forward_line"`
	Compactness       sql.NullFloat64 `db:"compactness"`
	Touches           int             `db:"touches"`
	Possession        sql.NullFloat64 `db:"possession"`
	FieldTilt         sql.NullFloat64 `db:"field_tilt"`
}

var teamMatchMetricsColumns = []string{
	"match_id", "team_id", "opponent_team_id", "side", "events_status",
	"passes_total", "passes_completed", "pass_accuracy", "progressive_passes", "verticality",
	"ppda", "high_press_actions", "defensive_actions", "tackles", "interceptions",
	"clearances", "aerials", "fouls", "ball_recoveries",
	"shots", "shots_on_target", "goals", "xg", "xg_per_shot", "xg_status",
	"median_x", "median_y", "defense_line", "forward_line", "compactness",
	"touches", "possession", "field_tilt",
}

// teamMatchMetricsValues follows teamMatchMetricsColumns order.
func teamMatchMetricsValues(m teammetrics.TeamMatchMetrics) []any {
	return []any{
		m.MatchID, m.TeamID, m.OpponentTeamID, string(m.Side), string(m.EventsStatus),
		m.PassesTotal, m.PassesCompleted, m.PassAccuracy, m.ProgressivePasses, m.Verticality,
		m.PPDA, m.HighPressActions, m.DefensiveActions, m.Tackles, m.Interceptions,
		m.Clearances, m.Aerials, m.Fouls, m.BallRecoveries,
		m.Shots, m.ShotsOnTarget, m.Goals, m.XG, m.XGPerShot, string(m.XGStatus),
		m.MedianX, m.MedianY, m.DefenseLine, m.ForwardLine, m.Compactness,
		m.Touches, m.Possession, m.FieldTilt,
	}
}

func (m teamMatchMetricsTableModel) metrics() teammetrics.TeamMatchMetrics {
	return teammetrics.TeamMatchMetrics{
		MatchID:           m.MatchID,
		TeamID:            m.TeamID,
		OpponentTeamID:    m.OpponentTeamID,
		Side:              mapping.Side(m.Side),
		EventsStatus:      teammetrics.EventsStatus(m.EventsStatus),
		PassesTotal:       m.PassesTotal,
		PassesCompleted:   m.PassesCompleted,
		PassAccuracy:      floatPtr(m.PassAccuracy),
		ProgressivePasses: m.ProgressivePasses,
		Verticality:       floatPtr(m.Verticality),
		PPDA:              floatPtr(m.PPDA),
		HighPressActions:  m.HighPressActions,
		DefensiveActions:  m.DefensiveActions,
		Tackles:           m.Tackles,
		Interceptions:     m.Interceptions,
		Clearances:        m.Clearances,
		Aerials:           m.Aerials,
		Fouls:             m.Fouls,
		BallRecoveries:    m.BallRecoveries,
		Shots:             m.Shots,
		ShotsOnTarget:     m.ShotsOnTarget,
		Goals:             m.Goals,
		XG:                floatPtr(m.XG),
		XGPerShot:         floatPtr(m.XGPerShot),
		XGStatus:          teammetrics.XGStatus(m.XGStatus),
		MedianX:           floatPtr(m.MedianX),
		MedianY:           floatPtr(m.MedianY),
		DefenseLine:       floatPtr(m.DefenseLine),
		ForwardLine:       floatPtr(m.ForwardLine),
		Compactness:       floatPtr(m.Compactness),
		Touches:           m.Touches,
		Possession:        floatPtr(m.Possession),
		FieldTilt:         floatPtr(m.FieldTilt),
	}
}
