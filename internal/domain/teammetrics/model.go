package teammetrics

import (
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
)

// XGStatus tells how the FotMob shot map joined a team's row.
type XGStatus string

const (
	XGJoined         XGStatus = "joined"
	XGJoinedNoShots  XGStatus = "joined_no_shots"
	XGNoProviderData XGStatus = "no_provider_data"
)

// EventsStatus tells whether the WhoScored event stream backs a row. Every
// count and stream-derived ratio depends on it.
type EventsStatus string

const (
	EventsJoined         EventsStatus = "joined"
	EventsNoProviderData EventsStatus = "no_provider_data"
)

// TeamMatchMetrics is one team's derived numbers for one canonical match.
// Nil pointers mean the metric is undefined for the match, never zero.
type TeamMatchMetrics struct {
	MatchID        string
	TeamID         string
	OpponentTeamID string
	Side           mapping.Side
	EventsStatus   EventsStatus

	PassesTotal       int
	PassesCompleted   int
	PassAccuracy      *float64
	ProgressivePasses int
	Verticality       *float64

	PPDA             *float64
	HighPressActions int
	DefensiveActions int
	Tackles          int
	Interceptions    int
	Clearances       int
	Aerials          int
	Fouls            int
	BallRecoveries   int

	Shots         int
	ShotsOnTarget int
	Goals         int
	XG            *float64
	XGPerShot     *float64
	XGStatus      XGStatus

	MedianX     *float64
	MedianY     *float64
	DefenseLine *float64
	ForwardLine *float64
	Compactness *float64

	Touches    int
	Possession *float64
	FieldTilt  *float64
}

// HasEvents reports whether the counts are real. Without the event stream a
// zero count means missing data, not zero actions.
func (m TeamMatchMetrics) HasEvents() bool {
	return m.EventsStatus != EventsNoProviderData
}
