// Package whoscored decodes WhoScored match centre payloads into raw events.
package whoscored

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchlens/internal/domain/pitch"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/platform/validation"
)

// kindByType maps WhoScored type.displayName onto the shared vocabulary.
var kindByType = map[string]rawevent.Kind{
	"Pass":          rawevent.KindPass,
	"Tackle":        rawevent.KindTackle,
	"Interception":  rawevent.KindInterception,
	"Clearance":     rawevent.KindClearance,
	"BallRecovery":  rawevent.KindBallRecovery,
	"Foul":          rawevent.KindFoul,
	"Aerial":        rawevent.KindAerial,
	"TakeOn":        rawevent.KindTakeOn,
	"SavedShot":     rawevent.KindShot,
	"MissedShots":   rawevent.KindShot,
	"ShotOnPost":    rawevent.KindShot,
	"Goal":          rawevent.KindShot,
	"BlockedPass":   rawevent.KindOther,
	"OffsideGiven":  rawevent.KindOther,
	"CornerAwarded": rawevent.KindOther,
}

var startTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

type Parser struct {
	validate *validator.Validate
}

func NewParser() *Parser {
	return &Parser{validate: validation.New()}
}

func (p *Parser) Provider() rawevent.Provider {
	return rawevent.ProviderWhoScored
}

func (p *Parser) Parse(body []byte) (rawevent.Fixture, []rawevent.Event, error) {
	var doc matchCentre
	if err := sonic.Unmarshal(body, &doc); err != nil {
		return rawevent.Fixture{}, nil, &rawevent.ParseError{
			Provider: rawevent.ProviderWhoScored,
			Field:    "$",
			Reason:   "invalid json",
			Err:      err,
		}
	}
	if err := p.validate.Struct(doc); err != nil {
		if field, rule, ok := validation.FirstFieldError(err); ok {
			return rawevent.Fixture{}, nil, rawevent.Malformed(rawevent.ProviderWhoScored, field, rule)
		}
		return rawevent.Fixture{}, nil, &rawevent.ParseError{Provider: rawevent.ProviderWhoScored, Field: "$", Reason: "validation", Err: err}
	}

	kickoff, ok := parseStartTime(doc.StartTime)
	if !ok {
		return rawevent.Fixture{}, nil, rawevent.Malformed(rawevent.ProviderWhoScored, "startTime", "unparseable time "+strconv.Quote(doc.StartTime))
	}

	matchID := strconv.FormatInt(*doc.MatchID, 10)
	fixture := rawevent.Fixture{
		Provider:        rawevent.ProviderWhoScored,
		ProviderMatchID: matchID,
		Competition:     strings.TrimSpace(doc.Competition),
		Kickoff:         kickoff,
		Home:            teamRef(doc.Home),
		Away:            teamRef(doc.Away),
	}
	if home, away, ok := parseScore(doc.Score); ok {
		fixture.HomeScore, fixture.AwayScore = &home, &away
	}

	events := make([]rawevent.Event, 0, len(doc.Events))
	for i, item := range doc.Events {
		teamID := strconv.FormatInt(*item.TeamID, 10)
		if teamID != fixture.Home.ProviderTeamID && teamID != fixture.Away.ProviderTeamID {
			return rawevent.Fixture{}, nil, rawevent.Malformed(rawevent.ProviderWhoScored, fmt.Sprintf("events[%d].teamId", i), "team not in fixture")
		}
		events = append(events, toEvent(matchID, teamID, item))
	}

	return fixture, events, nil
}

func toEvent(matchID, teamID string, item matchEvent) rawevent.Event {
	kind, ok := kindByType[item.Type.DisplayName]
	if !ok {
		kind = rawevent.KindOther
	}

	x, y := pitch.FromPercent(*item.X, *item.Y)
	event := rawevent.Event{
		Provider:        rawevent.ProviderWhoScored,
		ProviderMatchID: matchID,
		ProviderEventID: strconv.FormatFloat(*item.ID, 'f', -1, 64),
		ProviderTeamID:  teamID,
		Kind:            kind,
		Successful:      item.OutcomeType.DisplayName == "Successful",
		Period:          periodNumber(item.Period),
		Minute:          item.Minute,
		Second:          int(item.Second),
		X:               x,
		Y:               y,
		IsTouch:         item.IsTouch,
		IsGoal:          item.IsGoal || item.Type.DisplayName == "Goal",
	}
	if item.PlayerID != nil {
		event.ProviderPlayerID = strconv.FormatInt(*item.PlayerID, 10)
	}
	if item.EndX != nil && item.EndY != nil {
		endX, endY := pitch.FromPercent(*item.EndX, *item.EndY)
		event.EndX, event.EndY = &endX, &endY
	}
	if kind == rawevent.KindShot {
		switch item.Type.DisplayName {
		case "SavedShot", "Goal":
			event.OnTarget = true
		}
	}
	return event
}

func teamRef(side *teamSide) rawevent.TeamRef {
	return rawevent.TeamRef{
		ProviderTeamID: strconv.FormatInt(*side.TeamID, 10),
		Name:           strings.TrimSpace(side.Name),
	}
}

func periodNumber(period *displayName) int {
	if period == nil {
		return 0
	}
	switch period.DisplayName {
	case "FirstHalf":
		return 1
	case "SecondHalf":
		return 2
	case "FirstPeriodOfExtraTime":
		return 3
	case "SecondPeriodOfExtraTime":
		return 4
	case "PenaltyShootout":
		return 5
	default:
		return 0
	}
}

func parseStartTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	for _, layout := range startTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseScore reads "3 : 1".
func parseScore(raw string) (int, int, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || home < 0 {
		return 0, 0, false
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || away < 0 {
		return 0, 0, false
	}
	return home, away, true
}
