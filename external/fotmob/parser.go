// Package fotmob decodes FotMob match details into shot events carrying
// expected goals.
package fotmob

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

var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"Mon, Jan 2, 2006, 15:04 MST",
}

type Parser struct {
	validate *validator.Validate
}

func NewParser() *Parser {
	return &Parser{validate: validation.New()}
}

func (p *Parser) Provider() rawevent.Provider {
	return rawevent.ProviderFotMob
}

func (p *Parser) Parse(body []byte) (rawevent.Fixture, []rawevent.Event, error) {
	var doc matchDetails
	if err := sonic.Unmarshal(body, &doc); err != nil {
		return rawevent.Fixture{}, nil, &rawevent.ParseError{
			Provider: rawevent.ProviderFotMob,
			Field:    "$",
			Reason:   "invalid json",
			Err:      err,
		}
	}
	if err := p.validate.Struct(doc); err != nil {
		if field, rule, ok := validation.FirstFieldError(err); ok {
			return rawevent.Fixture{}, nil, rawevent.Malformed(rawevent.ProviderFotMob, field, rule)
		}
		return rawevent.Fixture{}, nil, &rawevent.ParseError{Provider: rawevent.ProviderFotMob, Field: "$", Reason: "validation", Err: err}
	}

	kickoff, ok := parseKickoff(doc.General.MatchTimeUTCDate, doc.General.MatchTimeUTC)
	if !ok {
		return rawevent.Fixture{}, nil, rawevent.Malformed(rawevent.ProviderFotMob, "general.matchTimeUTCDate", "missing or unparseable kickoff")
	}

	matchID := strconv.FormatInt(*doc.General.MatchID, 10)
	fixture := rawevent.Fixture{
		Provider:        rawevent.ProviderFotMob,
		ProviderMatchID: matchID,
		Competition:     strings.TrimSpace(doc.General.LeagueName),
		Kickoff:         kickoff,
		Home:            teamRef(doc.General.HomeTeam),
		Away:            teamRef(doc.General.AwayTeam),
	}
	if home, away, ok := parseScore(doc.Header.Status.ScoreStr); ok {
		fixture.HomeScore, fixture.AwayScore = &home, &away
	}

	shots := doc.Content.Shotmap.Shots
	events := make([]rawevent.Event, 0, len(shots))
	for i, item := range shots {
		teamID := strconv.FormatInt(*item.TeamID, 10)
		if teamID != fixture.Home.ProviderTeamID && teamID != fixture.Away.ProviderTeamID {
			return rawevent.Fixture{}, nil, rawevent.Malformed(rawevent.ProviderFotMob, fmt.Sprintf("content.shotmap.shots[%d].teamId", i), "team not in fixture")
		}
		events = append(events, toEvent(matchID, teamID, item))
	}

	return fixture, events, nil
}

func toEvent(matchID, teamID string, item shot) rawevent.Event {
	x, y := pitch.Clamp(*item.X, *item.Y)
	xg := *item.ExpectedGoals
	event := rawevent.Event{
		Provider:        rawevent.ProviderFotMob,
		ProviderMatchID: matchID,
		ProviderEventID: strconv.FormatInt(*item.ID, 10),
		ProviderTeamID:  teamID,
		Kind:            rawevent.KindShot,
		Successful:      item.EventType == "Goal",
		Period:          periodNumber(item.Period),
		Minute:          item.Min,
		X:               x,
		Y:               y,
		IsGoal:          item.EventType == "Goal",
		OnTarget:        item.IsOnTarget || item.EventType == "Goal",
		XG:              &xg,
	}
	if item.PlayerID != nil {
		event.ProviderPlayerID = strconv.FormatInt(*item.PlayerID, 10)
	}
	return event
}

func teamRef(t *team) rawevent.TeamRef {
	return rawevent.TeamRef{
		ProviderTeamID: strconv.FormatInt(*t.ID, 10),
		Name:           strings.TrimSpace(t.Name),
	}
}

func periodNumber(period string) int {
	switch period {
	case "FirstHalf":
		return 1
	case "SecondHalf":
		return 2
	default:
		return 0
	}
}

func parseKickoff(values ...string) (time.Time, bool) {
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		for _, layout := range kickoffLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// parseScore reads "3 - 1".
func parseScore(raw string) (int, int, bool) {
	parts := strings.Split(raw, "-")
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
