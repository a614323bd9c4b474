package whoscored

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

const samplePayload = `{
  "matchId": 1821010,
  "competition": "Eredivisie",
  "startTime": "2024-08-10T18:45:00",
  "score": "3 : 1",
  "home": {"teamId": 129, "name": "PSV Eindhoven"},
  "away": {"teamId": 874, "name": "Ajax"},
  "events": [
    {"id": 2701001, "eventId": 3, "minute": 0, "second": 12, "teamId": 129, "playerId": 91,
     "x": 50.0, "y": 50.0, "endX": 70.0, "endY": 40.0,
     "type": {"displayName": "Pass"}, "outcomeType": {"displayName": "Successful"},
     "period": {"displayName": "FirstHalf"}, "isTouch": true},
    {"id": 2701002, "eventId": 4, "minute": 1, "teamId": 874,
     "x": 30.0, "y": 60.0,
     "type": {"displayName": "Tackle"}, "outcomeType": {"displayName": "Unsuccessful"},
     "period": {"displayName": "FirstHalf"}, "isTouch": true},
    {"id": 2701003, "eventId": 5, "minute": 2, "teamId": 129,
     "x": 88.0, "y": 52.0,
     "type": {"displayName": "Goal"}, "outcomeType": {"displayName": "Successful"},
     "period": {"displayName": "SecondHalf"}, "isTouch": true, "isShot": true, "isGoal": true},
    {"id": 2701004, "eventId": 6, "minute": 3, "teamId": 874,
     "x": 10.0, "y": 10.0,
     "type": {"displayName": "FormationChange"}, "outcomeType": {"displayName": "Successful"}}
  ]
}`

func TestParser_Parse(t *testing.T) {
	fixture, events, err := NewParser().Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if fixture.ProviderMatchID != "1821010" || fixture.Competition != "Eredivisie" {
		t.Fatalf("unexpected fixture header: %+v", fixture)
	}
	if fixture.Home.ProviderTeamID != "129" || fixture.Away.Name != "Ajax" {
		t.Fatalf("unexpected teams: %+v %+v", fixture.Home, fixture.Away)
	}
	if !fixture.HasScore() || *fixture.HomeScore != 3 || *fixture.AwayScore != 1 {
		t.Fatalf("unexpected score: %v %v", fixture.HomeScore, fixture.AwayScore)
	}
	if fixture.Kickoff.Hour() != 18 || fixture.Kickoff.Minute() != 45 {
		t.Fatalf("unexpected kickoff: %s", fixture.Kickoff)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	pass := events[0]
	if pass.Kind != rawevent.KindPass || !pass.Successful || pass.Period != 1 {
		t.Fatalf("unexpected pass: %+v", pass)
	}
	if math.Abs(pass.X-52.5) > 1e-9 || math.Abs(pass.Y-34) > 1e-9 {
		t.Fatalf("expected normalized start (52.5,34), got (%v,%v)", pass.X, pass.Y)
	}
	if !pass.HasEnd() || math.Abs(*pass.EndX-73.5) > 1e-9 || math.Abs(*pass.EndY-27.2) > 1e-9 {
		t.Fatalf("unexpected pass end: %v %v", pass.EndX, pass.EndY)
	}
	if pass.ProviderPlayerID != "91" {
		t.Fatalf("unexpected player id %q", pass.ProviderPlayerID)
	}

	goal := events[2]
	if goal.Kind != rawevent.KindShot || !goal.IsGoal || !goal.OnTarget || goal.Period != 2 {
		t.Fatalf("unexpected goal event: %+v", goal)
	}
	if events[3].Kind != rawevent.KindOther {
		t.Fatalf("unknown types must map to Other, got %s", events[3].Kind)
	}
}

func TestParser_RejectsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{name: "invalid json", body: `{"matchId":`, field: "$"},
		{name: "missing match id", body: strings.Replace(samplePayload, `"matchId": 1821010,`, ``, 1), field: "matchId"},
		{name: "coordinate out of range", body: strings.Replace(samplePayload, `"x": 88.0`, `"x": 188.0`, 1), field: "events[2].x"},
		{name: "missing event type", body: strings.Replace(samplePayload, `"type": {"displayName": "Tackle"}, `, ``, 1), field: "events[1].type"},
		{name: "unknown team", body: strings.Replace(samplePayload, `"minute": 3, "teamId": 874`, `"minute": 3, "teamId": 5`, 1), field: "events[3].teamId"},
		{name: "bad start time", body: strings.Replace(samplePayload, `2024-08-10T18:45:00`, `yesterday`, 1), field: "startTime"},
		{name: "no events", body: `{"matchId": 1, "startTime": "2024-08-10T18:45:00", "home": {"teamId": 1, "name": "A"}, "away": {"teamId": 2, "name": "B"}, "events": []}`, field: "events"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := NewParser().Parse([]byte(tc.body))
			if !errors.Is(err, rawevent.ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
			var parseErr *rawevent.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if parseErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%v)", tc.field, parseErr.Field, err)
			}
		})
	}
}

func TestParseScore(t *testing.T) {
	if _, _, ok := parseScore(""); ok {
		t.Fatalf("empty score must not parse")
	}
	h, a, ok := parseScore("0 : 0")
	if !ok || h != 0 || a != 0 {
		t.Fatalf("unexpected score %d-%d %v", h, a, ok)
	}
}
