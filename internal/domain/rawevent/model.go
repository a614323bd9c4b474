package rawevent

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies an upstream data source.
type Provider string

const (
	// ProviderWhoScored publishes the full event stream.
	ProviderWhoScored Provider = "whoscored"
	// ProviderFotMob publishes shot maps with expected goals.
	ProviderFotMob Provider = "fotmob"
)

// Providers lists every supported source in resolution order.
var Providers = []Provider{ProviderWhoScored, ProviderFotMob}

func ParseProvider(v string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(v)))
	switch p {
	case ProviderWhoScored, ProviderFotMob:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider %q", v)
	}
}

// Kind is the provider-independent event vocabulary.
type Kind string

const (
	KindPass         Kind = "Pass"
	KindTackle       Kind = "Tackle"
	KindInterception Kind = "Interception"
	KindClearance    Kind = "Clearance"
	KindBallRecovery Kind = "BallRecovery"
	KindFoul         Kind = "Foul"
	KindAerial       Kind = "Aerial"
	KindTakeOn       Kind = "TakeOn"
	KindShot         Kind = "Shot"
	KindOther        Kind = "Other"
)

// TeamRef is a team as one provider names it.
type TeamRef struct {
	ProviderTeamID string
	Name           string
}

// Fixture is the match header carried by one provider payload.
type Fixture struct {
	Provider        Provider
	ProviderMatchID string
	Competition     string
	Kickoff         time.Time
	Home            TeamRef
	Away            TeamRef
	HomeScore       *int
	AwayScore       *int
}

func (f Fixture) HasScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// Event is one atomic action. Coordinates are already on the canonical pitch
// with the acting team attacking towards x = 105.
type Event struct {
	Provider         Provider
	ProviderMatchID  string
	ProviderEventID  string
	ProviderTeamID   string
	ProviderPlayerID string
	Kind             Kind
	Successful       bool
	Period           int
	Minute           int
	Second           int
	X                float64
	Y                float64
	EndX             *float64
	EndY             *float64
	IsTouch          bool
	IsGoal           bool
	OnTarget         bool
	XG               *float64
}

func (e Event) HasEnd() bool {
	return e.EndX != nil && e.EndY != nil
}

// Payload is a provider body exactly as received.
type Payload struct {
	Provider        Provider
	ProviderMatchID string
	Body            []byte
	Hash            string
	IngestedAt      time.Time
}

// Record is what the store keeps per payload: the untouched body plus the
// typed view parsed from it.
type Record struct {
	Payload Payload
	Fixture Fixture
	Events  []Event
}

// InsertResult tells whether a payload was new.
type InsertResult string

const (
	InsertCreated   InsertResult = "created"
	InsertUnchanged InsertResult = "unchanged"
)
