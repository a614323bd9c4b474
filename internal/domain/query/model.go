package query

import (
	"errors"
	"fmt"
	"strings"
)

// Intent is how the router answers a question.
type Intent string

const (
	// IntentStat wants numbers from one specific match.
	IntentStat Intent = "stat"
	// IntentSemantic wants matches ranked by digest similarity.
	IntentSemantic Intent = "semantic"
)

var (
	ErrRetrievalAmbiguousTeams = errors.New("query mentions an ambiguous team")
	// ErrRetrievalNoMatchFound is reported through a result status, never
	// returned as a failure.
	ErrRetrievalNoMatchFound = errors.New("no match found for query")
)

// AmbiguousTeamsError names a fragment that matched several teams equally.
type AmbiguousTeamsError struct {
	Fragment   string
	Candidates []string
}

func (e *AmbiguousTeamsError) Error() string {
	return fmt.Sprintf("%s: %q could be %s", ErrRetrievalAmbiguousTeams, e.Fragment, strings.Join(e.Candidates, " or "))
}

func (e *AmbiguousTeamsError) Is(target error) bool {
	return target == ErrRetrievalAmbiguousTeams
}

// Mention is a team recognised in the query text.
type Mention struct {
	TeamID   string
	TeamName string
	Fragment string
	Score    float64
	Position int
}

// Parsed is the structured reading of a free-text question.
type Parsed struct {
	Text     string
	Intent   Intent
	Mentions []Mention
	// SimilarTo is set for "matches like X" questions: X seeds the search
	// and is excluded from the results.
	SimilarTo bool
	Metrics   []string
}

// TeamIDs returns mentioned teams in query order.
func (p Parsed) TeamIDs() []string {
	out := make([]string, 0, len(p.Mentions))
	for _, m := range p.Mentions {
		out = append(out, m.TeamID)
	}
	return out
}
