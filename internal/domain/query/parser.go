package query

import (
	"sort"
	"strings"
	"unicode"

	"github.com/riskibarqy/matchlens/internal/domain/team"
)

const (
	maxWindow = 4
	// tieMargin separates a clear team hit from a coin flip between two.
	tieMargin = 0.05
)

var descriptiveWords = wordSet(
	"similar", "style", "styles", "like", "explain", "describe", "analyze", "analyse", "analysis",
	"why", "how", "tactical", "tactics", "dominant", "dominated", "dominating", "approach", "resembling",
)

var similarityWords = wordSet("similar", "like", "resembling")

var metricPhrases = []string{
	"field tilt", "pass accuracy", "high press", "progressive passes", "xg", "ppda", "possession",
	"passes", "shots", "compactness", "verticality", "goals", "score", "tackles", "interceptions",
}

var boundaryWords = wordSet(
	"the", "a", "an", "vs", "versus", "v", "against", "and", "or", "of", "in", "on", "at", "to", "with",
	"between", "match", "matches", "game", "games", "what", "was", "were", "is", "are", "did", "do",
	"show", "me", "find", "by", "for", "from", "their", "team", "teams", "when", "who", "which", "where",
	"s", "last", "latest", "recent", "play", "played", "playing", "stats", "statistics",
)

func wordSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// Parser reads free-text football questions against the team vocabulary.
type Parser struct {
	teams []team.Team
	names *team.Matcher
}

func NewParser(teams []team.Team, names *team.Matcher) *Parser {
	if names == nil {
		names = team.NewMatcher(nil, 0)
	}
	sorted := make([]team.Team, len(teams))
	copy(sorted, teams)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Parser{teams: sorted, names: names}
}

func (p *Parser) Parse(text string) (Parsed, error) {
	tokens := tokenize(text)
	mentions, err := p.mentions(tokens)
	if err != nil {
		return Parsed{}, err
	}

	parsed := Parsed{
		Text:     strings.TrimSpace(text),
		Mentions: mentions,
		Metrics:  metricKeywords(tokens),
	}
	parsed.SimilarTo = len(mentions) > 0 && containsAny(tokens, similarityWords)

	switch {
	case containsAny(tokens, descriptiveWords):
		parsed.Intent = IntentSemantic
	case len(parsed.Metrics) > 0, len(mentions) > 0:
		parsed.Intent = IntentStat
	default:
		parsed.Intent = IntentSemantic
	}
	return parsed, nil
}

type scored struct {
	team  team.Team
	score float64
}

// mentions scans token windows longest first so "manchester united" wins
// over "manchester".
func (p *Parser) mentions(tokens []string) ([]Mention, error) {
	var out []Mention
	seen := make(map[string]struct{})
	threshold := p.names.Threshold()

	for i := 0; i < len(tokens); {
		advanced := false
		for n := min(maxWindow, len(tokens)-i); n >= 1; n-- {
			window := tokens[i : i+n]
			if isBoundary(window[0]) || isBoundary(window[n-1]) {
				continue
			}
			fragment := strings.Join(window, " ")
			ranked := p.rank(fragment)
			if len(ranked) == 0 || ranked[0].score < threshold {
				continue
			}
			if len(ranked) > 1 && ranked[1].score >= threshold && ranked[0].score-ranked[1].score <= tieMargin {
				candidates := make([]string, 0, len(ranked))
				for _, r := range ranked {
					if ranked[0].score-r.score <= tieMargin {
						candidates = append(candidates, r.team.Name)
					}
				}
				return nil, &AmbiguousTeamsError{Fragment: fragment, Candidates: candidates}
			}

			best := ranked[0]
			if _, dup := seen[best.team.ID]; !dup {
				seen[best.team.ID] = struct{}{}
				out = append(out, Mention{
					TeamID:   best.team.ID,
					TeamName: best.team.Name,
					Fragment: fragment,
					Score:    best.score,
					Position: i,
				})
			}
			i += n
			advanced = true
			break
		}
		if !advanced {
			i++
		}
	}
	return out, nil
}

func (p *Parser) rank(fragment string) []scored {
	var out []scored
	for _, t := range p.teams {
		if s := p.names.MentionScore(fragment, t); s > 0 {
			out = append(out, scored{team: t, score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isBoundary(token string) bool {
	_, ok := boundaryWords[token]
	if ok {
		return true
	}
	_, ok = descriptiveWords[token]
	if ok {
		return true
	}
	for _, phrase := range metricPhrases {
		if phrase == token {
			return true
		}
	}
	return false
}

func containsAny(tokens []string, words map[string]struct{}) bool {
	for _, tok := range tokens {
		if _, ok := words[tok]; ok {
			return true
		}
	}
	return false
}

func metricKeywords(tokens []string) []string {
	joined := " " + strings.Join(tokens, " ") + " "
	var out []string
	for _, phrase := range metricPhrases {
		if strings.Contains(joined, " "+phrase+" ") {
			out = append(out, phrase)
		}
	}
	return out
}
