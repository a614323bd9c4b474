package team

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultNameThreshold is the minimum similarity for two display names to
// denote the same club.
const DefaultNameThreshold = 0.85

// containmentScore is awarded when every token of the shorter name appears in
// the longer one ("PSV" and "PSV Eindhoven").
const containmentScore = 0.95

var clubAffixes = map[string]struct{}{
	"fc": {}, "afc": {}, "sc": {}, "cf": {}, "sv": {}, "vv": {}, "fk": {},
	"ac": {}, "bk": {}, "if": {}, "cd": {}, "ud": {}, "ss": {}, "bv": {},
}

// NormalizeName folds case and diacritics, drops punctuation and club affixes.
func NormalizeName(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	kept := fields[:0]
	for _, field := range fields {
		if _, ok := clubAffixes[field]; ok {
			continue
		}
		kept = append(kept, field)
	}
	if len(kept) == 0 {
		// A name made only of affixes ("AC") is still a name.
		return strings.Join(fields, " ")
	}
	return strings.Join(kept, " ")
}

// Matcher scores display-name similarity, honouring a configured alias book.
type Matcher struct {
	aliases   map[string]string
	threshold float64
	metric    strutil.StringMetric
}

// NewMatcher builds a matcher. aliases maps a group key to the names that
// denote the same club; threshold <= 0 uses DefaultNameThreshold.
func NewMatcher(aliases map[string][]string, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultNameThreshold
	}
	book := make(map[string]string)
	for group, names := range aliases {
		key := NormalizeName(group)
		book[key] = key
		for _, name := range names {
			book[NormalizeName(name)] = key
		}
	}
	return &Matcher{
		aliases:   book,
		threshold: threshold,
		metric:    metrics.NewLevenshtein(),
	}
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Similarity returns a score in [0, 1].
func (m *Matcher) Similarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if m.sameGroup(na, nb) {
		return 1
	}
	if tokensContained(na, nb) {
		return containmentScore
	}
	return strutil.Similarity(na, nb, m.metric)
}

// Matches reports whether a and b clear the threshold.
func (m *Matcher) Matches(a, b string) bool {
	return m.Similarity(a, b) >= m.threshold
}

// BestScore is the highest similarity between probe and any of t's names.
func (m *Matcher) BestScore(probe string, t Team) float64 {
	best := 0.0
	for _, name := range t.Names() {
		if s := m.Similarity(probe, name); s > best {
			best = s
		}
	}
	return best
}

// MentionScore scores a free-text fragment against t's names. Unlike
// Similarity, containment only counts when the fragment is the shorter side,
// so "ajax vs psv" does not match Ajax by containment.
func (m *Matcher) MentionScore(fragment string, t Team) float64 {
	nf := NormalizeName(fragment)
	if nf == "" {
		return 0
	}
	best := 0.0
	for _, name := range t.Names() {
		nn := NormalizeName(name)
		var score float64
		switch {
		case nn == nf:
			score = 1
		case m.sameGroup(nf, nn):
			score = 1
		case len(strings.Fields(nf)) < len(strings.Fields(nn)) && tokensContained(nf, nn):
			score = containmentScore
		default:
			score = strutil.Similarity(nf, nn, m.metric)
		}
		if score > best {
			best = score
		}
	}
	return best
}

func (m *Matcher) sameGroup(a, b string) bool {
	ga, ok := m.aliases[a]
	if !ok {
		return false
	}
	gb, ok := m.aliases[b]
	return ok && ga == gb
}

func tokensContained(a, b string) bool {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) > len(tb) {
		ta, tb = tb, ta
	}
	if len(ta) == 0 || len(ta) == len(tb) {
		return false
	}
	set := make(map[string]struct{}, len(tb))
	for _, tok := range tb {
		set[tok] = struct{}{}
	}
	for _, tok := range ta {
		if _, ok := set[tok]; !ok {
			return false
		}
	}
	return true
}
