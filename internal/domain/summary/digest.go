package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/team"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
	"github.com/valyala/bytebufferpool"
)

// TemplateVersion identifies the digest layout. Embeddings built from another
// version are stale.
const TemplateVersion = "v2"

const notAvailable = "n/a"

// Build assembles the summary of m. rows may hold zero, one or two metric
// rows; teams resolves display names and falls back to the canonical id.
func Build(m mapping.MatchMapping, teams map[string]team.Team, rows []teammetrics.TeamMatchMetrics) MatchSummary {
	s := MatchSummary{
		MatchID:         m.ID,
		Competition:     m.Competition,
		Kickoff:         m.Kickoff.UTC(),
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		HomeTeam:        teamName(teams, m.HomeTeamID),
		AwayTeam:        teamName(teams, m.AwayTeamID),
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
		Coverage:        m.Coverage(),
		TemplateVersion: TemplateVersion,
	}
	for i := range rows {
		row := rows[i]
		switch row.TeamID {
		case m.HomeTeamID:
			s.Home = &row
		case m.AwayTeamID:
			s.Away = &row
		}
	}
	s.HomeProfile = BuildProfile(s.Home)
	s.AwayProfile = BuildProfile(s.Away)
	s.Digest = RenderDigest(s)
	s.DigestHash = HashDigest(s.Digest)
	return s
}

func teamName(teams map[string]team.Team, id string) string {
	if t, ok := teams[id]; ok && t.Name != "" {
		return t.Name
	}
	return id
}

// RenderDigest writes the fixed-template text the embedder consumes.
func RenderDigest(s MatchSummary) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	hs, as := intOrNA(s.HomeScore), intOrNA(s.AwayScore)
	date := notAvailable
	if !s.Kickoff.IsZero() {
		date = s.Kickoff.Format("2006-01-02")
	}
	competition := s.Competition
	if competition == "" {
		competition = notAvailable
	}
	home, away := s.Home, s.Away

	line(buf, s.HomeTeam, " vs ", s.AwayTeam, " (", hs, "-", as, ") on ", date, " in ", competition, ".")
	line(buf, "Score: ", s.HomeTeam, " ", hs, ", ", s.AwayTeam, " ", as, ".")
	line(buf, "Shot quality: xG ", floatField(home, xg), " vs ", floatField(away, xg),
		"; shots ", intField(home, shots), " vs ", intField(away, shots), ".")
	line(buf, "Pressing: PPDA ", floatField(home, ppda), " vs ", floatField(away, ppda),
		"; high press actions ", intField(home, highPress), " vs ", intField(away, highPress), ".")
	line(buf, "Possession: ", percentField(home, possession), " vs ", percentField(away, possession),
		"; field tilt ", percentField(home, fieldTilt), " vs ", percentField(away, fieldTilt), ".")
	line(buf, "Progression: progressive passes ", intField(home, progressive), " vs ", intField(away, progressive),
		"; pass accuracy ", percentField(home, passAccuracy), " vs ", percentField(away, passAccuracy), ".")
	_, _ = buf.WriteString("Style: " + s.HomeTeam + " " + s.HomeProfile.String() + "; " + s.AwayTeam + " " + s.AwayProfile.String() + ".")

	return buf.String()
}

// HashDigest is the staleness key stored next to an embedding.
func HashDigest(digest string) string {
	sum := sha256.Sum256([]byte(TemplateVersion + "\n" + digest))
	return hex.EncodeToString(sum[:])
}

func line(buf *bytebufferpool.ByteBuffer, parts ...string) {
	for _, part := range parts {
		_, _ = buf.WriteString(part)
	}
	_ = buf.WriteByte('\n')
}

func xg(m *teammetrics.TeamMatchMetrics) *float64           { return m.XG }
func ppda(m *teammetrics.TeamMatchMetrics) *float64         { return m.PPDA }
func possession(m *teammetrics.TeamMatchMetrics) *float64   { return m.Possession }
func fieldTilt(m *teammetrics.TeamMatchMetrics) *float64    { return m.FieldTilt }
func passAccuracy(m *teammetrics.TeamMatchMetrics) *float64 { return m.PassAccuracy }

func shots(m *teammetrics.TeamMatchMetrics) int       { return m.Shots }
func highPress(m *teammetrics.TeamMatchMetrics) int   { return m.HighPressActions }
func progressive(m *teammetrics.TeamMatchMetrics) int { return m.ProgressivePasses }

func floatField(m *teammetrics.TeamMatchMetrics, get func(*teammetrics.TeamMatchMetrics) *float64) string {
	if m == nil {
		return notAvailable
	}
	v := get(m)
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// percentField is floatField with a % suffix; n/a stays bare.
func percentField(m *teammetrics.TeamMatchMetrics, get func(*teammetrics.TeamMatchMetrics) *float64) string {
	v := floatField(m, get)
	if v == notAvailable {
		return v
	}
	return v + "%"
}

// intField prints n/a for counts of a row with no event stream.
func intField(m *teammetrics.TeamMatchMetrics, get func(*teammetrics.TeamMatchMetrics) int) string {
	if m == nil || !m.HasEvents() {
		return notAvailable
	}
	return strconv.Itoa(get(m))
}

func intOrNA(v *int) string {
	if v == nil {
		return notAvailable
	}
	return strconv.Itoa(*v)
}
