package summary

import (
	"strings"

	"github.com/riskibarqy/matchlens/internal/domain/pitch"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
)

// Profile is a set of style labels read off a team's metrics. A label stays
// empty when its input metric is null.
type Profile struct {
	Tempo         string
	Block         string
	ChanceQuality string
	Possession    string
	Shape         string
	Territory     string
}

// BuildProfile applies the fixed style thresholds to m.
func BuildProfile(m *teammetrics.TeamMatchMetrics) Profile {
	if m == nil {
		return Profile{}
	}
	var p Profile
	if v := m.Verticality; v != nil {
		p.Tempo = pick(*v, 50, 35, "direct vertical passing", "balanced build-up", "patient build-up")
	}
	if v := m.DefenseLine; v != nil {
		p.Block = pick(*v, 48, 42, "high defensive line", "mid-block", "deep block")
	}
	if v := m.XGPerShot; v != nil {
		p.ChanceQuality = pick(*v, 0.15, 0.10, "high-quality chances", "decent chances", "speculative shooting")
	}
	if v := m.Possession; v != nil {
		p.Possession = pick(*v, 60, 45, "dominant possession", "controlled possession", "limited possession")
	}
	if v := m.Compactness; v != nil {
		pct := (1 - *v/pitch.Length) * 100
		p.Shape = pick(pct, 65, 50, "compact shape", "balanced shape", "stretched shape")
	}
	if v := m.FieldTilt; v != nil {
		p.Territory = pick(*v, 40, 30, "territorial control", "balanced territory", "limited final-third presence")
	}
	return p
}

func pick(v, high, mid float64, highLabel, midLabel, lowLabel string) string {
	switch {
	case v > high:
		return highLabel
	case v > mid:
		return midLabel
	default:
		return lowLabel
	}
}

func (p Profile) Labels() []string {
	out := make([]string, 0, 6)
	for _, label := range []string{p.Tempo, p.Block, p.ChanceQuality, p.Possession, p.Shape, p.Territory} {
		if label != "" {
			out = append(out, label)
		}
	}
	return out
}

func (p Profile) String() string {
	labels := p.Labels()
	if len(labels) == 0 {
		return notAvailable
	}
	return strings.Join(labels, ", ")
}
