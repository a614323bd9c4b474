package mapping

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/team"
)

var kickoff = time.Date(2025, 2, 2, 13, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func wsFixture(id, home, away string, at time.Time) rawevent.Fixture {
	return rawevent.Fixture{
		Provider:        rawevent.ProviderWhoScored,
		ProviderMatchID: id,
		Competition:     "Eredivisie",
		Kickoff:         at,
		Home:            rawevent.TeamRef{ProviderTeamID: "ws-" + home, Name: home},
		Away:            rawevent.TeamRef{ProviderTeamID: "ws-" + away, Name: away},
	}
}

func fmFixture(id, home, away string, at time.Time) rawevent.Fixture {
	return rawevent.Fixture{
		Provider:        rawevent.ProviderFotMob,
		ProviderMatchID: id,
		Competition:     "Eredivisie",
		Kickoff:         at,
		Home:            rawevent.TeamRef{ProviderTeamID: "fm-" + home, Name: home},
		Away:            rawevent.TeamRef{ProviderTeamID: "fm-" + away, Name: away},
	}
}

func newTestResolver() *Resolver {
	return NewResolver(team.NewMatcher(nil, 0), ResolverConfig{
		Now: func() time.Time { return kickoff.Add(48 * time.Hour) },
	})
}

func TestResolver_PairsFixturesAcrossProviders(t *testing.T) {
	ws := wsFixture("1903341", "AFC Ajax", "PSV Eindhoven", kickoff)
	ws.HomeScore, ws.AwayScore = intPtr(2), intPtr(1)
	fm := fmFixture("4534521", "Ajax", "PSV", kickoff.Add(time.Hour))
	fm.HomeScore, fm.AwayScore = intPtr(2), intPtr(1)

	res := newTestResolver().Resolve(Input{
		WhoScored: []rawevent.Fixture{ws},
		FotMob:    []rawevent.Fixture{fm},
	})

	if err := res.Err(); err != nil {
		t.Fatalf("unexpected ambiguity: %v", err)
	}
	if len(res.Mappings) != 1 || res.Created != 1 {
		t.Fatalf("expected one created mapping, got %d (created=%d)", len(res.Mappings), res.Created)
	}
	m := res.Mappings[0]
	if m.ID != CanonicalMatchID(rawevent.ProviderWhoScored, "1903341") {
		t.Fatalf("unexpected canonical id %s", m.ID)
	}
	if m.Coverage() != CoverageFull {
		t.Fatalf("expected full coverage, got %s", m.Coverage())
	}
	if m.FotMob.HomeTeamID != "fm-Ajax" || m.WhoScored.HomeTeamID != "ws-AFC Ajax" {
		t.Fatalf("provider home ids not aligned: %+v %+v", m.WhoScored, m.FotMob)
	}
	if m.HomeScore == nil || *m.HomeScore != 2 || !m.Kickoff.Equal(kickoff) {
		t.Fatalf("expected whoscored metadata, got %+v", m)
	}
	if len(res.Gaps) != 0 {
		t.Fatalf("expected no gaps, got %+v", res.Gaps)
	}

	if len(res.Teams) != 2 {
		t.Fatalf("expected two teams, got %d", len(res.Teams))
	}
	var home team.Team
	for _, tm := range res.Teams {
		if tm.ID == m.HomeTeamID {
			home = tm
		}
	}
	if home.Name != "Ajax" || len(home.Aliases) != 1 || home.Aliases[0] != "AFC Ajax" {
		t.Fatalf("expected fotmob name with whoscored alias, got %+v", home)
	}
	if home.ProviderID(rawevent.ProviderWhoScored) != "ws-AFC Ajax" || home.ProviderID(rawevent.ProviderFotMob) != "fm-Ajax" {
		t.Fatalf("expected both provider ids, got %+v", home.ProviderIDs)
	}
}

func TestResolver_SwappedSlotsAreAmbiguous(t *testing.T) {
	ws := wsFixture("1", "Ajax", "PSV", kickoff)
	fm := fmFixture("9", "PSV", "Ajax", kickoff)

	res := newTestResolver().Resolve(Input{
		WhoScored: []rawevent.Fixture{ws},
		FotMob:    []rawevent.Fixture{fm},
	})

	if len(res.Mappings) != 0 {
		t.Fatalf("swapped fixtures must not be mapped, got %+v", res.Mappings)
	}
	if len(res.Ambiguities) != 2 {
		t.Fatalf("expected ambiguity for both fixtures, got %d", len(res.Ambiguities))
	}
	for _, amb := range res.Ambiguities {
		if amb.Reason != ReasonTeamSlotMismatch {
			t.Fatalf("unexpected reason %q", amb.Reason)
		}
	}
	if !errors.Is(res.Err(), ErrMappingAmbiguity) {
		t.Fatalf("expected ErrMappingAmbiguity, got %v", res.Err())
	}
}

func TestResolver_MultipleCandidatesAreAmbiguous(t *testing.T) {
	res := newTestResolver().Resolve(Input{
		WhoScored: []rawevent.Fixture{
			wsFixture("1", "Ajax", "PSV", kickoff),
			wsFixture("2", "Ajax", "PSV", kickoff.Add(3*time.Hour)),
		},
		FotMob: []rawevent.Fixture{fmFixture("9", "Ajax", "PSV", kickoff)},
	})

	if len(res.Mappings) != 0 {
		t.Fatalf("ambiguous fixtures must not be mapped, got %d", len(res.Mappings))
	}
	if len(res.Ambiguities) != 3 {
		t.Fatalf("expected every involved fixture reported, got %d", len(res.Ambiguities))
	}
	var fotmob *AmbiguityError
	for _, amb := range res.Ambiguities {
		if amb.Reason != ReasonMultipleCandidates {
			t.Fatalf("unexpected reason %q", amb.Reason)
		}
		if amb.Provider == rawevent.ProviderFotMob {
			fotmob = amb
		}
	}
	if fotmob == nil || len(fotmob.Candidates) != 2 || fotmob.Candidates[0] != "1" || fotmob.Candidates[1] != "2" {
		t.Fatalf("expected fotmob fixture listing both candidates, got %+v", fotmob)
	}
}

func TestResolver_SingleProviderFixtureIsStoredWithGap(t *testing.T) {
	res := newTestResolver().Resolve(Input{
		WhoScored: []rawevent.Fixture{wsFixture("1", "Ajax", "PSV", kickoff)},
	})

	if len(res.Mappings) != 1 {
		t.Fatalf("expected partial mapping, got %d", len(res.Mappings))
	}
	if res.Mappings[0].Coverage() != CoverageWhoScoredOnly || res.Mappings[0].FotMob != nil {
		t.Fatalf("expected whoscored-only coverage, got %+v", res.Mappings[0])
	}
	if len(res.Gaps) != 1 || res.Gaps[0].Missing != rawevent.ProviderFotMob {
		t.Fatalf("expected gap warning for missing fotmob, got %+v", res.Gaps)
	}
	if res.Err() != nil {
		t.Fatalf("a gap is not an error: %v", res.Err())
	}
}

func TestResolver_RejectsDisagreeingEvidence(t *testing.T) {
	cases := []struct {
		name string
		ws   rawevent.Fixture
		fm   rawevent.Fixture
	}{
		{
			name: "kickoff outside tolerance",
			ws:   wsFixture("1", "Ajax", "PSV", kickoff),
			fm:   fmFixture("9", "Ajax", "PSV", kickoff.Add(25*time.Hour)),
		},
		{
			name: "different clubs",
			ws:   wsFixture("1", "Manchester United", "Arsenal", kickoff),
			fm:   fmFixture("9", "Manchester City", "Arsenal", kickoff),
		},
		{
			name: "scores disagree",
			ws: func() rawevent.Fixture {
				f := wsFixture("1", "Ajax", "PSV", kickoff)
				f.HomeScore, f.AwayScore = intPtr(2), intPtr(1)
				return f
			}(),
			fm: func() rawevent.Fixture {
				f := fmFixture("9", "Ajax", "PSV", kickoff)
				f.HomeScore, f.AwayScore = intPtr(0), intPtr(3)
				return f
			}(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newTestResolver().Resolve(Input{
				WhoScored: []rawevent.Fixture{tc.ws},
				FotMob:    []rawevent.Fixture{tc.fm},
			})
			if len(res.Mappings) != 2 || len(res.Gaps) != 2 {
				t.Fatalf("expected two partial mappings with gaps, got %d mappings %d gaps", len(res.Mappings), len(res.Gaps))
			}
			for _, m := range res.Mappings {
				if m.Coverage() == CoverageFull {
					t.Fatalf("unexpected full mapping %+v", m)
				}
			}
		})
	}
}

func TestResolver_RerunIsIdempotent(t *testing.T) {
	in := Input{
		WhoScored: []rawevent.Fixture{wsFixture("1", "Ajax", "PSV", kickoff)},
		FotMob:    []rawevent.Fixture{fmFixture("9", "Ajax", "PSV", kickoff)},
	}
	r := newTestResolver()
	first := r.Resolve(in)

	in.Existing = first.Mappings
	in.Teams = first.Teams
	second := r.Resolve(in)

	if len(second.Mappings) != 0 || len(second.Teams) != 0 {
		t.Fatalf("rerun must not rewrite rows, got %d mappings %d teams", len(second.Mappings), len(second.Teams))
	}
	if second.Unchanged != 2 || second.Created != 0 {
		t.Fatalf("expected both identities unchanged, got %+v", second)
	}
}

func TestResolver_WidensPartialMapping(t *testing.T) {
	r := newTestResolver()
	first := r.Resolve(Input{WhoScored: []rawevent.Fixture{wsFixture("1", "Ajax", "PSV", kickoff)}})

	second := r.Resolve(Input{
		WhoScored: []rawevent.Fixture{wsFixture("1", "Ajax", "PSV", kickoff)},
		FotMob:    []rawevent.Fixture{fmFixture("9", "Ajax", "PSV", kickoff.Add(2*time.Hour))},
		Existing:  first.Mappings,
		Teams:     first.Teams,
	})

	if second.Widened != 1 || second.Created != 0 {
		t.Fatalf("expected one widened mapping, got %+v", second)
	}
	if len(second.Mappings) != 1 || second.Mappings[0].ID != first.Mappings[0].ID {
		t.Fatalf("widening must keep the canonical id")
	}
	if second.Mappings[0].Coverage() != CoverageFull {
		t.Fatalf("expected full coverage after widening")
	}
	if !second.Mappings[0].CreatedAt.Equal(first.Mappings[0].CreatedAt) {
		t.Fatalf("created_at must survive widening")
	}
}

func TestResolver_SplitIdentitiesAreNotMerged(t *testing.T) {
	r := newTestResolver()
	ws := wsFixture("1", "Ajax", "PSV", kickoff)
	fm := fmFixture("9", "Ajax", "PSV", kickoff)

	partialWS := r.Resolve(Input{WhoScored: []rawevent.Fixture{ws}})
	partialFM := r.Resolve(Input{FotMob: []rawevent.Fixture{fm}, Teams: partialWS.Teams})

	res := r.Resolve(Input{
		WhoScored: []rawevent.Fixture{ws},
		FotMob:    []rawevent.Fixture{fm},
		Existing:  append(partialWS.Mappings, partialFM.Mappings...),
		Teams:     append(partialWS.Teams, partialFM.Teams...),
	})

	if len(res.Mappings) != 0 {
		t.Fatalf("split identities must not be merged, got %+v", res.Mappings)
	}
	if len(res.Ambiguities) != 2 || res.Ambiguities[0].Reason != ReasonSplitIdentities {
		t.Fatalf("expected split identity ambiguity, got %+v", res.Ambiguities)
	}
}
