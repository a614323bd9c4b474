package mapping

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/team"
)

// DefaultKickoffTolerance absorbs timezone and rounding differences between
// provider kickoff times.
const DefaultKickoffTolerance = 24 * time.Hour

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/riskibarqy/matchlens"))

// CanonicalMatchID derives a stable canonical id from the first provider
// identity a match was seen under.
func CanonicalMatchID(p rawevent.Provider, providerMatchID string) string {
	return uuid.NewSHA1(idNamespace, []byte("match:"+string(p)+":"+providerMatchID)).String()
}

// CanonicalTeamID derives a stable canonical team id the same way.
func CanonicalTeamID(p rawevent.Provider, providerTeamID string) string {
	return uuid.NewSHA1(idNamespace, []byte("team:"+string(p)+":"+providerTeamID)).String()
}

// CanonicalEventID keys one provider event within its provider match.
func CanonicalEventID(p rawevent.Provider, providerMatchID, providerEventID string) string {
	return uuid.NewSHA1(idNamespace, []byte("event:"+string(p)+":"+providerMatchID+":"+providerEventID)).String()
}

type ResolverConfig struct {
	KickoffTolerance time.Duration
	Now              func() time.Time
}

// Resolver pairs WhoScored and FotMob fixtures. It is pure: callers load the
// inputs and persist the result.
type Resolver struct {
	names     *team.Matcher
	tolerance time.Duration
	now       func() time.Time
}

func NewResolver(names *team.Matcher, cfg ResolverConfig) *Resolver {
	if names == nil {
		names = team.NewMatcher(nil, 0)
	}
	if cfg.KickoffTolerance <= 0 {
		cfg.KickoffTolerance = DefaultKickoffTolerance
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Resolver{names: names, tolerance: cfg.KickoffTolerance, now: cfg.Now}
}

type Input struct {
	WhoScored []rawevent.Fixture
	FotMob    []rawevent.Fixture
	Existing  []MatchMapping
	Teams     []team.Team
}

// Result lists only rows that changed, so an unchanged rerun writes nothing.
type Result struct {
	Mappings    []MatchMapping
	Teams       []team.Team
	Gaps        []GapWarning
	Ambiguities []*AmbiguityError
	Created     int
	Widened     int
	Unchanged   int
}

// Err joins every ambiguity. errors.Is(err, ErrMappingAmbiguity) holds when
// it is non-nil.
func (r Result) Err() error {
	if len(r.Ambiguities) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Ambiguities))
	for _, amb := range r.Ambiguities {
		errs = append(errs, amb)
	}
	return errors.Join(errs...)
}

type pendingFixture struct {
	fixture  rawevent.Fixture
	existing string
}

type candidate struct {
	a, b    int
	swapped bool
}

func (r *Resolver) Resolve(in Input) Result {
	st := newResolveState(in, r.now())

	pendingA := st.pending(rawevent.ProviderWhoScored, in.WhoScored)
	pendingB := st.pending(rawevent.ProviderFotMob, in.FotMob)

	var cands []candidate
	byA := make(map[int][]int)
	byB := make(map[int][]int)
	for ai, a := range pendingA {
		for bi, b := range pendingB {
			swapped, ok := r.pairs(a.fixture, b.fixture)
			if !ok {
				continue
			}
			idx := len(cands)
			cands = append(cands, candidate{a: ai, b: bi, swapped: swapped})
			byA[ai] = append(byA[ai], idx)
			byB[bi] = append(byB[bi], idx)
		}
	}

	resolvedA := make(map[int]bool)
	resolvedB := make(map[int]bool)
	for _, c := range cands {
		if len(byA[c.a]) != 1 || len(byB[c.b]) != 1 {
			continue
		}
		a, b := pendingA[c.a], pendingB[c.b]
		resolvedA[c.a], resolvedB[c.b] = true, true
		if c.swapped {
			st.ambiguous(a.fixture, ReasonTeamSlotMismatch, b.fixture.ProviderMatchID)
			st.ambiguous(b.fixture, ReasonTeamSlotMismatch, a.fixture.ProviderMatchID)
			continue
		}
		if reason := st.acceptPair(a, b); reason != "" {
			st.ambiguous(a.fixture, reason, b.fixture.ProviderMatchID)
			st.ambiguous(b.fixture, reason, a.fixture.ProviderMatchID)
		}
	}

	for ai, a := range pendingA {
		if resolvedA[ai] {
			continue
		}
		if ids := candidateIDs(byA[ai], cands, pendingB, false); len(ids) > 0 {
			st.ambiguous(a.fixture, ReasonMultipleCandidates, ids...)
			continue
		}
		st.keepPartial(a, rawevent.ProviderFotMob)
	}
	for bi, b := range pendingB {
		if resolvedB[bi] {
			continue
		}
		if ids := candidateIDs(byB[bi], cands, pendingA, true); len(ids) > 0 {
			st.ambiguous(b.fixture, ReasonMultipleCandidates, ids...)
			continue
		}
		st.keepPartial(b, rawevent.ProviderWhoScored)
	}

	return st.result()
}

// pairs reports whether a and b can be the same match and whether their team
// slots are flipped. Each slot is checked on its own; a pairing that only
// works with sides exchanged is returned as swapped, never silently fixed.
func (r *Resolver) pairs(a, b rawevent.Fixture) (swapped bool, ok bool) {
	diff := a.Kickoff.Sub(b.Kickoff)
	if diff < 0 {
		diff = -diff
	}
	if diff > r.tolerance {
		return false, false
	}

	straight := r.names.Matches(a.Home.Name, b.Home.Name) && r.names.Matches(a.Away.Name, b.Away.Name)
	if straight && scoresAgree(a, b, false) {
		return false, true
	}
	crossed := r.names.Matches(a.Home.Name, b.Away.Name) && r.names.Matches(a.Away.Name, b.Home.Name)
	if crossed && scoresAgree(a, b, true) {
		return true, true
	}
	return false, false
}

func scoresAgree(a, b rawevent.Fixture, swapped bool) bool {
	if !a.HasScore() || !b.HasScore() {
		return true
	}
	if swapped {
		return *a.HomeScore == *b.AwayScore && *a.AwayScore == *b.HomeScore
	}
	return *a.HomeScore == *b.HomeScore && *a.AwayScore == *b.AwayScore
}

func candidateIDs(idxs []int, cands []candidate, others []pendingFixture, fromB bool) []string {
	if len(idxs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		other := cands[idx].b
		if fromB {
			other = cands[idx].a
		}
		ids = append(ids, others[other].fixture.ProviderMatchID)
	}
	sort.Strings(ids)
	return ids
}

type resolveState struct {
	now        time.Time
	mappings   map[string]*MatchMapping
	byIdentity map[rawevent.Provider]map[string]string
	teams      map[string]*team.Team
	teamByProv map[rawevent.Provider]map[string]string
	changed    map[string]bool
	teamsDirty map[string]bool
	created    int
	widened    int
	unchanged  int
	gaps       []GapWarning
	ambs       []*AmbiguityError
}

func newResolveState(in Input, now time.Time) *resolveState {
	st := &resolveState{
		now:        now,
		mappings:   make(map[string]*MatchMapping, len(in.Existing)),
		byIdentity: make(map[rawevent.Provider]map[string]string, 2),
		teams:      make(map[string]*team.Team, len(in.Teams)),
		teamByProv: make(map[rawevent.Provider]map[string]string, 2),
		changed:    make(map[string]bool),
		teamsDirty: make(map[string]bool),
	}
	for _, p := range rawevent.Providers {
		st.byIdentity[p] = make(map[string]string)
		st.teamByProv[p] = make(map[string]string)
	}
	for _, m := range in.Existing {
		clone := m.Clone()
		st.mappings[clone.ID] = &clone
		for _, p := range rawevent.Providers {
			if ref := clone.Ref(p); ref != nil {
				st.byIdentity[p][ref.ProviderMatchID] = clone.ID
			}
		}
	}
	for _, t := range in.Teams {
		clone := t.Clone()
		st.teams[clone.ID] = &clone
		for p, id := range clone.ProviderIDs {
			if byProv, ok := st.teamByProv[p]; ok {
				byProv[id] = clone.ID
			}
		}
	}
	return st
}

// pending keeps fixtures that still need a partner: new ones and those held
// by a partial mapping missing the other provider.
func (st *resolveState) pending(p rawevent.Provider, fixtures []rawevent.Fixture) []pendingFixture {
	sorted := append([]rawevent.Fixture(nil), fixtures...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ProviderMatchID < sorted[j].ProviderMatchID
	})

	out := make([]pendingFixture, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, f := range sorted {
		if _, dup := seen[f.ProviderMatchID]; dup {
			continue
		}
		seen[f.ProviderMatchID] = struct{}{}

		id, ok := st.byIdentity[p][f.ProviderMatchID]
		if !ok {
			out = append(out, pendingFixture{fixture: f})
			continue
		}
		if st.mappings[id].Coverage() == CoverageFull {
			st.unchanged++
			continue
		}
		out = append(out, pendingFixture{fixture: f, existing: id})
	}
	return out
}

func (st *resolveState) ambiguous(f rawevent.Fixture, reason string, candidates ...string) {
	st.ambs = append(st.ambs, &AmbiguityError{
		Provider:        f.Provider,
		ProviderMatchID: f.ProviderMatchID,
		Candidates:      append([]string(nil), candidates...),
		Reason:          reason,
	})
}

// teamPlan is a canonical team choice for one slot, applied only once both
// slots resolved without conflict.
type teamPlan struct {
	teamID string
	create bool
	refs   []rawevent.TeamRef
	provs  []rawevent.Provider
}

// planTeam picks the canonical team for a slot seen under one or two
// providers. required, when set, is the team an existing mapping already
// holds in that slot.
func (st *resolveState) planTeam(required string, refs []rawevent.TeamRef, provs []rawevent.Provider) (teamPlan, bool) {
	plan := teamPlan{teamID: required, refs: refs, provs: provs}
	for i, ref := range refs {
		known, ok := st.teamByProv[provs[i]][ref.ProviderTeamID]
		if !ok {
			if plan.teamID != "" {
				if t := st.teams[plan.teamID]; t != nil {
					if other := t.ProviderID(provs[i]); other != "" && other != ref.ProviderTeamID {
						return teamPlan{}, false
					}
				}
			}
			continue
		}
		if plan.teamID != "" && plan.teamID != known {
			return teamPlan{}, false
		}
		plan.teamID = known
	}
	if plan.teamID == "" {
		plan.teamID = CanonicalTeamID(provs[0], refs[0].ProviderTeamID)
		plan.create = true
	}
	return plan, true
}

func (st *resolveState) applyTeam(plan teamPlan) {
	t, ok := st.teams[plan.teamID]
	if !ok {
		t = &team.Team{ID: plan.teamID, Name: plan.refs[0].Name}
		st.teams[plan.teamID] = t
	}
	for i, ref := range plan.refs {
		p := plan.provs[i]
		if t.ProviderID(p) != ref.ProviderTeamID {
			t.SetProviderID(p, ref.ProviderTeamID)
			st.teamsDirty[t.ID] = true
		}
		st.teamByProv[p][ref.ProviderTeamID] = t.ID
		if p == rawevent.ProviderFotMob && ref.Name != "" && t.Name != ref.Name {
			previous := t.Name
			t.Name = ref.Name
			t.AddAlias(previous)
			st.teamsDirty[t.ID] = true
		}
		before := len(t.Aliases)
		t.AddAlias(ref.Name)
		if len(t.Aliases) != before {
			st.teamsDirty[t.ID] = true
		}
	}
	if plan.create {
		st.teamsDirty[t.ID] = true
	}
}

// acceptPair binds a and b to one canonical match. It returns a non-empty
// reason when the pair cannot be bound without breaking an invariant.
func (st *resolveState) acceptPair(a, b pendingFixture) string {
	if a.existing != "" && b.existing != "" && a.existing != b.existing {
		return ReasonSplitIdentities
	}

	var m *MatchMapping
	switch {
	case a.existing != "":
		m = st.mappings[a.existing]
	case b.existing != "":
		m = st.mappings[b.existing]
	}

	provs := []rawevent.Provider{rawevent.ProviderWhoScored, rawevent.ProviderFotMob}
	requiredHome, requiredAway := "", ""
	if m != nil {
		requiredHome, requiredAway = m.HomeTeamID, m.AwayTeamID
	}
	home, ok := st.planTeam(requiredHome, []rawevent.TeamRef{a.fixture.Home, b.fixture.Home}, provs)
	if !ok {
		return ReasonTeamConflict
	}
	away, ok := st.planTeam(requiredAway, []rawevent.TeamRef{a.fixture.Away, b.fixture.Away}, provs)
	if !ok || away.teamID == home.teamID {
		return ReasonTeamConflict
	}

	st.applyTeam(home)
	st.applyTeam(away)

	if m == nil {
		m = st.newMapping(a.fixture, home.teamID, away.teamID)
		st.created++
	} else {
		st.widened++
	}
	st.attach(m, a.fixture)
	st.attach(m, b.fixture)
	fillMetadata(m, a.fixture)
	fillMetadata(m, b.fixture)
	m.UpdatedAt = st.now
	st.changed[m.ID] = true
	return ""
}

// keepPartial stores a single-provider fixture and warns about the gap.
func (st *resolveState) keepPartial(f pendingFixture, missing rawevent.Provider) {
	p := f.fixture.Provider
	if f.existing != "" {
		st.unchanged++
		st.gaps = append(st.gaps, GapWarning{
			CanonicalMatchID: f.existing,
			Provider:         p,
			ProviderMatchID:  f.fixture.ProviderMatchID,
			Missing:          missing,
			Reason:           "no candidate fixture from " + string(missing),
		})
		return
	}

	provs := []rawevent.Provider{p}
	home, ok := st.planTeam("", []rawevent.TeamRef{f.fixture.Home}, provs)
	if !ok {
		st.ambiguous(f.fixture, ReasonTeamConflict)
		return
	}
	away, ok := st.planTeam("", []rawevent.TeamRef{f.fixture.Away}, provs)
	if !ok || away.teamID == home.teamID {
		st.ambiguous(f.fixture, ReasonTeamConflict)
		return
	}
	st.applyTeam(home)
	st.applyTeam(away)

	m := st.newMapping(f.fixture, home.teamID, away.teamID)
	st.attach(m, f.fixture)
	fillMetadata(m, f.fixture)
	st.changed[m.ID] = true
	st.created++
	st.gaps = append(st.gaps, GapWarning{
		CanonicalMatchID: m.ID,
		Provider:         p,
		ProviderMatchID:  f.fixture.ProviderMatchID,
		Missing:          missing,
		Reason:           "no candidate fixture from " + string(missing),
	})
}

func (st *resolveState) newMapping(f rawevent.Fixture, homeID, awayID string) *MatchMapping {
	m := &MatchMapping{
		ID:         CanonicalMatchID(f.Provider, f.ProviderMatchID),
		Kickoff:    f.Kickoff,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		CreatedAt:  st.now,
		UpdatedAt:  st.now,
	}
	st.mappings[m.ID] = m
	return m
}

func (st *resolveState) attach(m *MatchMapping, f rawevent.Fixture) {
	m.SetRef(f.Provider, &ProviderMatchRef{
		ProviderMatchID: f.ProviderMatchID,
		HomeTeamID:      f.Home.ProviderTeamID,
		AwayTeamID:      f.Away.ProviderTeamID,
	})
	st.byIdentity[f.Provider][f.ProviderMatchID] = m.ID
}

func fillMetadata(m *MatchMapping, f rawevent.Fixture) {
	if m.Competition == "" {
		m.Competition = f.Competition
	}
	if m.Kickoff.IsZero() {
		m.Kickoff = f.Kickoff
	}
	if (m.HomeScore == nil || m.AwayScore == nil) && f.HasScore() {
		home, away := *f.HomeScore, *f.AwayScore
		m.HomeScore, m.AwayScore = &home, &away
	}
}

func (st *resolveState) result() Result {
	res := Result{
		Gaps:        st.gaps,
		Ambiguities: st.ambs,
		Created:     st.created,
		Widened:     st.widened,
		Unchanged:   st.unchanged,
	}
	for id := range st.changed {
		res.Mappings = append(res.Mappings, st.mappings[id].Clone())
	}
	sort.Slice(res.Mappings, func(i, j int) bool {
		return res.Mappings[i].ID < res.Mappings[j].ID
	})
	for id := range st.teamsDirty {
		res.Teams = append(res.Teams, st.teams[id].Clone())
	}
	sort.Slice(res.Teams, func(i, j int) bool {
		return res.Teams[i].ID < res.Teams[j].ID
	})
	sort.Slice(res.Gaps, func(i, j int) bool {
		if res.Gaps[i].Provider != res.Gaps[j].Provider {
			return res.Gaps[i].Provider < res.Gaps[j].Provider
		}
		return res.Gaps[i].ProviderMatchID < res.Gaps[j].ProviderMatchID
	})
	return res
}
