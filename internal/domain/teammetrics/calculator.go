package teammetrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/pitch"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

// ProgressiveReduction is the minimum distance-to-goal gain, in metres, for a
// completed pass to count as progressive.
const ProgressiveReduction = 9.11

var ErrIncompleteMapping = errors.New("mapping has no canonical teams")

// MatchInput is everything the calculator needs for one canonical match.
// Events of both teams are required because PPDA, possession and field tilt
// compare the sides.
type MatchInput struct {
	Mapping   mapping.MatchMapping
	WhoScored []rawevent.Event
	FotMob    []rawevent.Event
}

type sideEvents struct {
	stream []rawevent.Event
	shots  []rawevent.Event
}

// Compute returns the home row followed by the away row. It is pure, so the
// same input always yields the same rows.
func Compute(in MatchInput) ([]TeamMatchMetrics, error) {
	m := in.Mapping
	if m.ID == "" || m.HomeTeamID == "" || m.AwayTeamID == "" {
		return nil, fmt.Errorf("%w: %q", ErrIncompleteMapping, m.ID)
	}

	sides := map[mapping.Side]*sideEvents{
		mapping.SideHome: {},
		mapping.SideAway: {},
	}
	for _, e := range in.WhoScored {
		if side, ok := m.ProviderSide(rawevent.ProviderWhoScored, e.ProviderTeamID); ok {
			sides[side].stream = append(sides[side].stream, e)
		}
	}
	for _, e := range in.FotMob {
		if e.Kind != rawevent.KindShot {
			continue
		}
		if side, ok := m.ProviderSide(rawevent.ProviderFotMob, e.ProviderTeamID); ok {
			sides[side].shots = append(sides[side].shots, e)
		}
	}

	rows := make([]TeamMatchMetrics, 0, 2)
	for _, side := range []mapping.Side{mapping.SideHome, mapping.SideAway} {
		row := TeamMatchMetrics{
			MatchID:        m.ID,
			TeamID:         m.TeamID(side),
			OpponentTeamID: m.TeamID(side.Opposite()),
			Side:           side,
		}
		own, opp := sides[side], sides[side.Opposite()]
		if m.WhoScored != nil {
			row.EventsStatus = EventsJoined
			fillStream(&row, own.stream, opp.stream)
		} else {
			row.EventsStatus = EventsNoProviderData
		}
		fillXG(&row, m.FotMob != nil, own.shots)
		rows = append(rows, row)
	}

	homeTouches, awayTouches := rows[0].Touches, rows[1].Touches
	rows[0].Possession, rows[1].Possession = share(homeTouches, awayTouches)
	homeFinal, awayFinal := finalThirdTouches(sides[mapping.SideHome].stream), finalThirdTouches(sides[mapping.SideAway].stream)
	rows[0].FieldTilt, rows[1].FieldTilt = share(homeFinal, awayFinal)

	return rows, nil
}

func fillStream(row *TeamMatchMetrics, own, opp []rawevent.Event) {
	var (
		angles      []float64
		xs, ys      []float64
		defensiveXs []float64
		forwardXs   []float64
	)

	for _, e := range own {
		xs = append(xs, e.X)
		ys = append(ys, e.Y)
		if e.IsTouch {
			row.Touches++
		}

		switch e.Kind {
		case rawevent.KindPass:
			row.PassesTotal++
			if e.X >= pitch.HalfwayX {
				forwardXs = append(forwardXs, e.X)
			}
			if !e.Successful {
				continue
			}
			row.PassesCompleted++
			if !e.HasEnd() {
				continue
			}
			if pitch.DistanceToGoal(e.X, e.Y)-pitch.DistanceToGoal(*e.EndX, *e.EndY) >= ProgressiveReduction {
				row.ProgressivePasses++
			}
			angles = append(angles, passAngle(e.X, e.Y, *e.EndX, *e.EndY))
		case rawevent.KindTackle:
			row.Tackles++
			defensiveXs = append(defensiveXs, e.X)
			if e.X >= pitch.FinalThirdX {
				row.HighPressActions++
			}
		case rawevent.KindInterception:
			row.Interceptions++
			defensiveXs = append(defensiveXs, e.X)
			if e.X >= pitch.FinalThirdX {
				row.HighPressActions++
			}
		case rawevent.KindBallRecovery:
			row.BallRecoveries++
			defensiveXs = append(defensiveXs, e.X)
			if e.X >= pitch.FinalThirdX {
				row.HighPressActions++
			}
		case rawevent.KindClearance:
			row.Clearances++
			defensiveXs = append(defensiveXs, e.X)
		case rawevent.KindAerial:
			row.Aerials++
		case rawevent.KindFoul:
			row.Fouls++
		case rawevent.KindShot:
			row.Shots++
			if e.OnTarget {
				row.ShotsOnTarget++
			}
			if e.IsGoal {
				row.Goals++
			}
			if e.X >= pitch.HalfwayX {
				forwardXs = append(forwardXs, e.X)
			}
		case rawevent.KindTakeOn:
			if e.X >= pitch.HalfwayX {
				forwardXs = append(forwardXs, e.X)
			}
		}
	}

	row.DefensiveActions = row.Tackles + row.Interceptions
	if row.PassesTotal > 0 {
		row.PassAccuracy = ptr(round2(float64(row.PassesCompleted) / float64(row.PassesTotal) * 100))
	}
	if med, ok := median(angles); ok {
		row.Verticality = ptr((1 - med/90) * 100)
	}
	row.PPDA = ppda(opp, row.DefensiveActions)

	if v, ok := median(xs); ok {
		row.MedianX = ptr(v)
	}
	if v, ok := median(ys); ok {
		row.MedianY = ptr(v)
	}
	if v, ok := percentile(defensiveXs, 25); ok {
		row.DefenseLine = ptr(v)
	}
	if v, ok := percentile(forwardXs, 75); ok {
		row.ForwardLine = ptr(v)
	}
	if row.DefenseLine != nil && row.ForwardLine != nil {
		row.Compactness = ptr(*row.ForwardLine - *row.DefenseLine)
	}
}

// passAngle is the deviation from a straight forward pass in degrees: 0 for
// a pass along the x axis, 90 for a square one.
func passAngle(x, y, endX, endY float64) float64 {
	dx, dy := math.Abs(endX-x), math.Abs(endY-y)
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// ppda counts opponent completed passes outside their own defensive third
// per defensive action. Zero on either side leaves it undefined.
func ppda(opp []rawevent.Event, defensiveActions int) *float64 {
	if defensiveActions == 0 {
		return nil
	}
	passes := 0
	for _, e := range opp {
		if e.Kind == rawevent.KindPass && e.Successful && e.X >= pitch.DeepThirdX {
			passes++
		}
	}
	if passes == 0 {
		return nil
	}
	return ptr(round2(float64(passes) / float64(defensiveActions)))
}

func fillXG(row *TeamMatchMetrics, joined bool, shots []rawevent.Event) {
	if !joined {
		row.XGStatus = XGNoProviderData
		return
	}
	total := 0.0
	for _, shot := range shots {
		if shot.XG != nil {
			total += *shot.XG
		}
	}
	row.XG = ptr(round2(total))
	if len(shots) == 0 {
		row.XGStatus = XGJoinedNoShots
		return
	}
	row.XGStatus = XGJoined
	row.XGPerShot = ptr(round2(total / float64(len(shots))))
}

func finalThirdTouches(events []rawevent.Event) int {
	n := 0
	for _, e := range events {
		if e.IsTouch && e.X >= pitch.FinalThirdX {
			n++
		}
	}
	return n
}
