// Package pitch holds the canonical coordinate system shared by every stage
// after ingestion: a 105 x 68 pitch where each team attacks towards x = 105.
package pitch

import "math"

const (
	Length = 105.0
	Width  = 68.0

	// GoalX and GoalY locate the centre of the goal being attacked.
	GoalX = Length
	GoalY = Width / 2

	// FinalThirdX is where the attacking third starts.
	FinalThirdX = Length * 2 / 3
	// DeepThirdX is where a team's own defensive third ends.
	DeepThirdX = Length / 3
	// HalfwayX splits the pitch.
	HalfwayX = Length / 2
)

// DistanceToGoal is the Euclidean distance from (x, y) to the attacked goal.
func DistanceToGoal(x, y float64) float64 {
	return math.Hypot(GoalX-x, GoalY-y)
}

// FromPercent maps 0..100 provider coordinates onto the pitch.
func FromPercent(x, y float64) (float64, float64) {
	return x * Length / 100, y * Width / 100
}

// Clamp keeps a coordinate pair inside the pitch.
func Clamp(x, y float64) (float64, float64) {
	return math.Min(math.Max(x, 0), Length), math.Min(math.Max(y, 0), Width)
}
