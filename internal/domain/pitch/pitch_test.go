package pitch

import (
	"math"
	"testing"
)

func TestDistanceToGoal(t *testing.T) {
	start := DistanceToGoal(30, 34)
	end := DistanceToGoal(60, 34)
	if math.Abs(start-75) > 1e-9 || math.Abs(end-45) > 1e-9 {
		t.Fatalf("unexpected distances: start=%v end=%v", start, end)
	}
	if math.Abs((start-end)-30) > 1e-9 {
		t.Fatalf("expected 30 units reduction, got %v", start-end)
	}
}

func TestFromPercent(t *testing.T) {
	x, y := FromPercent(100, 50)
	if x != Length || y != Width/2 {
		t.Fatalf("unexpected conversion: %v,%v", x, y)
	}
	if FinalThirdX != 70 || DeepThirdX != 35 {
		t.Fatalf("unexpected thirds: %v %v", FinalThirdX, DeepThirdX)
	}
}

func TestClamp(t *testing.T) {
	x, y := Clamp(-3, 80)
	if x != 0 || y != Width {
		t.Fatalf("unexpected clamp: %v,%v", x, y)
	}
}
