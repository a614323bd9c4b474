package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque ids for pipeline runs and requests.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return v.String(), nil
}

// Static returns the same id every time. Tests use it to pin run ids.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
