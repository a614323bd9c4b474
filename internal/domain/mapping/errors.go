package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

var (
	// ErrMappingAmbiguity marks fixtures the resolver refused to pair.
	ErrMappingAmbiguity = errors.New("mapping ambiguity")
	// ErrIdentityConflict is returned when a provider identity is already
	// bound to a different canonical match.
	ErrIdentityConflict = errors.New("provider identity bound to another canonical match")
)

const (
	ReasonMultipleCandidates = "multiple candidate fixtures"
	ReasonTeamSlotMismatch   = "team-slot mismatch"
	ReasonSplitIdentities    = "identities held by separate canonical matches"
	ReasonTeamConflict       = "team identity conflict"
)

// AmbiguityError names a fixture and every candidate it could pair with.
type AmbiguityError struct {
	Provider        rawevent.Provider
	ProviderMatchID string
	Candidates      []string
	Reason          string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: %s match %s: %s [%s]",
		ErrMappingAmbiguity, e.Provider, e.ProviderMatchID, e.Reason, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguityError) Is(target error) bool {
	return target == ErrMappingAmbiguity
}
