package rawevent

import (
	"crypto/sha256"
	"encoding/hex"
)

// Parser turns one provider body into the typed fixture and event view.
// Implementations must reject bodies with missing required fields with a
// *ParseError instead of emitting zero values.
type Parser interface {
	Provider() Provider
	Parse(body []byte) (Fixture, []Event, error)
}

// HashBody fingerprints a raw payload body.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
