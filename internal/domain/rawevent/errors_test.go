package rawevent

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseError_IsMalformedPayload(t *testing.T) {
	err := fmt.Errorf("ingest: %w", Malformed(ProviderFotMob, "general.matchId", "required"))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError")
	}
	if parseErr.Field != "general.matchId" {
		t.Fatalf("unexpected field %q", parseErr.Field)
	}
	if got := parseErr.Error(); got != "fotmob payload: general.matchId: required" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" WhoScored ")
	if err != nil || p != ProviderWhoScored {
		t.Fatalf("unexpected provider %q %v", p, err)
	}
	if _, err := ParseProvider("opta"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestHashBody_Stable(t *testing.T) {
	a := HashBody([]byte(`{"a":1}`))
	b := HashBody([]byte(`{"a":1}`))
	c := HashBody([]byte(`{"a":2}`))
	if a != b || a == c || len(a) != 64 {
		t.Fatalf("unexpected hashes %s %s %s", a, b, c)
	}
}
