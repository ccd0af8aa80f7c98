package ircbot

import (
	"math/rand"
	"testing"
	"time"
)

func TestRespondToTriggers(t *testing.T) {
	b := &Bot{
		quotes: []string{"only quote"},
		rng:    rand.New(rand.NewSource(1)),
	}

	reply, ok := b.respondTo("!funfact")
	if !ok || reply != "only quote" {
		t.Errorf("!funfact = (%q, %v), want (\"only quote\", true)", reply, ok)
	}

	reply, ok = b.respondTo("!time")
	if !ok {
		t.Fatal("!time should be recognized")
	}
	if _, err := time.Parse("2006-01-02 15:04:05", reply); err != nil {
		t.Errorf("!time reply %q not in expected format: %s", reply, err)
	}

	reply, ok = b.respondTo("!age 2000-01-01")
	if !ok || reply == invalidAgeMessage {
		t.Errorf("!age with a valid date should not report invalid format, got %q", reply)
	}

	_, ok = b.respondTo("hello there")
	if ok {
		t.Error("plain chat should not be treated as a trigger")
	}
}
