package ircbot

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadQuotesFallsBackWhenMissing(t *testing.T) {
	quotes := loadQuotes(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if len(quotes) == 0 {
		t.Fatal("expected fallback quotes, got none")
	}
}

func TestLoadQuotesSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.txt")
	content := "first quote\n\n   \nsecond quote\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %s", err)
	}

	quotes := loadQuotes(path)
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d: %v", len(quotes), quotes)
	}
}

func TestRandomQuoteIsAlwaysFromTheList(t *testing.T) {
	quotes := []string{"a", "b", "c"}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		q := randomQuote(rng, quotes)
		found := false
		for _, want := range quotes {
			if q == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("randomQuote returned %q, not in list", q)
		}
	}
}
