package ircbot

import (
	"bufio"
	"math/rand"
	"os"
	"strings"
)

// fallbackQuotes is used when the quotes file is absent, so !funfact always
// has something to say.
var fallbackQuotes = []string{
	"A goroutine never forgets to close its channel. Usually.",
	"The zero value of a struct is still a perfectly good struct.",
	"There are only two hard things in networking: naming things, and off-by-one CRLFs.",
}

// loadQuotes reads one quote per line from path, skipping blank lines. If
// the file cannot be opened it returns fallbackQuotes rather than an error,
// since a missing quotes file should not prevent the bot from starting.
func loadQuotes(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return fallbackQuotes
	}
	defer f.Close()

	var quotes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quotes = append(quotes, line)
	}

	if len(quotes) == 0 {
		return fallbackQuotes
	}
	return quotes
}

// randomQuote picks a uniformly random quote using the bot's own PRNG,
// which is seeded once at startup.
func randomQuote(rng *rand.Rand, quotes []string) string {
	if len(quotes) == 0 {
		return ""
	}
	return quotes[rng.Intn(len(quotes))]
}
