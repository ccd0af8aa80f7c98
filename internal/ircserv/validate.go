package ircserv

import "strings"

const maxNickLength = 10
const maxChannelLength = 50
const maxTopicLength = 300
const maxKeyLength = 23

// canonicalizeNick returns the unique lookup form of a nickname. Nicknames
// are case-insensitive per RFC.
func canonicalizeNick(n string) string {
	return strings.ToLower(n)
}

// canonicalizeChannel returns the unique lookup form of a channel name.
func canonicalizeChannel(c string) string {
	return strings.ToLower(c)
}

// isValidNick checks a nickname against RFC 2812 grammar, restricted to the
// characters we accept: must start with a letter, 1-10 characters, the rest
// letters, digits, or one of -_[]\^{}|
func isValidNick(n string) bool {
	if len(n) == 0 || len(n) > maxNickLength {
		return false
	}

	for i, r := range n {
		if isLetter(r) {
			continue
		}
		if i == 0 {
			return false
		}
		if isDigit(r) {
			continue
		}
		if strings.ContainsRune("-_[]\\^{}|", r) {
			continue
		}
		return false
	}

	return true
}

// isValidUser checks the username sent by the USER command. We accept
// anything printable with no spaces or control characters, bounded in
// length, mirroring the leniency RFC 2812 allows for this field.
func isValidUser(u string) bool {
	if len(u) == 0 || len(u) > maxNickLength*2 {
		return false
	}
	for _, r := range u {
		if r <= ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

// isValidChannel checks a channel name: must start with # or &, 2-50
// characters, and contain no space, comma, control character, or colon.
// Call this with the canonical (lowercased) form.
func isValidChannel(c string) bool {
	if len(c) < 2 || len(c) > maxChannelLength {
		return false
	}
	if c[0] != '#' && c[0] != '&' {
		return false
	}
	for _, r := range c[1:] {
		if r == ' ' || r == ',' || r == ':' || r < ' ' {
			return false
		}
	}
	return true
}

// isValidKey checks a channel key (+k mode parameter): no spaces, bounded
// length.
func isValidKey(k string) bool {
	if len(k) == 0 || len(k) > maxKeyLength {
		return false
	}
	for _, r := range k {
		if r == ' ' || r < ' ' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// parsedModeChange is one +/- mode letter with its resolved parameter, if
// the mode takes one.
type parsedModeChange struct {
	Add    bool
	Letter byte
	Param  string
}

// parameterizedChannelModes are the channel mode letters that consume a
// positional argument from the parameter list when set or (for o and l in
// some implementations; here only o and k require one on removal too)
// appropriately cleared.
var parameterizedChannelModes = map[byte]bool{
	'k': true,
	'l': true,
	'o': true,
}

// parseModeString parses a mode string such as "+i" or "-o+k" followed by
// its positional arguments into a sequence of mode changes. Unknown mode
// letters are reported via unknown so the caller can emit ERR_UNKNOWNMODE
// without aborting the rest of the string.
func parseModeString(validModes map[byte]bool, modes string, args []string) (changes []parsedModeChange, unknown []byte) {
	add := true
	argIndex := 0

	nextArg := func() (string, bool) {
		if argIndex >= len(args) {
			return "", false
		}
		a := args[argIndex]
		argIndex++
		return a, true
	}

	for i := 0; i < len(modes); i++ {
		c := modes[i]
		switch c {
		case '+':
			add = true
			continue
		case '-':
			add = false
			continue
		}

		if !validModes[c] {
			unknown = append(unknown, c)
			continue
		}

		change := parsedModeChange{Add: add, Letter: c}
		if parameterizedChannelModes[c] {
			// -l takes no argument: clearing a limit never needs a value.
			if c == 'l' && !add {
				changes = append(changes, change)
				continue
			}
			if p, ok := nextArg(); ok {
				change.Param = p
			}
		}
		changes = append(changes, change)
	}

	return changes, unknown
}
