package ircserv

import "testing"

func TestIsValidNick(t *testing.T) {
	tests := []struct {
		nick string
		want bool
	}{
		{"alice", true},
		{"Alice_99", true},
		{"", false},
		{"1abc", false},
		{"thisnickistoolong", false},
		{"a b", false},
	}

	for _, tc := range tests {
		if got := isValidNick(tc.nick); got != tc.want {
			t.Errorf("isValidNick(%q) = %v, want %v", tc.nick, got, tc.want)
		}
	}
}

func TestIsValidChannel(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"#t", true},
		{"&local", true},
		{"t", false},
		{"#", false},
		{"#has space", false},
		{"foo", false},
	}

	for _, tc := range tests {
		if got := isValidChannel(tc.name); got != tc.want {
			t.Errorf("isValidChannel(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseModeString(t *testing.T) {
	changes, unknown := parseModeString(validChannelModes, "+ik", []string{"secret"})
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0].Letter != 'i' || !changes[0].Add {
		t.Errorf("expected +i first, got %+v", changes[0])
	}
	if changes[1].Letter != 'k' || changes[1].Param != "secret" {
		t.Errorf("expected +k secret, got %+v", changes[1])
	}
	if len(unknown) != 0 {
		t.Errorf("expected no unknown modes, got %v", unknown)
	}

	_, unknown = parseModeString(validChannelModes, "+z", nil)
	if len(unknown) != 1 || unknown[0] != 'z' {
		t.Errorf("expected z reported unknown, got %v", unknown)
	}
}

func TestParseModeStringClearLimitNoParam(t *testing.T) {
	changes, _ := parseModeString(validChannelModes, "-l", nil)
	if len(changes) != 1 || changes[0].Param != "" {
		t.Errorf("expected -l with no param, got %+v", changes)
	}
}
