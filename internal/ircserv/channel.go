package ircserv

import (
	"strconv"
	"time"
)

// Channel holds membership, operator, invite, and mode state for one
// channel. A Channel with zero members must not remain in the server's
// channel map.
type Channel struct {
	Name string

	Topic        string
	TopicSetBy   string
	TopicSetTime time.Time

	CreatedTime time.Time

	// Client IDs.
	Members   map[uint64]struct{}
	Operators map[uint64]struct{}
	Invited   map[uint64]struct{}

	InviteOnly  bool
	TopicLocked bool
	Key         string
	Limit       int
}

func newChannel(name string) *Channel {
	now := time.Now()
	return &Channel{
		Name:        name,
		CreatedTime: now,
		Members:     make(map[uint64]struct{}),
		Operators:   make(map[uint64]struct{}),
		Invited:     make(map[uint64]struct{}),
	}
}

func (ch *Channel) hasMember(id uint64) bool {
	_, ok := ch.Members[id]
	return ok
}

func (ch *Channel) isOperator(id uint64) bool {
	_, ok := ch.Operators[id]
	return ok
}

func (ch *Channel) isInvited(id uint64) bool {
	_, ok := ch.Invited[id]
	return ok
}

func (ch *Channel) addMember(id uint64, op bool) {
	ch.Members[id] = struct{}{}
	delete(ch.Invited, id)
	if op {
		ch.Operators[id] = struct{}{}
	}
}

func (ch *Channel) removeMember(id uint64) {
	delete(ch.Members, id)
	delete(ch.Operators, id)
}

func (ch *Channel) empty() bool {
	return len(ch.Members) == 0
}

func (ch *Channel) promote(id uint64) {
	if ch.hasMember(id) {
		ch.Operators[id] = struct{}{}
	}
}

func (ch *Channel) demote(id uint64) {
	delete(ch.Operators, id)
}

// modeString renders the channel's current flags as "+xyz" for RPL_CHANNELMODEIS
// and MODE echoes. Parameterized modes append their values as trailing
// message params, not into this string, mirroring the wire convention.
func (ch *Channel) modeString() (flags string, params []string) {
	flags = "+"
	if ch.InviteOnly {
		flags += "i"
	}
	if ch.TopicLocked {
		flags += "t"
	}
	if ch.Key != "" {
		flags += "k"
		params = append(params, ch.Key)
	}
	if ch.Limit > 0 {
		flags += "l"
		params = append(params, strconv.Itoa(ch.Limit))
	}
	return flags, params
}
