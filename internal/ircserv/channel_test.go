package ircserv

import "testing"

func TestChannelMembershipAndOperators(t *testing.T) {
	ch := newChannel("#test")

	ch.addMember(1, true)
	ch.addMember(2, false)

	if !ch.hasMember(1) || !ch.hasMember(2) {
		t.Fatal("expected both members present")
	}
	if !ch.isOperator(1) {
		t.Error("expected member 1 to be operator")
	}
	if ch.isOperator(2) {
		t.Error("expected member 2 to not be operator")
	}

	// Invariant: operators is always a subset of members.
	for id := range ch.Operators {
		if !ch.hasMember(id) {
			t.Errorf("operator %d is not a member", id)
		}
	}

	ch.removeMember(1)
	if ch.hasMember(1) || ch.isOperator(1) {
		t.Error("expected member 1 fully removed, including operator status")
	}

	ch.removeMember(2)
	if !ch.empty() {
		t.Error("expected channel to be empty after removing last member")
	}
}

func TestChannelModeString(t *testing.T) {
	ch := newChannel("#t")
	ch.InviteOnly = true
	ch.TopicLocked = true
	ch.Key = "hunter2"
	ch.Limit = 5

	flags, params := ch.modeString()
	if flags != "+itkl" {
		t.Errorf("got flags %q, want +itkl", flags)
	}
	if len(params) != 2 || params[0] != "hunter2" || params[1] != "5" {
		t.Errorf("got params %v, want [hunter2 5]", params)
	}
}
