package ircserv

import (
	"strings"

	"github.com/horgh/irc"
)

// Numeric reply codes used by the dispatcher. Named per RFC 1459/2812.
const (
	ReplyWelcome       = "001"
	ReplyYourHost      = "002"
	ReplyCreated       = "003"
	ReplyMyInfo        = "004"
	ReplyLUserOp       = "252"
	ReplyLUserUnknown  = "253"
	ReplyLUserChannels = "254"
	ReplyLUserMe       = "255"
	ReplyAway          = "301"
	ReplyUnAway        = "305"
	ReplyNowAway       = "306"
	ReplyWhoisUser     = "311"
	ReplyWhoisServer   = "312"
	ReplyEndOfWho      = "315"
	ReplyWhoisIdle     = "317"
	ReplyEndOfWhois    = "318"
	ReplyWhoisChannels = "319"
	ReplyChannelModeIs = "324"
	ReplyNoTopic       = "331"
	ReplyTopic         = "332"
	ReplyTopicWhoTime  = "333"
	ReplyInviting      = "341"
	ReplyWhoReply      = "352"
	ReplyNameReply     = "353"
	ReplyEndOfNames    = "366"
	ReplyEndOfWhoWas   = "369"
	ReplyMotd          = "372"
	ReplyMotdStart     = "375"
	ReplyEndOfMotd     = "376"

	ErrNoSuchNick       = "401"
	ErrNoSuchChannel    = "403"
	ErrCannotSendToChan = "404"
	ErrNoOrigin         = "409"
	ErrNoRecipient      = "411"
	ErrNoTextToSend     = "412"
	ErrInputTooLong     = "417"
	ErrUnknownCommand   = "421"
	ErrNoNicknameGiven  = "431"
	ErrErroneousNick    = "432"
	ErrNicknameInUse    = "433"
	ErrUserNotInChannel = "441"
	ErrNotOnChannel     = "442"
	ErrUserOnChannel    = "443"
	ErrNotRegistered    = "451"
	ErrNeedMoreParams   = "461"
	ErrAlreadyRegistred = "462"
	ErrPasswdMismatch   = "464"
	ErrUnknownMode      = "472"
	ErrInviteOnlyChan   = "473"
	ErrBannedFromChan   = "474"
	ErrBadChannelKey    = "475"
	ErrBadChanMask      = "476"
	ErrNoChanModes      = "477"
	ErrChanOpPrivsNeed  = "482"
	ErrUsersDontMatch   = "502"

	// ErrChannelIsFull and ErrInvalidModeParam are not in every RFC 2812
	// errata table under these exact names, but 471 and 696 are the commonly
	// implemented codes for them (ircu/charybdis lineage).
	ErrChannelIsFull     = "471"
	ErrInvalidModeParam  = "696"
)

// replyBuilder formats protocol lines with a server identity, following the
// same prefix conventions the handlers use directly, but exposed here so
// tests can exercise formatting without a running server.
type replyBuilder struct {
	serverName string
}

func newReplyBuilder(serverName string) *replyBuilder {
	return &replyBuilder{serverName: serverName}
}

// numeric builds a server numeric message addressed to nick.
func (b *replyBuilder) numeric(code, nick string, params ...string) irc.Message {
	all := append([]string{nick}, params...)
	return irc.Message{
		Prefix:  b.serverName,
		Command: code,
		Params:  all,
	}
}

// fromServer builds a non-numeric message with the server as prefix, e.g.
// PING or ERROR.
func (b *replyBuilder) fromServer(command string, params ...string) irc.Message {
	return irc.Message{
		Prefix:  b.serverName,
		Command: command,
		Params:  params,
	}
}

// fromClient builds a message whose prefix is the given client's nick!user@host
// mask, for relaying user-sourced commands like JOIN, PRIVMSG, NICK, PART.
func (b *replyBuilder) fromClient(mask, command string, params ...string) irc.Message {
	return irc.Message{
		Prefix:  mask,
		Command: command,
		Params:  params,
	}
}

// encode renders a message to its wire form, including CRLF. It never
// fails the caller; a truncated encode still returns usable bytes, per
// irc.Message.Encode's own truncate-and-flag behaviour.
func encode(m irc.Message) string {
	s, err := m.Encode()
	if err != nil && err != irc.ErrTruncated {
		return ""
	}
	return s
}

// joinTrailing joins words with a single space, the common case for
// building a human-readable trailing parameter.
func joinTrailing(words ...string) string {
	return strings.Join(words, " ")
}
