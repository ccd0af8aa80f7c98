package ircserv

import (
	"strings"
	"time"

	"github.com/horgh/irc"
)

// handlerFunc is a single command's implementation. It runs only on the
// event loop goroutine.
type handlerFunc func(s *Server, c *Client, m irc.Message)

// preAuthCommands may be used before registration completes.
var preAuthCommands = map[string]bool{
	"PASS": true,
	"NICK": true,
	"USER": true,
	"CAP":  true,
	"QUIT": true,
	"PING": true,
	"PONG": true,
}

// handlers is the fixed dispatch table from uppercased command name to
// implementation.
var handlers = map[string]handlerFunc{
	"PASS": (*Server).passCommand,
	"NICK": (*Server).nickCommand,
	"USER": (*Server).userCommand,
	"CAP":  (*Server).capCommand,
	"PING": (*Server).pingCommand,
	"PONG": (*Server).pongCommand,
	"QUIT": (*Server).quitCommand,

	"JOIN":   (*Server).joinCommand,
	"PART":   (*Server).partCommand,
	"KICK":   (*Server).kickCommand,
	"INVITE": (*Server).inviteCommand,
	"TOPIC":  (*Server).topicCommand,
	"MODE":   (*Server).modeCommand,

	"PRIVMSG": (*Server).privmsgCommand,
	"NOTICE":  (*Server).noticeCommand,

	"WHO":    (*Server).whoCommand,
	"WHOIS":  (*Server).whoisCommand,
	"WHOWAS": (*Server).whowasCommand,
	"AWAY":   (*Server).awayCommand,
}

// dispatch routes one parsed message from a client through the
// registration gate and into its handler.
func (s *Server) dispatch(c *Client, m irc.Message) {
	c.LastActivityTime = time.Now()

	command := strings.ToUpper(m.Command)

	if !c.Authenticated && !preAuthCommands[command] {
		c.maybeQueueMessage(s.reply.numeric(ErrNotRegistered, displayNick(c), "You have not registered"))
		return
	}

	h, ok := handlers[command]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrUnknownCommand, displayNick(c), command, "Unknown command"))
		return
	}

	h(s, c, m)
}
