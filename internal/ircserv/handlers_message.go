package ircserv

import (
	"strings"
	"time"

	"github.com/horgh/irc"
)

const ctcpDelim = "\x01"

func (s *Server) privmsgCommand(c *Client, m irc.Message) {
	s.sendToTargets(c, m, "PRIVMSG", true)
}

func (s *Server) noticeCommand(c *Client, m irc.Message) {
	s.sendToTargets(c, m, "NOTICE", false)
}

// sendToTargets implements the shared PRIVMSG/NOTICE relay: a comma-split
// target list, each resolved independently to a channel or a nick.
// reportErrors is false for NOTICE, which per RFC never generates an error
// reply even on a bad target.
func (s *Server) sendToTargets(c *Client, m irc.Message, command string, reportErrors bool) {
	if len(m.Params) < 1 {
		if reportErrors {
			c.maybeQueueMessage(s.reply.numeric(ErrNoRecipient, c.Nick, "No recipient given ("+command+")"))
		}
		return
	}
	if len(m.Params) < 2 || m.Params[1] == "" {
		if reportErrors {
			c.maybeQueueMessage(s.reply.numeric(ErrNoTextToSend, c.Nick, "No text to send"))
		}
		return
	}

	text := m.Params[1]

	for _, target := range strings.Split(m.Params[0], ",") {
		s.sendToOneTarget(c, target, command, text, reportErrors)
	}
}

func (s *Server) sendToOneTarget(c *Client, target, command, text string, reportErrors bool) {
	if len(target) > 0 && (target[0] == '#' || target[0] == '&') {
		canon := canonicalizeChannel(target)
		ch, ok := s.Channels[canon]
		if !ok {
			if reportErrors {
				c.maybeQueueMessage(s.reply.numeric(ErrNoSuchChannel, c.Nick, target, "No such channel"))
			}
			return
		}
		if !ch.hasMember(c.ID) {
			if reportErrors {
				c.maybeQueueMessage(s.reply.numeric(ErrCannotSendToChan, c.Nick, target, "Cannot send to channel"))
			}
			return
		}
		s.broadcastToChannel(ch, s.reply.fromClient(c.mask(), command, ch.Name, text), c.ID)
		return
	}

	targetID, ok := s.Nicks[canonicalizeNick(target)]
	if !ok {
		if reportErrors {
			c.maybeQueueMessage(s.reply.numeric(ErrNoSuchNick, c.Nick, target, "No such nick/channel"))
		}
		return
	}

	recipient := s.Clients[targetID]
	recipient.maybeQueueMessage(s.reply.fromClient(c.mask(), command, target, text))
	s.recordCTCPTransfer(c, target, text)

	if reportErrors && recipient.AwayMessage != "" {
		c.maybeQueueMessage(s.reply.numeric(ReplyAway, c.Nick, target, recipient.AwayMessage))
	}
}

// recordCTCPTransfer notices a CTCP DCC SEND/GET request embedded in a
// message and records it in the advisory pending-transfer table, keyed by
// the receiver's nick. The server never inspects this table to change
// routing; the CTCP frame is relayed to its recipient unmodified
// regardless of what is recorded here.
func (s *Server) recordCTCPTransfer(c *Client, receiver, text string) {
	if !strings.HasPrefix(text, ctcpDelim) {
		return
	}
	body := strings.Trim(text, ctcpDelim)
	fields := strings.Fields(body)
	if len(fields) < 2 || fields[0] != "DCC" {
		return
	}
	if fields[1] != "SEND" && fields[1] != "GET" {
		return
	}

	// DCC SEND <filename> <ip> <port> <size>: the size is the sixth field.
	size := ""
	if len(fields) >= 6 {
		size = fields[5]
	}
	filename := ""
	if len(fields) >= 3 {
		filename = fields[2]
	}

	s.Transfers[canonicalizeNick(receiver)] = pendingTransfer{
		Sender:   c.Nick,
		Filename: filename,
		Size:     size,
		At:       time.Now(),
	}
}
