package ircserv

import (
	"fmt"
	"strconv"
	"time"

	"github.com/horgh/irc"
)

func (s *Server) passCommand(c *Client, m irc.Message) {
	if c.Authenticated {
		c.maybeQueueMessage(s.reply.numeric(ErrAlreadyRegistred, displayNick(c), "You may not reregister"))
		return
	}
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, displayNick(c), "PASS", "Not enough parameters"))
		return
	}

	if m.Params[0] != s.Config.Password {
		c.maybeQueueMessage(s.reply.numeric(ErrPasswdMismatch, displayNick(c), "Password incorrect"))
		s.removeClient(c, "Bad password")
		return
	}

	c.Reg.PasswordOK = true
}

func (s *Server) nickCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 || m.Params[0] == "" {
		c.maybeQueueMessage(s.reply.numeric(ErrNoNicknameGiven, displayNick(c), "No nickname given"))
		return
	}

	newNick := m.Params[0]

	if !c.Reg.PasswordOK {
		c.maybeQueueMessage(s.reply.numeric(ErrPasswdMismatch, displayNick(c), "Password required"))
		s.removeClient(c, "Password required")
		return
	}

	if !isValidNick(newNick) {
		c.maybeQueueMessage(s.reply.numeric(ErrErroneousNick, displayNick(c), newNick, "Erroneous nickname"))
		return
	}

	canon := canonicalizeNick(newNick)
	if existingID, exists := s.Nicks[canon]; exists && existingID != c.ID {
		c.maybeQueueMessage(s.reply.numeric(ErrNicknameInUse, displayNick(c), newNick, "Nickname is already in use"))
		return
	}

	oldMask := ""
	hadNick := c.Nick != ""
	if hadNick {
		oldMask = c.mask()
		delete(s.Nicks, canonicalizeNick(c.Nick))
	}

	c.Nick = newNick
	c.Reg.NickSet = true
	s.Nicks[canon] = c.ID

	if hadNick {
		s.broadcastToSharedChannelsOnce(c, s.reply.fromClient(oldMask, "NICK", newNick))
	}

	s.maybeCompleteRegistration(c)
}

func (s *Server) userCommand(c *Client, m irc.Message) {
	if c.Authenticated {
		c.maybeQueueMessage(s.reply.numeric(ErrAlreadyRegistred, displayNick(c), "You may not reregister"))
		return
	}
	if len(m.Params) < 4 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, displayNick(c), "USER", "Not enough parameters"))
		return
	}

	if !c.Reg.PasswordOK {
		c.maybeQueueMessage(s.reply.numeric(ErrPasswdMismatch, displayNick(c), "Password required"))
		s.removeClient(c, "Password required")
		return
	}

	if !isValidUser(m.Params[0]) {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, displayNick(c), "USER", "Invalid username"))
		return
	}

	c.User = m.Params[0]
	c.RealName = m.Params[3]
	c.Reg.UserSet = true

	s.maybeCompleteRegistration(c)
}

func (s *Server) maybeCompleteRegistration(c *Client) {
	if c.Authenticated || !c.Reg.complete() {
		return
	}
	c.Authenticated = true
	s.completeRegistration(c)
}

// completeRegistration sends the welcome burst: 001-004, the LUSER block,
// and the MOTD.
func (s *Server) completeRegistration(c *Client) {
	r := s.reply

	c.maybeQueueMessage(r.numeric(ReplyWelcome, c.Nick,
		fmt.Sprintf("Welcome to the Internet Relay Network %s", c.mask())))
	c.maybeQueueMessage(r.numeric(ReplyYourHost, c.Nick,
		fmt.Sprintf("Your host is %s, running version %s", s.Config.ServerName, s.Config.Version)))
	c.maybeQueueMessage(r.numeric(ReplyCreated, c.Nick,
		fmt.Sprintf("This server was created %s", s.Config.CreatedAt)))
	c.maybeQueueMessage(r.numeric(ReplyMyInfo, c.Nick,
		s.Config.ServerName, s.Config.Version, "o", advertisedModes))

	s.lusersCommand(c)
	s.motdCommand(c)
}

func (s *Server) lusersCommand(c *Client) {
	r := s.reply

	registered := 0
	for _, other := range s.Clients {
		if other.Authenticated {
			registered++
		}
	}

	c.maybeQueueMessage(r.numeric(ReplyLUserOp, c.Nick, "0", "operator(s) online"))
	c.maybeQueueMessage(r.numeric(ReplyLUserUnknown, c.Nick,
		strconv.Itoa(len(s.Clients)-registered), "unknown connection(s)"))
	c.maybeQueueMessage(r.numeric(ReplyLUserChannels, c.Nick,
		strconv.Itoa(len(s.Channels)), "channels formed"))
	c.maybeQueueMessage(r.numeric(ReplyLUserMe, c.Nick,
		fmt.Sprintf("I have %d clients and 1 server", len(s.Clients))))
}

func (s *Server) motdCommand(c *Client) {
	r := s.reply

	if len(s.Config.MOTD) == 0 {
		c.maybeQueueMessage(r.numeric(ReplyEndOfMotd, c.Nick, "End of /MOTD command"))
		return
	}

	c.maybeQueueMessage(r.numeric(ReplyMotdStart, c.Nick,
		fmt.Sprintf("- %s Message of the day -", s.Config.ServerName)))
	for _, line := range s.Config.MOTD {
		c.maybeQueueMessage(r.numeric(ReplyMotd, c.Nick, "- "+line))
	}
	c.maybeQueueMessage(r.numeric(ReplyEndOfMotd, c.Nick, "End of /MOTD command"))
}

func (s *Server) capCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		return
	}
	switch m.Params[0] {
	case "LS":
		c.maybeQueueMessage(s.reply.fromServer("CAP", displayNick(c), "LS", ""))
	case "END":
		// Silent acknowledgement; no capabilities are negotiated.
	}
}

func (s *Server) pingCommand(c *Client, m irc.Message) {
	token := s.Config.ServerName
	if len(m.Params) > 0 {
		token = m.Params[0]
	}
	c.maybeQueueMessage(s.reply.fromServer("PONG", s.Config.ServerName, token))
}

func (s *Server) pongCommand(c *Client, m irc.Message) {
	// Only a PONG carrying the token sent by checkLiveness answers the PING.
	if len(m.Params) == 0 || m.Params[len(m.Params)-1] != s.Config.ServerName {
		return
	}
	c.AwaitingPong = false
	c.LastActivityTime = time.Now()
}

func (s *Server) quitCommand(c *Client, m irc.Message) {
	reason := "Client Quit"
	if len(m.Params) > 0 {
		reason = m.Params[0]
	}
	s.removeClient(c, reason)
}

// quitClient broadcasts QUIT to every channel the client shares with
// others, tells the client itself, and removes it from the nickname and
// channel maps. It does not remove the client from s.Clients; the caller
// (removeClient) does that.
func (s *Server) quitClient(c *Client, reason string) {
	mask := c.mask()
	told := map[uint64]bool{}

	for chanName := range c.Channels {
		ch, ok := s.Channels[chanName]
		if !ok {
			continue
		}
		for memberID := range ch.Members {
			if memberID == c.ID || told[memberID] {
				continue
			}
			if member, ok := s.Clients[memberID]; ok {
				member.maybeQueueMessage(s.reply.fromClient(mask, "QUIT", reason))
				told[memberID] = true
			}
		}
		ch.removeMember(c.ID)
		if ch.empty() {
			delete(s.Channels, chanName)
		}
	}

	if c.Nick != "" {
		s.whowas[canonicalizeNick(c.Nick)] = whowasEntry{
			Nick:     c.Nick,
			User:     c.User,
			Host:     c.Host,
			RealName: c.RealName,
			At:       time.Now(),
		}
		delete(s.Nicks, canonicalizeNick(c.Nick))
	}

	c.maybeQueueMessage(s.reply.fromServer("ERROR", fmt.Sprintf("Closing Link: %s (%s)", c.Nick, reason)))
	c.destroy()
}

// broadcastToSharedChannelsOnce sends m to every client that shares at
// least one channel with c (and to c itself), exactly once per recipient,
// used for NICK changes which should be seen once regardless of how many
// channels are shared.
func (s *Server) broadcastToSharedChannelsOnce(c *Client, m irc.Message) {
	told := map[uint64]bool{c.ID: true}
	c.maybeQueueMessage(m)

	for chanName := range c.Channels {
		ch, ok := s.Channels[chanName]
		if !ok {
			continue
		}
		for memberID := range ch.Members {
			if told[memberID] {
				continue
			}
			if member, ok := s.Clients[memberID]; ok {
				member.maybeQueueMessage(m)
				told[memberID] = true
			}
		}
	}
}
