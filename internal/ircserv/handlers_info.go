package ircserv

import (
	"strconv"
	"time"

	"github.com/horgh/irc"
)

// whowasEntry remembers a disconnected client's last known identity so
// WHOWAS can answer after the client is gone.
type whowasEntry struct {
	Nick     string
	User     string
	Host     string
	RealName string
	At       time.Time
}

func (s *Server) whoCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ReplyEndOfWho, c.Nick, "*", "End of /WHO list"))
		return
	}

	mask := m.Params[0]
	if len(mask) > 0 && (mask[0] == '#' || mask[0] == '&') {
		ch, ok := s.Channels[canonicalizeChannel(mask)]
		if ok {
			for memberID := range ch.Members {
				if member, ok := s.Clients[memberID]; ok {
					s.sendWhoReply(c, ch.Name, member, ch.isOperator(memberID))
				}
			}
		}
		c.maybeQueueMessage(s.reply.numeric(ReplyEndOfWho, c.Nick, mask, "End of /WHO list"))
		return
	}

	targetID, ok := s.Nicks[canonicalizeNick(mask)]
	if ok {
		s.sendWhoReply(c, "*", s.Clients[targetID], false)
	}
	c.maybeQueueMessage(s.reply.numeric(ReplyEndOfWho, c.Nick, mask, "End of /WHO list"))
}

func (s *Server) sendWhoReply(c *Client, channel string, who *Client, isOp bool) {
	flags := "H"
	if who.AwayMessage != "" {
		flags = "G"
	}
	if isOp {
		flags += "@"
	}
	c.maybeQueueMessage(s.reply.numeric(ReplyWhoReply, c.Nick,
		channel, who.User, who.Host, s.Config.ServerName, who.Nick, flags, "0 "+who.RealName))
}

func (s *Server) whoisCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchNick, c.Nick, "*", "No such nick/channel"))
		return
	}

	targetID, ok := s.Nicks[canonicalizeNick(m.Params[0])]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchNick, c.Nick, m.Params[0], "No such nick/channel"))
		c.maybeQueueMessage(s.reply.numeric(ReplyEndOfWhois, c.Nick, m.Params[0], "End of /WHOIS list"))
		return
	}
	who := s.Clients[targetID]

	c.maybeQueueMessage(s.reply.numeric(ReplyWhoisUser, c.Nick,
		who.Nick, who.User, who.Host, "*", who.RealName))
	c.maybeQueueMessage(s.reply.numeric(ReplyWhoisServer, c.Nick,
		who.Nick, s.Config.ServerName, "Server info"))

	if who.AwayMessage != "" {
		c.maybeQueueMessage(s.reply.numeric(ReplyAway, c.Nick, who.Nick, who.AwayMessage))
	}

	var channels []string
	for chanName := range who.Channels {
		if ch, ok := s.Channels[chanName]; ok {
			prefix := ""
			if ch.isOperator(who.ID) {
				prefix = "@"
			}
			channels = append(channels, prefix+ch.Name)
		}
	}
	if len(channels) > 0 {
		c.maybeQueueMessage(s.reply.numeric(ReplyWhoisChannels, c.Nick, who.Nick, joinTrailing(channels...)))
	}

	idle := time.Since(who.LastActivityTime).Seconds()
	c.maybeQueueMessage(s.reply.numeric(ReplyWhoisIdle, c.Nick, who.Nick,
		strconv.Itoa(int(idle)), "seconds idle"))

	c.maybeQueueMessage(s.reply.numeric(ReplyEndOfWhois, c.Nick, who.Nick, "End of /WHOIS list"))
}

func (s *Server) whowasCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchNick, c.Nick, "*", "No such nick"))
		return
	}

	entry, ok := s.whowas[canonicalizeNick(m.Params[0])]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchNick, c.Nick, m.Params[0], "There was no such nickname"))
	} else {
		c.maybeQueueMessage(s.reply.numeric(ReplyWhoisUser, c.Nick,
			entry.Nick, entry.User, entry.Host, "*", entry.RealName))
	}
	c.maybeQueueMessage(s.reply.numeric(ReplyEndOfWhoWas, c.Nick, m.Params[0], "End of WHOWAS"))
}

func (s *Server) awayCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 || m.Params[0] == "" {
		c.AwayMessage = ""
		c.maybeQueueMessage(s.reply.numeric(ReplyUnAway, c.Nick, "You are no longer marked as being away"))
		return
	}

	c.AwayMessage = m.Params[0]
	c.maybeQueueMessage(s.reply.numeric(ReplyNowAway, c.Nick, "You have been marked as being away"))
}
