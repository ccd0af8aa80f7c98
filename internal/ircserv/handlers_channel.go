package ircserv

import (
	"strconv"
	"strings"
	"time"

	"github.com/horgh/irc"
)

var validChannelModes = map[byte]bool{'i': true, 't': true, 'k': true, 'l': true, 'o': true}

func (s *Server) joinCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, c.Nick, "JOIN", "Not enough parameters"))
		return
	}

	names := strings.Split(m.Params[0], ",")
	var keys []string
	if len(m.Params) > 1 {
		keys = strings.Split(m.Params[1], ",")
	}

	for i, name := range names {
		key := ""
		if i < len(keys) {
			key = keys[i]
		}
		s.joinOne(c, name, key)
	}
}

func (s *Server) joinOne(c *Client, name, key string) {
	canon := canonicalizeChannel(name)
	if !isValidChannel(canon) {
		c.maybeQueueMessage(s.reply.numeric(ErrBadChanMask, c.Nick, name, "Bad channel mask"))
		return
	}

	ch, exists := s.Channels[canon]
	if !exists {
		ch = newChannel(name)
		s.Channels[canon] = ch
	}

	if _, already := c.Channels[canon]; already {
		return
	}

	if exists {
		if ch.InviteOnly && !ch.isInvited(c.ID) {
			c.maybeQueueMessage(s.reply.numeric(ErrInviteOnlyChan, c.Nick, name, "Cannot join channel (+i)"))
			return
		}
		if ch.Key != "" && ch.Key != key {
			c.maybeQueueMessage(s.reply.numeric(ErrBadChannelKey, c.Nick, name, "Cannot join channel (+k)"))
			return
		}
		if ch.Limit > 0 && len(ch.Members) >= ch.Limit {
			c.maybeQueueMessage(s.reply.numeric(ErrChannelIsFull, c.Nick, name, "Cannot join channel (+l)"))
			return
		}
	}

	makeOp := !exists
	ch.addMember(c.ID, makeOp)
	c.Channels[canon] = struct{}{}
	delete(c.Invited, canon)

	joinMsg := s.reply.fromClient(c.mask(), "JOIN", ch.Name)
	s.broadcastToChannel(ch, joinMsg, 0)

	if ch.Topic != "" {
		c.maybeQueueMessage(s.reply.numeric(ReplyTopic, c.Nick, ch.Name, ch.Topic))
	} else {
		c.maybeQueueMessage(s.reply.numeric(ReplyNoTopic, c.Nick, ch.Name, "No topic is set"))
	}

	s.sendNames(c, ch)
}

func (s *Server) sendNames(c *Client, ch *Channel) {
	var names []string
	for memberID := range ch.Members {
		member, ok := s.Clients[memberID]
		if !ok {
			continue
		}
		nick := member.Nick
		if ch.isOperator(memberID) {
			nick = "@" + nick
		}
		names = append(names, nick)
	}
	c.maybeQueueMessage(s.reply.numeric(ReplyNameReply, c.Nick, "=", ch.Name, strings.Join(names, " ")))
	c.maybeQueueMessage(s.reply.numeric(ReplyEndOfNames, c.Nick, ch.Name, "End of /NAMES list"))
}

// broadcastToChannel sends m to every member of ch, optionally skipping one
// client ID (0 to skip none, since client IDs start at 1).
func (s *Server) broadcastToChannel(ch *Channel, m irc.Message, skip uint64) {
	for memberID := range ch.Members {
		if memberID == skip {
			continue
		}
		if member, ok := s.Clients[memberID]; ok {
			member.maybeQueueMessage(m)
		}
	}
}

func (s *Server) partCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, c.Nick, "PART", "Not enough parameters"))
		return
	}

	reason := ""
	if len(m.Params) > 1 {
		reason = m.Params[1]
	}

	for _, name := range strings.Split(m.Params[0], ",") {
		s.partOne(c, name, reason)
	}
}

func (s *Server) partOne(c *Client, name, reason string) {
	canon := canonicalizeChannel(name)
	ch, ok := s.Channels[canon]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchChannel, c.Nick, name, "No such channel"))
		return
	}
	if !ch.hasMember(c.ID) {
		c.maybeQueueMessage(s.reply.numeric(ErrNotOnChannel, c.Nick, name, "You're not on that channel"))
		return
	}

	params := []string{ch.Name}
	if reason != "" {
		params = append(params, reason)
	}
	partMsg := s.reply.fromClient(c.mask(), "PART", params...)
	s.broadcastToChannel(ch, partMsg, 0)

	ch.removeMember(c.ID)
	delete(c.Channels, canon)
	if ch.empty() {
		delete(s.Channels, canon)
	}
}

func (s *Server) kickCommand(c *Client, m irc.Message) {
	if len(m.Params) < 2 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, c.Nick, "KICK", "Not enough parameters"))
		return
	}

	canon := canonicalizeChannel(m.Params[0])
	ch, ok := s.Channels[canon]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchChannel, c.Nick, m.Params[0], "No such channel"))
		return
	}
	if !ch.isOperator(c.ID) {
		c.maybeQueueMessage(s.reply.numeric(ErrChanOpPrivsNeed, c.Nick, ch.Name, "You're not channel operator"))
		return
	}

	targetNickCanon := canonicalizeNick(m.Params[1])
	targetID, ok := s.Nicks[targetNickCanon]
	if !ok || !ch.hasMember(targetID) {
		c.maybeQueueMessage(s.reply.numeric(ErrUserNotInChannel, c.Nick, m.Params[1], "They aren't on that channel"))
		return
	}

	reason := c.Nick
	if len(m.Params) > 2 {
		reason = m.Params[2]
	}

	kickMsg := s.reply.fromClient(c.mask(), "KICK", ch.Name, m.Params[1], reason)
	s.broadcastToChannel(ch, kickMsg, 0)

	ch.removeMember(targetID)
	if target, ok := s.Clients[targetID]; ok {
		delete(target.Channels, canon)
	}
	if ch.empty() {
		delete(s.Channels, canon)
	}
}

func (s *Server) inviteCommand(c *Client, m irc.Message) {
	if len(m.Params) < 2 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, c.Nick, "INVITE", "Not enough parameters"))
		return
	}

	targetCanon := canonicalizeNick(m.Params[0])
	targetID, ok := s.Nicks[targetCanon]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchNick, c.Nick, m.Params[0], "No such nick"))
		return
	}
	target := s.Clients[targetID]

	canon := canonicalizeChannel(m.Params[1])
	ch := s.Channels[canon]

	if ch != nil {
		if ch.hasMember(targetID) {
			c.maybeQueueMessage(s.reply.numeric(ErrUserOnChannel, c.Nick, m.Params[0], m.Params[1], "is already on channel"))
			return
		}
		if ch.InviteOnly && !ch.isOperator(c.ID) {
			c.maybeQueueMessage(s.reply.numeric(ErrChanOpPrivsNeed, c.Nick, m.Params[1], "You're not channel operator"))
			return
		}
		ch.Invited[targetID] = struct{}{}
	}
	target.Invited[canon] = struct{}{}

	c.maybeQueueMessage(s.reply.numeric(ReplyInviting, c.Nick, m.Params[0], m.Params[1]))
	target.maybeQueueMessage(s.reply.fromClient(c.mask(), "INVITE", m.Params[0], m.Params[1]))
}

func (s *Server) topicCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, c.Nick, "TOPIC", "Not enough parameters"))
		return
	}

	canon := canonicalizeChannel(m.Params[0])
	ch, ok := s.Channels[canon]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchChannel, c.Nick, m.Params[0], "No such channel"))
		return
	}
	if !ch.hasMember(c.ID) {
		c.maybeQueueMessage(s.reply.numeric(ErrNotOnChannel, c.Nick, m.Params[0], "You're not on that channel"))
		return
	}

	if len(m.Params) < 2 {
		if ch.Topic == "" {
			c.maybeQueueMessage(s.reply.numeric(ReplyNoTopic, c.Nick, ch.Name, "No topic is set"))
			return
		}
		c.maybeQueueMessage(s.reply.numeric(ReplyTopic, c.Nick, ch.Name, ch.Topic))
		return
	}

	if ch.TopicLocked && !ch.isOperator(c.ID) {
		c.maybeQueueMessage(s.reply.numeric(ErrChanOpPrivsNeed, c.Nick, ch.Name, "You're not channel operator"))
		return
	}

	topic := m.Params[1]
	if len(topic) > maxTopicLength {
		topic = topic[:maxTopicLength]
	}

	ch.Topic = topic
	ch.TopicSetBy = c.Nick
	ch.TopicSetTime = time.Now()

	s.broadcastToChannel(ch, s.reply.fromClient(c.mask(), "TOPIC", ch.Name, ch.Topic), 0)
}

func (s *Server) modeCommand(c *Client, m irc.Message) {
	if len(m.Params) < 1 {
		c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, c.Nick, "MODE", "Not enough parameters"))
		return
	}

	target := m.Params[0]

	if len(target) > 0 && (target[0] == '#' || target[0] == '&') {
		s.channelModeCommand(c, m, target)
		return
	}

	s.userModeCommand(c, m, target)
}

func (s *Server) userModeCommand(c *Client, m irc.Message, target string) {
	if canonicalizeNick(target) != canonicalizeNick(c.Nick) {
		c.maybeQueueMessage(s.reply.numeric(ErrUsersDontMatch, c.Nick, "Cannot change mode for other users"))
		return
	}
	// No user modes are currently settable; echo back an empty set.
	c.maybeQueueMessage(s.reply.fromClient(c.mask(), "MODE", c.Nick, "+"))
}

func (s *Server) channelModeCommand(c *Client, m irc.Message, target string) {
	canon := canonicalizeChannel(target)
	ch, ok := s.Channels[canon]
	if !ok {
		c.maybeQueueMessage(s.reply.numeric(ErrNoSuchChannel, c.Nick, target, "No such channel"))
		return
	}

	if len(m.Params) < 2 {
		flags, params := ch.modeString()
		all := append([]string{ch.Name, flags}, params...)
		c.maybeQueueMessage(s.reply.numeric(ReplyChannelModeIs, c.Nick, all...))
		return
	}

	if !ch.hasMember(c.ID) {
		c.maybeQueueMessage(s.reply.numeric(ErrNotOnChannel, c.Nick, target, "You're not on that channel"))
		return
	}
	if !ch.isOperator(c.ID) {
		c.maybeQueueMessage(s.reply.numeric(ErrChanOpPrivsNeed, c.Nick, ch.Name, "You're not channel operator"))
		return
	}

	changes, unknown := parseModeString(validChannelModes, m.Params[1], m.Params[2:])

	for _, u := range unknown {
		c.maybeQueueMessage(s.reply.numeric(ErrUnknownMode, c.Nick, string(u), "is unknown mode char to me"))
	}

	var echoModes strings.Builder
	var echoParams []string
	lastAdd := true
	first := true

	applyEcho := func(add bool, letter byte, param string) {
		if first || add != lastAdd {
			if add {
				echoModes.WriteByte('+')
			} else {
				echoModes.WriteByte('-')
			}
			lastAdd = add
			first = false
		}
		echoModes.WriteByte(letter)
		if param != "" {
			echoParams = append(echoParams, param)
		}
	}

	for _, change := range changes {
		// +k, +l, +o and -o need an argument; -k and -l do not.
		if change.Param == "" && parameterizedChannelModes[change.Letter] && (change.Add || change.Letter == 'o') {
			c.maybeQueueMessage(s.reply.numeric(ErrNeedMoreParams, c.Nick, "MODE", "Not enough parameters"))
			continue
		}
		switch change.Letter {
		case 'i':
			ch.InviteOnly = change.Add
			applyEcho(change.Add, 'i', "")
		case 't':
			ch.TopicLocked = change.Add
			applyEcho(change.Add, 't', "")
		case 'k':
			if change.Add {
				if !isValidKey(change.Param) {
					c.maybeQueueMessage(s.reply.numeric(ErrInvalidModeParam, c.Nick, ch.Name, "k", change.Param, "Invalid key"))
					continue
				}
				ch.Key = change.Param
				applyEcho(true, 'k', change.Param)
			} else {
				ch.Key = ""
				applyEcho(false, 'k', "")
			}
		case 'l':
			if change.Add {
				n, err := strconv.Atoi(change.Param)
				if err != nil || n <= 0 {
					c.maybeQueueMessage(s.reply.numeric(ErrInvalidModeParam, c.Nick, ch.Name, "l", change.Param, "Invalid limit"))
					continue
				}
				ch.Limit = n
				applyEcho(true, 'l', change.Param)
			} else {
				ch.Limit = 0
				applyEcho(false, 'l', "")
			}
		case 'o':
			targetID, ok := s.Nicks[canonicalizeNick(change.Param)]
			if !ok || !ch.hasMember(targetID) {
				c.maybeQueueMessage(s.reply.numeric(ErrUserNotInChannel, c.Nick, change.Param, "They aren't on that channel"))
				continue
			}
			if change.Add {
				ch.promote(targetID)
			} else {
				ch.demote(targetID)
			}
			applyEcho(change.Add, 'o', change.Param)
		}
	}

	if echoModes.Len() > 0 {
		params := append([]string{ch.Name, echoModes.String()}, echoParams...)
		s.broadcastToChannel(ch, s.reply.fromClient(c.mask(), "MODE", params...), 0)
	}
}
