// Package ircbot implements an in-process IRC client that registers with a
// server and answers a small set of trigger commands sent to it by
// PRIVMSG.
package ircbot

import (
	"bufio"
	"log"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/horgh/irc"
	"github.com/pkg/errors"
)

// requiredAuthServerReplyCount bounds how many lines we will read from the
// server while looking for RPL_WELCOME before giving up on registration.
const requiredAuthServerReplyCount = 25

const nick = "BOTTY"

// Config holds what the bot needs to connect and identify itself.
type Config struct {
	ServerAddr string
	Password   string
	QuotesPath string
}

// Bot is one connected IRC client running the funfact/time/age triggers.
type Bot struct {
	conn net.Conn
	rw   *bufio.ReadWriter

	hasSentAuth     bool
	isAuthenticated bool

	quotes []string
	rng    *rand.Rand
}

// Connect dials the server, completes the PASS/NICK/USER handshake, and
// returns a Bot ready to Run. now is used only to seed the PRNG.
func Connect(cfg Config, now time.Time) (*Bot, error) {
	conn, err := net.Dial("tcp", cfg.ServerAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to %s", cfg.ServerAddr)
	}

	b := &Bot{
		conn:   conn,
		rw:     bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
		quotes: loadQuotes(cfg.QuotesPath),
		rng:    rand.New(rand.NewSource(now.UnixNano())),
	}

	if err := b.register(cfg.Password); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return b, nil
}

func (b *Bot) send(m irc.Message) error {
	line, err := m.Encode()
	if err != nil && err != irc.ErrTruncated {
		return err
	}
	if _, err := b.rw.WriteString(line); err != nil {
		return err
	}
	return b.rw.Flush()
}

// register sends PASS/NICK/USER and reads up to requiredAuthServerReplyCount
// lines looking for RPL_WELCOME to confirm registration succeeded.
func (b *Bot) register(password string) error {
	if err := b.send(irc.Message{Command: "PASS", Params: []string{password}}); err != nil {
		return errors.Wrap(err, "sending PASS")
	}
	if err := b.send(irc.Message{Command: "NICK", Params: []string{nick}}); err != nil {
		return errors.Wrap(err, "sending NICK")
	}
	if err := b.send(irc.Message{Command: "USER", Params: []string{"bot", "0", "*", "bot"}}); err != nil {
		return errors.Wrap(err, "sending USER")
	}
	b.hasSentAuth = true

	for i := 0; i < requiredAuthServerReplyCount; i++ {
		line, err := b.rw.ReadString('\n')
		if err != nil {
			return errors.Wrap(err, "reading registration reply")
		}
		msg, err := irc.ParseMessage(line)
		if err != nil {
			continue
		}
		if msg.Command == irc.ReplyWelcome {
			b.isAuthenticated = true
			return nil
		}
	}

	return errors.New("did not see RPL_WELCOME within registration window")
}

// Run reads messages forever, answering PRIVMSGs directed at the bot. It
// returns when the connection closes.
func (b *Bot) Run() error {
	for {
		line, err := b.rw.ReadString('\n')
		if err != nil {
			return errors.Wrap(err, "reading from server")
		}

		msg, err := irc.ParseMessage(line)
		if err != nil {
			continue
		}

		if msg.Command == "PING" {
			_ = b.send(irc.Message{Command: "PONG", Params: msg.Params})
			continue
		}

		if msg.Command == "PRIVMSG" {
			b.handlePrivmsg(msg)
		}
	}
}

func (b *Bot) handlePrivmsg(msg irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	target := msg.Params[0]
	text := msg.Params[1]

	senderNick := msg.SourceNick()
	if senderNick == "" {
		return
	}

	reply, ok := b.respondTo(text)
	if !ok {
		return
	}

	// Private message: reply to the sender. Channel message: reply to the
	// channel.
	replyTarget := senderNick
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "&") {
		replyTarget = target
	}

	if err := b.send(irc.Message{Command: "NOTICE", Params: []string{replyTarget, reply}}); err != nil {
		log.Printf("bot: failed to send reply: %s", err)
	}
}

// respondTo matches a trigger command and returns its reply. ok is false if
// text does not begin with a recognized trigger.
func (b *Bot) respondTo(text string) (reply string, ok bool) {
	switch {
	case strings.HasPrefix(text, "!funfact"):
		return randomQuote(b.rng, b.quotes), true

	case strings.HasPrefix(text, "!time"):
		return time.Now().Format("2006-01-02 15:04:05"), true

	case strings.HasPrefix(text, "!age "):
		arg := strings.TrimSpace(strings.TrimPrefix(text, "!age "))
		return formatAge(arg, time.Now()), true
	}

	return "", false
}

func (b *Bot) Close() error {
	return b.conn.Close()
}
