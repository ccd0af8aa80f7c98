package ircserv

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/horgh/irc"
)

// Registration flags a client must satisfy before it is treated as fully
// authenticated. PASS must come first; USER may arrive before NICK; NICK is
// still required either way.
type registration struct {
	PasswordOK bool
	NickSet    bool
	UserSet    bool
}

func (r registration) complete() bool {
	return r.PasswordOK && r.NickSet && r.UserSet
}

// Client holds all per-connection state. All mutation of a Client happens
// on the server's single event loop goroutine; the reader and writer
// goroutines below only ever move bytes and Messages across channels.
type Client struct {
	ID   uint64
	IP   string
	conn net.Conn
	rw   *bufio.ReadWriter

	// WriteChan is drained by this client's writer goroutine. A full channel
	// means the client is a slow consumer and gets dropped.
	WriteChan chan irc.Message

	SendQueueExceeded bool

	Reg registration

	Nick     string
	User     string
	RealName string
	Host     string

	Authenticated bool

	AwayMessage string

	// Channel name (canonicalized) the client currently belongs to.
	Channels map[string]struct{}

	// Channel name (canonicalized) the client has been invited to but not
	// yet joined.
	Invited map[string]struct{}

	LastActivityTime time.Time
	LastPingTime     time.Time
	AwaitingPong     bool
}

const (
	writeChanCapacity = 100
	pingInterval      = 240 * time.Second
	pongTimeout       = 300 * time.Second
	maxLineContent    = 510
)

func newClient(id uint64, conn net.Conn) *Client {
	now := time.Now()
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}
	return &Client{
		ID:               id,
		IP:               host,
		Host:             host,
		conn:             conn,
		rw:               bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
		WriteChan:        make(chan irc.Message, writeChanCapacity),
		Channels:         make(map[string]struct{}),
		Invited:          make(map[string]struct{}),
		LastActivityTime: now,
		LastPingTime:     now,
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("%d %s", c.ID, c.IP)
}

// mask is the nick!~user@host identity used as message prefixes originating
// from this client.
func (c *Client) mask() string {
	return fmt.Sprintf("%s!~%s@%s", c.Nick, c.User, c.Host)
}

// maybeQueueMessage enqueues a message for delivery without blocking. If the
// client's write channel is full we mark it a slow consumer instead of
// stalling the event loop over one unresponsive peer.
func (c *Client) maybeQueueMessage(m irc.Message) {
	select {
	case c.WriteChan <- m:
	default:
		c.SendQueueExceeded = true
	}
}

// readLoop reads and assembles lines from the connection, forwarding each
// complete line as an event to the server. It never mutates server state
// directly. Lines are read with ReadString rather than bufio.Scanner so a
// client sending more than maxLineContent bytes before a newline gets
// truncated and an ERR_INPUTTOOLONG reply, not a dropped connection:
// Scanner's fixed-size token buffer would instead fail the whole read with
// ErrTooLong.
func (c *Client) readLoop(events chan<- Event) {
	for {
		raw, err := c.rw.ReadString('\n')
		if err != nil {
			break
		}

		line := strings.TrimRight(raw, "\r\n")
		if line == "" {
			continue
		}

		if len(line) > maxLineContent {
			line = line[:maxLineContent]
			events <- Event{Type: LineTooLongEvent, Client: c}
		}

		msg, perr := irc.ParseMessage(line + "\r\n")
		if perr != nil {
			continue
		}
		events <- Event{Type: MessageEvent, Client: c, Message: msg}
	}

	events <- Event{Type: DeadClientEvent, Client: c}
}

// writeLoop drains the client's write channel and writes each message to
// the socket, closing the connection when the channel closes.
func (c *Client) writeLoop() {
	for m := range c.WriteChan {
		line := encode(m)
		if _, err := c.rw.WriteString(line); err != nil {
			break
		}
		if err := c.rw.Flush(); err != nil {
			break
		}
	}
	if err := c.conn.Close(); err != nil {
		log.Printf("client %s: close: %s", c, err)
	}
}

// destroy closes the write channel, which stops the writer goroutine and
// closes the socket.
func (c *Client) destroy() {
	close(c.WriteChan)
}
