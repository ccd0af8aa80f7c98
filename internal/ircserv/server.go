// Package ircserv implements a single-process IRC server covering a
// practical subset of RFC 1459/2812: connection registration, nicknames,
// channels with operators/invites/modes, and the common command set.
package ircserv

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/horgh/irc"
	"github.com/pkg/errors"
)

// EventType identifies what kind of Event the server received.
type EventType int

// Event types the single event loop consumes.
const (
	NewClientEvent EventType = iota
	MessageEvent
	DeadClientEvent
	LineTooLongEvent
	TickEvent
)

// Event carries one thing for the event loop to act on. Only the loop
// goroutine reads server/channel state in response to an Event.
type Event struct {
	Type    EventType
	Client  *Client
	Message irc.Message
}

// Config holds the server's identity and listen parameters.
type Config struct {
	ListenHost string
	ListenPort string
	Password   string

	ServerName string
	Version    string
	CreatedAt  string
	MOTD       []string
}

const serverVersion = "1.1"
const advertisedModes = "itkol"

// pendingTransfer records a CTCP DCC SEND/GET announcement the server
// relayed, purely for observability. The server never acts on these values;
// routing the CTCP frame through is already complete once recorded.
type pendingTransfer struct {
	Sender   string
	Filename string
	Size     string
	At       time.Time
}

// Server is the process-singleton holding all mutable state. The client,
// nick, channel, transfer and whowas maps are touched only from the
// goroutine running run(); listener and shuttingDown are also used by
// Shutdown and acceptConnections.
type Server struct {
	Config Config
	reply  *replyBuilder

	listener net.Listener

	// Client ID to Client, for every connected client regardless of
	// registration state.
	Clients map[uint64]*Client

	// Canonicalized nick to Client ID.
	Nicks map[string]uint64

	// Canonicalized channel name to Channel.
	Channels map[string]*Channel

	// Receiver nick to pending DCC transfer announcement.
	Transfers map[string]pendingTransfer

	// Canonicalized nick to the last known identity of a disconnected
	// client, for WHOWAS.
	whowas map[string]whowasEntry

	events chan Event

	shuttingDown int32

	WG sync.WaitGroup
}

// New creates a Server ready to Start. It does not bind a socket yet.
func New(cfg Config) (*Server, error) {
	if cfg.ListenPort == "" {
		return nil, errors.New("listen port is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("password is required")
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "ircserv"
	}
	if cfg.Version == "" {
		cfg.Version = serverVersion
	}

	return &Server{
		Config:    cfg,
		reply:     newReplyBuilder(cfg.ServerName),
		Clients:   make(map[uint64]*Client),
		Nicks:     make(map[string]uint64),
		Channels:  make(map[string]*Channel),
		Transfers: make(map[string]pendingTransfer),
		whowas:    make(map[string]whowasEntry),
		events:    make(chan Event, 256),
	}, nil
}

// Start binds the listening socket and runs the event loop until Shutdown
// is called and every client has been removed. Accept errors are logged and
// accepting continues. It blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.Config.ListenHost, s.Config.ListenPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", addr)
	}
	s.listener = ln

	go s.acceptConnections()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			if atomic.LoadInt32(&s.shuttingDown) != 0 {
				return
			}
			s.events <- Event{Type: TickEvent}
		}
	}()

	s.run()
	return nil
}

// Shutdown tells the server to stop accepting new work and disconnect all
// clients. It is safe to call from any goroutine (e.g. a signal handler).
func (s *Server) Shutdown() {
	atomic.StoreInt32(&s.shuttingDown, 1)
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *Server) isShuttingDown() bool {
	return atomic.LoadInt32(&s.shuttingDown) != 0
}

// run is the single event-loop goroutine. All state mutation in this
// package happens here; readLoop/writeLoop goroutines only ever move bytes
// and Events across channels.
func (s *Server) run() {
	for ev := range s.events {
		switch ev.Type {
		case NewClientEvent:
			s.Clients[ev.Client.ID] = ev.Client
			log.Printf("new connection: %s", ev.Client)

		case MessageEvent:
			if _, ok := s.Clients[ev.Client.ID]; !ok {
				continue
			}
			s.dispatch(ev.Client, ev.Message)

		case LineTooLongEvent:
			if c, ok := s.Clients[ev.Client.ID]; ok {
				c.maybeQueueMessage(s.reply.numeric(ErrInputTooLong, displayNick(c), "Input line was too long"))
			}

		case DeadClientEvent:
			if _, ok := s.Clients[ev.Client.ID]; ok {
				s.removeClient(ev.Client, "I/O error")
			}

		case TickEvent:
			s.checkLiveness()
			if s.isShuttingDown() && len(s.Clients) == 0 {
				return
			}
		}

		for _, c := range s.Clients {
			if c.SendQueueExceeded {
				s.removeClient(c, "slow consumer")
			}
		}
	}
}

func (s *Server) acceptConnections() {
	id := uint64(0)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			log.Printf("accept: %s", err)
			continue
		}

		id++
		client := newClient(id, conn)

		// Queue the new client before its reader starts, so the loop knows
		// it by the time its first line arrives.
		s.events <- Event{Type: NewClientEvent, Client: client}

		s.WG.Add(2)
		go func() {
			defer s.WG.Done()
			client.readLoop(s.events)
		}()
		go func() {
			defer s.WG.Done()
			client.writeLoop()
		}()
	}
}

// checkLiveness pings idle clients and drops ones that have not answered.
func (s *Server) checkLiveness() {
	now := time.Now()
	for _, c := range s.Clients {
		idle := now.Sub(c.LastActivityTime)

		if c.AwaitingPong {
			if now.Sub(c.LastPingTime) > pongTimeout {
				s.removeClient(c, "Connection timeout")
			}
			continue
		}

		if idle > pingInterval {
			c.maybeQueueMessage(s.reply.fromServer("PING", s.Config.ServerName))
			c.LastPingTime = now
			c.AwaitingPong = true
		}
	}

	if s.isShuttingDown() {
		for _, c := range s.Clients {
			c.maybeQueueMessage(s.reply.fromServer("NOTICE", displayNick(c), "Server shutting down"))
		}
		for _, c := range s.Clients {
			s.removeClient(c, "Server shutting down")
		}
	}
}

// removeClient tears a client out of every map it appears in and closes its
// connection. Safe to call more than once is not required: callers check
// membership in s.Clients first.
func (s *Server) removeClient(c *Client, reason string) {
	s.quitClient(c, reason)
	delete(s.Clients, c.ID)
}

func displayNick(c *Client) string {
	if c.Nick == "" {
		return "*"
	}
	return c.Nick
}
