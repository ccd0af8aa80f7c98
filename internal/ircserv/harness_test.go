package ircserv

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testClient is a minimal raw IRC client used to drive Server in-process,
// without a subprocess harness, since this module's server is a library
// rather than a prebuilt binary to exec.
type testClient struct {
	conn *net.TCPConn
	r    *bufio.Reader
}

func dialTestClient(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err, "dial test server")
	tc := &testClient{conn: conn.(*net.TCPConn), r: bufio.NewReader(conn)}
	return tc
}

func (c *testClient) send(line string) {
	_, _ = c.conn.Write([]byte(line + "\r\n"))
}

// readUntil reads lines until one contains substr, failing the test after a
// short deadline. It returns every line seen, including the match.
func (c *testClient) readUntil(t *testing.T, substr string, timeout time.Duration) []string {
	t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	var lines []string
	for {
		line, err := c.r.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
			if strings.Contains(line, substr) {
				return lines
			}
		}
		if err != nil {
			t.Fatalf("readUntil(%q): %s; saw: %v", substr, err, lines)
		}
	}
}

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	s, err := New(Config{
		ListenHost: "127.0.0.1",
		ListenPort: "0",
		Password:   "sekrit",
		ServerName: "ircserv",
		Version:    "1.1",
		CreatedAt:  "today",
	})
	require.NoError(t, err, "construct server")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "listen on an ephemeral port")
	s.listener = ln

	go s.acceptConnections()
	go s.run()

	t.Cleanup(func() {
		s.Shutdown()
	})

	return s, ln.Addr().String()
}

func TestRegistrationBurst(t *testing.T) {
	_, addr := startTestServer(t)

	c := dialTestClient(t, addr)
	c.send("PASS sekrit")
	c.send("NICK alice")
	c.send("USER alice 0 * :Alice Example")

	lines := c.readUntil(t, " 376 ", 2*time.Second)

	wantCodes := []string{" 001 ", " 002 ", " 003 ", " 004 "}
	for _, code := range wantCodes {
		found := false
		for _, l := range lines {
			if strings.Contains(l, code) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a line containing %q, got %v", code, lines)
		}
	}
}

func TestBadPasswordClosesConnection(t *testing.T) {
	_, addr := startTestServer(t)

	c := dialTestClient(t, addr)
	c.send("PASS wrong")
	c.send("NICK bob")
	c.send("USER bob 0 * :Bob")

	lines := c.readUntil(t, " 464 ", 2*time.Second)
	if len(lines) == 0 {
		t.Fatal("expected a 464 reply")
	}

	// After the 464 the server closes the link: reading on must end in EOF
	// or a reset, not in the read deadline expiring.
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, err := c.r.ReadString('\n'); err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				t.Fatal("expected the server to close the connection after 464")
			}
			break
		}
	}
}

func TestChannelJoinAndOpMarker(t *testing.T) {
	_, addr := startTestServer(t)

	a := dialTestClient(t, addr)
	a.send("PASS sekrit")
	a.send("NICK alice")
	a.send("USER alice 0 * :Alice")
	a.readUntil(t, " 376 ", 2*time.Second)

	a.send("JOIN #test")
	lines := a.readUntil(t, " 366 ", 2*time.Second)

	found := false
	for _, l := range lines {
		if strings.Contains(l, " 353 ") && strings.Contains(l, "@alice") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected NAMES reply marking alice as operator, got %v", lines)
	}
}
