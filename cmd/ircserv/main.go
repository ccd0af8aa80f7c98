// Command ircserv runs the IRC server.
//
// Usage: ircserv <port> <password>
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	"unicode"

	"github.com/ltorkia/ircserv/internal/ircserv"
	"github.com/pkg/errors"
)

func main() {
	log.SetFlags(0)

	port, password, err := parseArgs(os.Args[1:])
	if err != nil {
		printUsage(err)
		os.Exit(1)
	}

	s, err := ircserv.New(ircserv.Config{
		ListenHost: "0.0.0.0",
		ListenPort: strconv.Itoa(port),
		Password:   password,
		ServerName: "ircserv",
		Version:    "1.1",
		CreatedAt:  time.Now().Format("2006-01-02"),
		MOTD:       []string{"Welcome to ircserv."},
	})
	if err != nil {
		log.Printf("unable to start server: %s", err)
		os.Exit(1)
	}

	if err := s.Start(); err != nil {
		log.Printf("server stopped: %s", err)
		os.Exit(1)
	}

	log.Printf("Server shutdown cleanly.")
}

func parseArgs(args []string) (port int, password string, err error) {
	if len(args) != 2 {
		return 0, "", errors.New("expected exactly two arguments: <port> <password>")
	}

	port, err = strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		return 0, "", errors.New("port must be an integer between 1 and 65535")
	}

	password = args[1]
	if password == "" {
		return 0, "", errors.New("password must not be empty")
	}
	for _, r := range password {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return 0, "", errors.New("password must be printable with no spaces")
		}
	}

	return port, password, nil
}

func printUsage(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	fmt.Fprintf(os.Stderr, "Usage: %s <port> <password>\n", os.Args[0])
}
