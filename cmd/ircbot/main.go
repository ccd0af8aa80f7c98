// Command ircbot connects to an IRC server as a single client and answers
// !funfact, !time, and !age triggers sent to it by PRIVMSG.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ltorkia/ircserv/internal/envfile"
	"github.com/ltorkia/ircserv/internal/ircbot"
)

const envPath = ".env"
const quotesPath = "assets/quotes.txt"

func main() {
	log.SetFlags(0)

	values, err := envfile.Load(envPath)
	if err != nil {
		log.Printf("unable to load %s: %s", envPath, err)
		os.Exit(1)
	}
	if err := envfile.RequireKeys(values, "server_ip", "server_port", "password"); err != nil {
		log.Printf("%s", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%s", values["server_ip"], values["server_port"])

	bot, err := ircbot.Connect(ircbot.Config{
		ServerAddr: addr,
		Password:   values["password"],
		QuotesPath: quotesPath,
	}, time.Now())
	if err != nil {
		log.Printf("unable to connect bot: %s", err)
		os.Exit(1)
	}
	defer bot.Close()

	log.Printf("bot connected to %s", addr)

	if err := bot.Run(); err != nil {
		log.Printf("bot stopped: %s", err)
		os.Exit(1)
	}
}
