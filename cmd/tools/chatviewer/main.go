// chatviewer dumps the chat database: every session's transcript plus a
// short summary, oldest turns first within each session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/harperchat/backend/internal/config"
	"github.com/harperchat/backend/internal/model/chat"
	"github.com/harperchat/backend/internal/storage"
)

func main() {
	log.SetFlags(0)

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	dbPath := flag.String("db", cfg.Storage.Path, "path to the chat database")
	session := flag.String("session", "", "print only this session")
	flag.Parse()

	store, err := storage.OpenSqlite(*dbPath)
	if err != nil {
		log.Fatalf("failed to open chat database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	sessions, err := store.Sessions(ctx)
	if err != nil {
		log.Fatalf("failed to list sessions: %v", err)
	}

	if *session != "" {
		sessions = []string{*session}
	}

	fmt.Println("Chat Sessions:")

	total := 0
	for _, id := range sessions {
		messages, err := store.SessionMessages(ctx, id)
		if err != nil {
			log.Fatalf("failed to load session %s: %v", id, err)
		}
		total += len(messages)

		fmt.Printf("\nSession ID: %s\n", id)
		fmt.Println("----------------------------------------")
		for _, msg := range messages {
			fmt.Printf("%s %s:\n%s\n\n", msg.Timestamp.Local().Format("2006-01-02 15:04:05"), senderName(msg), msg.Content)
		}
	}

	fmt.Println("Summary:")
	fmt.Printf("Total Sessions: %d\n", len(sessions))
	fmt.Printf("Total Messages: %d\n", total)
}

func senderName(msg chat.Message) string {
	if msg.Sender == chat.SenderUser {
		return "User"
	}
	return "Harper"
}
