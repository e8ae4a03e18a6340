package main

import (
	"context"
	"fmt"
	"os"

	"skool-sync/pkg/database"
	"skool-sync/pkg/logger"

	"github.com/joho/godotenv"
)

const usage = "Usage: go run ./cmd/migrate [up|drop|reset]"

func main() {
	log, err := logger.New(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found")
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var steps [][]string
	switch command := os.Args[1]; command {
	case "up":
		steps = [][]string{database.MemberProfilesSchema}
	case "drop":
		steps = [][]string{database.DropMemberProfilesSchema}
	case "reset":
		steps = [][]string{database.DropMemberProfilesSchema, database.MemberProfilesSchema}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	for _, statements := range steps {
		if err := db.ApplySchema(ctx, statements); err != nil {
			log.WithError(err).Fatal("Migration failed")
		}
	}

	log.WithField("command", os.Args[1]).Info("member_profiles migration complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
