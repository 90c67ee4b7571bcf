package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	ID   string
	Name string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create 4 dummy duelists to use in matches
	dummyPlayers := []seedPlayer{
		{ID: "seed-player-1", Name: "Seeder Duelist A"},
		{ID: "seed-player-2", Name: "Seeder Duelist B"},
		{ID: "seed-player-3", Name: "Seeder Duelist C"},
		{ID: "seed-player-4", Name: "Seeder Duelist D"},
	}

	for _, p := range dummyPlayers {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, player_name, handle, created_at) VALUES (?, ?, ?, ?)",
			p.ID, p.Name, strings.ToLower(strings.ReplaceAll(p.Name, " ", "-")), time.Now().Unix())
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*9) // 9 columns per match

	for i := 0; i < numMatches; i++ {
		matchDate := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		p1 := dummyPlayers[rand.Intn(len(dummyPlayers))]
		p2 := dummyPlayers[rand.Intn(len(dummyPlayers))]
		for p2.ID == p1.ID {
			p2 = dummyPlayers[rand.Intn(len(dummyPlayers))]
		}

		// Roughly even spread of wins, losses and draws.
		var winnerID any
		switch rand.Intn(3) {
		case 0:
			winnerID = p1.ID
		case 1:
			winnerID = p2.ID
		default:
			winnerID = nil
		}

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			p1.ID,
			p2.ID,
			winnerID,
			rand.Intn(20), // player1_kills
			rand.Intn(20), // player1_deaths
			rand.Intn(20), // player2_kills
			rand.Intn(20), // player2_deaths
			matchDate.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, player1_id, player2_id, winner_id,
					player1_kills, player1_deaths, player2_kills, player2_deaths, match_date)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*9)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	// A couple of upcoming duels so the reminder loop has work on a fresh
	// environment.
	for i := 1; i <= 2; i++ {
		_, err := db.Exec(
			"INSERT INTO duels (id, player1_id, player2_id, scheduled_time, created_at) VALUES (?, ?, ?, ?, ?)",
			uuid.NewString(),
			dummyPlayers[0].ID,
			dummyPlayers[i].ID,
			time.Now().Add(time.Duration(i)*24*time.Hour).Unix(),
			time.Now().Unix(),
		)
		if err != nil {
			log.Fatalf("Failed to insert dummy duel: %s", err)
		}
	}
	log.Info("Inserted upcoming dummy duels.")

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
