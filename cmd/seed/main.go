// Command seed loads curated destinations from a JSON file into DynamoDB.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/travel-atlas/internal/config"
	"github.com/travel-atlas/internal/domain"
	"github.com/travel-atlas/internal/infrastructure/dynamo"
	"github.com/travel-atlas/internal/pkg/id"
)

func main() {
	path := flag.String("file", "data/destinations.json", "destinations JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open %s: %v", *path, err)
	}
	defer f.Close()

	destinations, err := load(f, time.Now().UTC())
	if err != nil {
		log.Fatalf("load %s: %v", *path, err)
	}

	client := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), client, cfg.DynamoTables)
	repo := dynamo.NewDestinationRepo(client, cfg.DynamoTables.Destinations)

	for i := range destinations {
		if err := repo.Put(context.Background(), &destinations[i]); err != nil {
			log.Fatalf("put %s: %v", destinations[i].Country, err)
		}
	}
	log.Printf("seeded %d destinations", len(destinations))
}

// load decodes destinations and stamps missing ids and timestamps.
func load(r io.Reader, now time.Time) ([]domain.Destination, error) {
	var out []domain.Destination
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	for i := range out {
		d := &out[i]
		if d.Country == "" {
			return nil, fmt.Errorf("entry %d: country required", i)
		}
		if d.Region != nil && *d.Region == "" {
			d.Region = nil
		}
		if d.DestinationID == "" {
			d.DestinationID = id.At(now)
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		d.UpdatedAt = now
	}
	return out, nil
}
