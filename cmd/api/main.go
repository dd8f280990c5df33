package main

import (
	"log"

	"github.com/ethanbaker/refbot/internal/api"
	storestats "github.com/ethanbaker/refbot/internal/stores/stats"
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/utils"
)

// Start the stats API server on its own, reading the same counters as the bot
func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	destinations, err := destination.Load(cfg.GetWithDefault("DESTINATIONS_FILE", "destinations.yaml"))
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to load destinations: %v", err)
	}

	store, err := storestats.FromConfig(cfg, destinations.Names())
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to initialize stats store: %v", err)
	}

	// Start
	if err := api.Start(cfg, store, destinations); err != nil {
		log.Fatalf("[API-MAIN]: %v", err)
	}
}
