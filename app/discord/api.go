package main

import (
	"log"

	"github.com/ethanbaker/refbot/internal/api"
)

// startAPI starts the stats API server
func (b *Bot) startAPI() {
	if err := api.Start(b.config, b.store, b.destinations); err != nil {
		log.Printf("[DISCORD-API]: Stats API stopped: %v", err)
	}
}
