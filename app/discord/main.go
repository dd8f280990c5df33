package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // Embed timezone database for TZ_LOCATION

	"github.com/ethanbaker/refbot/pkg/utils"
)

func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	// Wait for interrupt signal to gracefully shut down the bot
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Println("[DISCORD]: Starting bot...")

	// Create and start the bot
	bot, err := NewBot(cfg)
	if err != nil {
		log.Fatalf("[DISCORD]: failed to create bot: %v", err)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("[DISCORD]: failed to start bot: %v", err)
	}

	// Wait for shutdown signal
	log.Println("[DISCORD]: Bot is running. Press Ctrl+C to exit.")
	<-ctx.Done()

	// Cleanly stop the bot
	if err := bot.Stop(); err != nil {
		log.Printf("[DISCORD]: error during bot shutdown: %v", err)
	}

	log.Println("[DISCORD]: Bot stopped gracefully")
}
