package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethanbaker/refbot/internal/digest"
	storestats "github.com/ethanbaker/refbot/internal/stores/stats"
	"github.com/ethanbaker/refbot/pkg/conversation"
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/dispatch"
	"github.com/ethanbaker/refbot/pkg/stats"
	"github.com/ethanbaker/refbot/pkg/utils"
)

// EVENT_TIMEOUT bounds the handling of one Discord event, dispatch included
const EVENT_TIMEOUT = 2 * time.Minute

// Bot represents the Discord bot instance
type Bot struct {
	config *utils.Config      // Configuration struct
	dg     *discordgo.Session // Discord session

	machine      *conversation.Machine     // Conversation state machine shared by every user
	destinations *destination.Destinations // Configured destinations
	store        stats.StoreInterface      // Counter store
	digest       *digest.Digest            // Daily summary, nil when disabled

	// Important configuration values
	botChannelID string // Channel ID where the bot listens for messages
	guildID      string // Guild ID for slash commands (empty for global)
}

// Create a new Discord bot instance
func NewBot(cfg *utils.Config) (*Bot, error) {
	// Get discord token
	token := cfg.Get("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN not set in config or environment")
	}

	// Get important configuration values
	botChannelID := cfg.Get("BOT_CHANNEL_ID")
	if botChannelID == "" {
		return nil, fmt.Errorf("BOT_CHANNEL_ID not set in config or environment")
	}

	guildID := cfg.Get("GUILD_ID") // empty = global commands
	if guildID == "" {
		log.Println("[DISCORD]: GUILD_ID not set, using global commands")
	}

	// Load destinations and the counter store
	destinations, err := destination.Load(cfg.GetWithDefault("DESTINATIONS_FILE", "destinations.yaml"))
	if err != nil {
		return nil, err
	}

	store, err := storestats.FromConfig(cfg, destinations.Names())
	if err != nil {
		return nil, err
	}

	// Build the conversation machine
	loc := cfg.GetLocation("TZ_LOCATION")
	machine, err := conversation.NewMachine(conversation.Options{
		Destinations: destinations,
		Dispatcher:   dispatch.NewClient(cfg.GetDurationWithDefault("DISPATCH_TIMEOUT", dispatch.DefaultTimeout)),
		Store:        store,
		MenuDelay:    cfg.GetDurationWithDefault("MENU_DELAY", conversation.DefaultMenuDelay),
		Location:     loc,
	})
	if err != nil {
		return nil, err
	}

	// Create a new Discord session
	dg, err := discordgo.New("Bot " + strings.TrimPrefix(token, "Bot "))
	if err != nil {
		return nil, err
	}

	// Create the bot instance
	b := &Bot{
		config:       cfg,
		dg:           dg,
		machine:      machine,
		destinations: destinations,
		store:        store,
		botChannelID: botChannelID,
		guildID:      guildID,
	}

	// The daily summary is only posted when a channel is configured
	if channelID := cfg.Get("DIGEST_CHANNEL_ID"); channelID != "" {
		b.digest, err = digest.New(digest.Options{
			Store:        store,
			Destinations: destinations,
			Poster:       &channelPoster{dg: dg, channelID: channelID},
			Spec:         cfg.GetWithDefault("DIGEST_CRON", digest.DefaultSpec),
			Location:     loc,
		})
		if err != nil {
			return nil, err
		}
	}

	// Intents
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsDirectMessages

	// Handlers
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Start the bot and connect to Discord
func (b *Bot) Start() error {
	if err := b.dg.Open(); err != nil {
		return err
	}

	// Serve the stats API alongside the bot
	go b.startAPI()

	if b.digest != nil {
		b.digest.Start()
	}

	// Register slash commands
	return b.registerCommands()
}

// Stop the bot and clean up resources
func (b *Bot) Stop() error {
	if b.digest != nil {
		b.digest.Stop()
	}
	_ = b.unregisterCommands()
	return b.dg.Close()
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[DISCORD]: Logged in as: %s#%s", r.User.Username, r.User.Discriminator)
}

// onMessageCreate handles incoming messages
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from bots, the bot itself included
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	// Ignore empty messages
	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	// Only the configured bot channel and direct messages are handled
	if m.ChannelID != b.botChannelID && m.GuildID != "" {
		return
	}

	go b.handleText(m.ChannelID, m.Author, content)
}

// handleText feeds free text into the user's conversation
func (b *Bot) handleText(channelID string, user *discordgo.User, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), EVENT_TIMEOUT)
	defer cancel()

	b.machine.Text(ctx, user.ID, content, b.surface(channelID))
}

// surface returns the renderer for a channel
func (b *Bot) surface(channelID string) *channelSurface {
	return &channelSurface{dg: b.dg, channelID: channelID}
}
