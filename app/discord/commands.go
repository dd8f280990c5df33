package main

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Slash command names
const (
	COMMAND_START = "start"
	COMMAND_STATS = "stats"
	COMMAND_ADD   = "add"
)

// onInteractionCreate handles interactions (slash commands and button presses)
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleApplicationCommand(i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i)
	}
}

// registerCommands registers the bot's slash commands with Discord
func (b *Bot) registerCommands() error {
	// Define commands
	commands := []*discordgo.ApplicationCommand{
		{Name: COMMAND_START, Description: "Show the main menu"},
		{Name: COMMAND_ADD, Description: "Send a reference to a destination"},
		{Name: COMMAND_STATS, Description: "Show how many references were sent"},
	}

	// Register commands
	guildID := b.guildID // empty = global commands
	for _, cmd := range commands {
		if _, err := b.dg.ApplicationCommandCreate(b.dg.State.User.ID, guildID, cmd); err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

// unregisterCommands removes the bot's slash commands from Discord
func (b *Bot) unregisterCommands() error {
	guildID := b.guildID
	cmds, err := b.dg.ApplicationCommands(b.dg.State.User.ID, guildID)
	if err != nil {
		return err
	}

	for _, c := range cmds {
		switch c.Name {
		case COMMAND_START, COMMAND_ADD, COMMAND_STATS:
			_ = b.dg.ApplicationCommandDelete(b.dg.State.User.ID, guildID, c.ID)
		}
	}

	return nil
}

// allowedChannel reports whether the bot operates in the interaction's channel
func (b *Bot) allowedChannel(i *discordgo.InteractionCreate) bool {
	return i.GuildID == "" || i.ChannelID == b.botChannelID
}

// handleApplicationCommand processes a slash command interaction
func (b *Bot) handleApplicationCommand(i *discordgo.InteractionCreate) {
	if i == nil {
		return
	}

	user := interactionUser(i)
	if user == nil {
		return
	}

	// Make sure this channel is the bot channel
	if !b.allowedChannel(i) {
		respondEphemeral(b.dg, i, fmt.Sprintf("Please use the <#%s> channel.", b.botChannelID))
		return
	}

	name := i.ApplicationCommandData().Name
	surface := b.surface(i.ChannelID)

	// Acknowledge, render into the channel, then drop the placeholder reply
	deferReply(b.dg, i, true)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), EVENT_TIMEOUT)
		defer cancel()
		defer deleteReply(b.dg, i)

		switch name {
		case COMMAND_START:
			b.machine.Start(user.ID, displayName(user), surface)
		case COMMAND_ADD:
			b.machine.ChooseDestination(user.ID, surface)
		case COMMAND_STATS:
			b.machine.Stats(ctx, surface)
		default:
			log.Printf("[DISCORD]: Unknown command '%s'", name)
		}
	}()
}

// handleComponent processes a button press
func (b *Bot) handleComponent(i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil || !b.allowedChannel(i) {
		return
	}

	customID := i.MessageComponentData().CustomID
	surface := b.surface(i.ChannelID)

	// Acknowledge the press; replies go to the channel
	deferUpdate(b.dg, i)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), EVENT_TIMEOUT)
		defer cancel()

		switch customID {
		case CUSTOM_ID_ADD:
			b.machine.ChooseDestination(user.ID, surface)
		case CUSTOM_ID_STATS:
			b.machine.Stats(ctx, surface)
		default:
			b.machine.PickDestination(user.ID, b.destinationName(customID), surface)
		}
	}()
}

// destinationName resolves a destination button to its name. Unknown buttons resolve to
// their raw custom ID, which the machine rejects
func (b *Bot) destinationName(customID string) string {
	if idx, ok := parseDestinationID(customID); ok {
		if dest, ok := b.destinations.At(idx); ok {
			return dest.Name
		}
	}
	return customID
}
