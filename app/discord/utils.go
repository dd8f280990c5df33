package main

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// respondEphemeral sends a response that is only visible to the user who invoked the command
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	})
}

// deferReply sends a deferred response to acknowledge the interaction
func deferReply(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
}

// deleteReply removes the deferred response once the real output has been posted to the channel
func deleteReply(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionResponseDelete(i.Interaction)
}

// deferUpdate acknowledges a button press without changing the message it belongs to
func deferUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// interactionUser returns who triggered an interaction, in a guild or a DM
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// displayName prefers the user's global display name over their username
func displayName(user *discordgo.User) string {
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// chunkString splits a long string into smaller chunks, ensuring no chunk exceeds the specified size
func chunkString(s string, size int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for len(s) > size {
		// Never cut through a multi-byte character
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}

		// Try to split on paragraph or line boundaries
		split := findSplit(s[:cut])
		out = append(out, strings.TrimSpace(s[:split]))
		s = s[split:]
	}
	if strings.TrimSpace(s) != "" {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

// splitRe is a regex to find natural split points in text
var splitRe = regexp.MustCompile(`(?s)(.*[\n\r])`)

// findSplit finds the index of a good split point in the string
func findSplit(s string) int {
	m := splitRe.FindStringSubmatchIndex(s)
	if len(m) >= 4 && m[3] > 0 {
		return m[3]
	}
	return len(s)
}
