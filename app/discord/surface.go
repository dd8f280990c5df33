package main

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ethanbaker/refbot/pkg/conversation"
)

// Custom IDs carried by the bot's buttons
const (
	CUSTOM_ID_ADD      = "menu:add"
	CUSTOM_ID_STATS    = "menu:stats"
	DESTINATION_PREFIX = "dest:"
)

// Discord component limits
const (
	MAX_BUTTONS_PER_ROW = 5
	MAX_ROWS            = 5
	MAX_LABEL_LENGTH    = 80
	MAX_MESSAGE_LENGTH  = 1900
)

// channelSurface renders the conversation into one Discord channel
type channelSurface struct {
	dg        *discordgo.Session
	channelID string
}

// MainMenu posts text with the add-reference and view-stats buttons
func (s *channelSurface) MainMenu(text string) error {
	_, err := s.dg.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
		Content:    text,
		Components: mainMenuComponents(),
	})
	return err
}

// DestinationPicker posts text with one button per destination
func (s *channelSurface) DestinationPicker(text string, names []string) error {
	_, err := s.dg.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
		Content:    text,
		Components: destinationComponents(names),
	})
	return err
}

// Send posts a plain message
func (s *channelSurface) Send(text string) (string, error) {
	msg, err := s.dg.ChannelMessageSend(s.channelID, text)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

// Edit replaces the content of a message the bot sent
func (s *channelSurface) Edit(messageID, text string) error {
	_, err := s.dg.ChannelMessageEdit(s.channelID, messageID, text)
	return err
}

var _ conversation.Surface = (*channelSurface)(nil)

// channelPoster posts the daily digest into a channel
type channelPoster struct {
	dg        *discordgo.Session
	channelID string
}

// Post sends text, split into chunks Discord accepts
func (p *channelPoster) Post(ctx context.Context, text string) error {
	for _, chunk := range chunkString(text, MAX_MESSAGE_LENGTH) {
		if _, err := p.dg.ChannelMessageSend(p.channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}

// mainMenuComponents builds the two main menu buttons
func mainMenuComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: conversation.AddReferenceLabel, Style: discordgo.PrimaryButton, CustomID: CUSTOM_ID_ADD},
			discordgo.Button{Label: conversation.ViewStatsLabel, Style: discordgo.SecondaryButton, CustomID: CUSTOM_ID_STATS},
		}},
	}
}

// destinationComponents lays out one button per destination, five to a row.
// Buttons carry the destination's index so long names never hit the custom ID limit
func destinationComponents(names []string) []discordgo.MessageComponent {
	if len(names) > MAX_BUTTONS_PER_ROW*MAX_ROWS {
		log.Printf("[DISCORD]: Only the first %d of %d destinations fit in one message", MAX_BUTTONS_PER_ROW*MAX_ROWS, len(names))
		names = names[:MAX_BUTTONS_PER_ROW*MAX_ROWS]
	}

	var rows []discordgo.MessageComponent
	for start := 0; start < len(names); start += MAX_BUTTONS_PER_ROW {
		end := min(start+MAX_BUTTONS_PER_ROW, len(names))

		buttons := make([]discordgo.MessageComponent, 0, end-start)
		for i := start; i < end; i++ {
			buttons = append(buttons, discordgo.Button{
				Label:    truncateLabel(names[i]),
				Style:    discordgo.PrimaryButton,
				CustomID: DESTINATION_PREFIX + strconv.Itoa(i),
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}

	return rows
}

// parseDestinationID extracts the destination index from a button's custom ID
func parseDestinationID(customID string) (int, bool) {
	raw, ok := strings.CutPrefix(customID, DESTINATION_PREFIX)
	if !ok {
		return 0, false
	}

	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// truncateLabel shortens a button label to what Discord accepts
func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= MAX_LABEL_LENGTH {
		return label
	}
	return string(runes[:MAX_LABEL_LENGTH-1]) + "…"
}
