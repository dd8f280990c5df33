package main

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/ethanbaker/refbot/pkg/conversation"
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buttons flattens action rows into their buttons
func buttons(t *testing.T, rows []discordgo.MessageComponent) [][]discordgo.Button {
	t.Helper()

	var out [][]discordgo.Button
	for _, row := range rows {
		actions, ok := row.(discordgo.ActionsRow)
		require.True(t, ok)

		var line []discordgo.Button
		for _, c := range actions.Components {
			button, ok := c.(discordgo.Button)
			require.True(t, ok)
			line = append(line, button)
		}
		out = append(out, line)
	}
	return out
}

func TestMainMenuComponents(t *testing.T) {
	rows := buttons(t, mainMenuComponents())

	require.Len(t, rows, 1)
	require.Len(t, rows[0], 2)
	assert.Equal(t, conversation.AddReferenceLabel, rows[0][0].Label)
	assert.Equal(t, CUSTOM_ID_ADD, rows[0][0].CustomID)
	assert.Equal(t, conversation.ViewStatsLabel, rows[0][1].Label)
	assert.Equal(t, CUSTOM_ID_STATS, rows[0][1].CustomID)
}

func TestDestinationComponentsRows(t *testing.T) {
	names := make([]string, 7)
	for i := range names {
		names[i] = fmt.Sprintf("Destination %d", i)
	}

	rows := buttons(t, destinationComponents(names))

	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 5)
	assert.Len(t, rows[1], 2)
	assert.Equal(t, "Destination 6", rows[1][1].Label)
	assert.Equal(t, "dest:6", rows[1][1].CustomID)
}

func TestDestinationComponentsLimit(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = fmt.Sprintf("D%d", i)
	}

	rows := buttons(t, destinationComponents(names))

	assert.Len(t, rows, MAX_ROWS)
	for _, row := range rows {
		assert.Len(t, row, MAX_BUTTONS_PER_ROW)
	}
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "EDP Comercial", truncateLabel("EDP Comercial"))

	long := truncateLabel(strings.Repeat("é", 100))
	assert.Equal(t, MAX_LABEL_LENGTH, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestParseDestinationID(t *testing.T) {
	tests := []struct {
		input string
		index int
		ok    bool
	}{
		{"dest:0", 0, true},
		{"dest:12", 12, true},
		{"dest:-1", 0, false},
		{"dest:abc", 0, false},
		{"menu:add", 0, false},
		{"", 0, false},
	}

	for _, test := range tests {
		index, ok := parseDestinationID(test.input)
		assert.Equal(t, test.ok, ok, test.input)
		assert.Equal(t, test.index, index, test.input)
	}
}

func TestDestinationName(t *testing.T) {
	dests, err := destination.New([]destination.Destination{
		{Name: "EDP Comercial", URL: "https://edp.example.com/api", Key: "k1"},
		{Name: "Finanças Pagamento", URL: "https://fin.example.com/api", Key: "k2"},
	})
	require.NoError(t, err)
	b := &Bot{destinations: dests}

	assert.Equal(t, "Finanças Pagamento", b.destinationName("dest:1"))
	assert.Equal(t, "dest:9", b.destinationName("dest:9"))
	assert.Equal(t, "bogus", b.destinationName("bogus"))
}

func TestAllowedChannel(t *testing.T) {
	b := &Bot{botChannelID: "bot-channel"}

	interaction := func(guildID, channelID string) *discordgo.InteractionCreate {
		return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{GuildID: guildID, ChannelID: channelID}}
	}

	assert.True(t, b.allowedChannel(interaction("guild", "bot-channel")))
	assert.True(t, b.allowedChannel(interaction("", "dm-channel")))
	assert.False(t, b.allowedChannel(interaction("guild", "general")))
}
