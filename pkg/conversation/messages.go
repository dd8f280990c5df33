package conversation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethanbaker/refbot/pkg/dispatch"
	"github.com/ethanbaker/refbot/pkg/stats"
)

// Main menu button labels
const (
	AddReferenceLabel = "🚀 Add Reference"
	ViewStatsLabel    = "📊 View Stats"
)

const (
	MsgPickDestination = "Please choose which website you want to send the reference to:"
	MsgSelectFirst     = "Please select a website first by clicking the '" + AddReferenceLabel + "' button."
	MsgInvalidFormat   = "❌ **Invalid Format**\nThe reference number must be exactly 9 digits. Please try again (e.g., `123456789`)."
	MsgProcessing      = "⏳ Processing, please wait..."
	MsgAnother         = "You can add another reference or view the stats."
	MsgUnknownTarget   = "That website is not available. Please choose again."

	statsHeader = "📊 **Reference Stats:**\n\n"
	statsEmpty  = "No references have been sent yet."
)

func welcomeMessage(displayName string) string {
	if displayName == "" {
		return "Hello! 👋\n\nUse the buttons below to navigate."
	}
	return fmt.Sprintf("Hello %s! 👋\n\nUse the buttons below to navigate.", displayName)
}

func targetSetMessage(name string) string {
	return fmt.Sprintf("✅ Target set to **%s**.\n\nNow, please send the 9-digit reference number.\n*(e.g., 123456789 or 123 456 789)*", name)
}

func successMessage(ref, name string, total, today int) string {
	return fmt.Sprintf(
		"✅ The reference **%s** has been successfully updated on **%s**.\n\n"+
			"🧾 Total references sent to this site: **%d**\n"+
			"📅 Total references today: **%d**",
		ref, name, total, today,
	)
}

// dispatchErrorMessage turns a dispatch failure into operator-facing text
func dispatchErrorMessage(name string, err error) string {
	var serverErr *dispatch.ServerError
	var connErr *dispatch.ConnectionError
	var unexpectedErr *dispatch.UnexpectedError

	switch {
	case errors.As(err, &serverErr):
		return fmt.Sprintf(
			"⚠️ **Server Error**\nThe server for '%s' responded with an error: `%d`.\nDetails: `%s`",
			name, serverErr.StatusCode, serverErr.Body,
		)
	case errors.As(err, &connErr):
		return fmt.Sprintf("❌ **Connection Failed**\nCould not connect to the server for '%s'. Please try again later.", name)
	case errors.As(err, &unexpectedErr):
		return fmt.Sprintf("❌ **An Unexpected Error Occurred**\nSomething went wrong. The error was: `%v`", unexpectedErr.Err)
	default:
		return fmt.Sprintf("❌ **An Unexpected Error Occurred**\nSomething went wrong. The error was: `%v`", err)
	}
}

// StatsReport renders the per-destination counts for the operator
func StatsReport(lines []stats.Line) string {
	if stats.AllZero(lines) {
		return statsHeader + statsEmpty
	}

	rows := make([]string, len(lines))
	for i, line := range lines {
		rows[i] = fmt.Sprintf("• **%s**: %d total, %d today", line.Name, line.Total, line.Today)
	}
	return statsHeader + strings.Join(rows, "\n")
}
