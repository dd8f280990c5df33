package main

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/ethanbaker/refbot/pkg/conversation"
)

// consoleSurface prints the conversation to a terminal
type consoleSurface struct {
	out    io.Writer
	mu     sync.Mutex
	nextID int
}

func newConsoleSurface(out io.Writer) *consoleSurface {
	return &consoleSurface{out: out}
}

func (s *consoleSurface) MainMenu(text string) error {
	_, err := fmt.Fprintf(s.out, "Bot: %s\n  [/add] %s  [/stats] %s\n", text, conversation.AddReferenceLabel, conversation.ViewStatsLabel)
	return err
}

func (s *consoleSurface) DestinationPicker(text string, names []string) error {
	if _, err := fmt.Fprintf(s.out, "Bot: %s\n", text); err != nil {
		return err
	}
	for i, name := range names {
		if _, err := fmt.Fprintf(s.out, "  [/pick %d] %s\n", i+1, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *consoleSurface) Send(text string) (string, error) {
	s.mu.Lock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.mu.Unlock()

	_, err := fmt.Fprintf(s.out, "Bot: %s\n", text)
	return id, err
}

// Edit cannot rewrite terminal output, so the new text is printed as an update
func (s *consoleSurface) Edit(messageID, text string) error {
	_, err := fmt.Fprintf(s.out, "Bot (update): %s\n", text)
	return err
}
