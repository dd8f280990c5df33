package conversation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/dispatch"
	"github.com/ethanbaker/refbot/pkg/reference"
	"github.com/ethanbaker/refbot/pkg/stats"
)

// DefaultMenuDelay is the pause before the main menu is shown again after a dispatch
const DefaultMenuDelay = 1500 * time.Millisecond

// Surface renders the conversation for one incoming event
type Surface interface {
	// MainMenu shows text together with the add-reference and view-stats buttons
	MainMenu(text string) error

	// DestinationPicker shows text together with one choice per destination name
	DestinationPicker(text string, names []string) error

	// Send posts a plain message and returns an ID usable with Edit
	Send(text string) (string, error)

	// Edit replaces the text of a previously sent message
	Edit(messageID, text string) error
}

// Dispatcher forwards a reference to a destination
type Dispatcher interface {
	Dispatch(ctx context.Context, dest destination.Destination, reference string) (*dispatch.Ack, error)
}

// Options configures a Machine
type Options struct {
	Destinations *destination.Destinations
	Dispatcher   Dispatcher
	Store        stats.StoreInterface

	MenuDelay time.Duration    // Negative disables the pause; zero uses DefaultMenuDelay
	Location  *time.Location   // Time zone used for daily counts
	Now       func() time.Time // Clock, overridable in tests
}

// Machine routes operator events: picking a destination, submitting a reference and viewing stats
type Machine struct {
	destinations *destination.Destinations
	dispatcher   Dispatcher
	store        stats.StoreInterface
	sessions     *SessionStore

	menuDelay time.Duration
	loc       *time.Location
	now       func() time.Time
}

// NewMachine validates the options and creates a Machine
func NewMachine(opts Options) (*Machine, error) {
	if opts.Destinations == nil || opts.Destinations.Len() == 0 {
		return nil, fmt.Errorf("at least one destination must be configured")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("a dispatcher must be provided")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("a stats store must be provided")
	}

	m := &Machine{
		destinations: opts.Destinations,
		dispatcher:   opts.Dispatcher,
		store:        opts.Store,
		sessions:     NewSessionStore(),
		menuDelay:    opts.MenuDelay,
		loc:          opts.Location,
		now:          opts.Now,
	}

	if m.menuDelay == 0 {
		m.menuDelay = DefaultMenuDelay
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.now == nil {
		m.now = time.Now
	}

	return m, nil
}

// Destinations returns the configured destinations
func (m *Machine) Destinations() *destination.Destinations {
	return m.destinations
}

// Target returns the destination the user is currently sending to, or "" when idle
func (m *Machine) Target(userID string) string {
	sess := m.sessions.acquire(userID)
	defer sess.release()
	return sess.Target
}

// Start resets the user's session and greets them with the main menu
func (m *Machine) Start(userID, displayName string, s Surface) {
	sess := m.sessions.acquire(userID)
	defer sess.release()

	sess.Target = ""
	log.Printf("[CONVERSATION]: User %s (%s) started the bot", displayName, userID)

	m.mainMenu(s, welcomeMessage(displayName))
}

// ChooseDestination clears any previous selection and lists the destinations
func (m *Machine) ChooseDestination(userID string, s Surface) {
	sess := m.sessions.acquire(userID)
	defer sess.release()

	sess.Target = ""

	if err := s.DestinationPicker(MsgPickDestination, m.destinations.Names()); err != nil {
		log.Printf("[CONVERSATION]: Failed to show destinations to %s: %v", userID, err)
	}
}

// PickDestination selects the destination the next reference is sent to
func (m *Machine) PickDestination(userID, name string, s Surface) {
	sess := m.sessions.acquire(userID)
	defer sess.release()

	if _, ok := m.destinations.Get(name); !ok {
		log.Printf("[CONVERSATION]: User %s picked unknown destination '%s'", userID, name)
		m.send(s, MsgUnknownTarget)
		return
	}

	sess.Target = name
	log.Printf("[CONVERSATION]: User %s selected '%s'", userID, name)

	m.send(s, targetSetMessage(name))
}

// Text handles free text. While a destination is selected the text is treated as a reference
func (m *Machine) Text(ctx context.Context, userID, text string, s Surface) {
	sess := m.sessions.acquire(userID)
	defer sess.release()

	if sess.Target == "" {
		m.send(s, MsgSelectFirst)
		return
	}

	// Invalid input keeps the selection so the operator can retry
	ref, err := reference.Validate(text)
	if err != nil {
		m.send(s, MsgInvalidFormat)
		return
	}

	dest, _ := m.destinations.Get(sess.Target)
	log.Printf("[CONVERSATION]: Processing reference %s for '%s' from user %s", ref, dest.Name, userID)

	placeholder := m.send(s, MsgProcessing)
	result := m.dispatch(ctx, dest, ref)
	if placeholder == "" {
		m.send(s, result)
	} else if err := s.Edit(placeholder, result); err != nil {
		log.Printf("[CONVERSATION]: Failed to update message for %s: %v", userID, err)
		m.send(s, result)
	}

	// Every attempt ends back at idle
	sess.Target = ""
	m.pause(ctx)
	m.mainMenu(s, MsgAnother)
}

// Stats reports total and today's counts per destination. The session is not touched
func (m *Machine) Stats(ctx context.Context, s Surface) {
	m.send(s, m.Report(ctx))
}

// Report renders the current stats
func (m *Machine) Report(ctx context.Context) string {
	counters := m.store.Load(ctx)
	return StatsReport(stats.Summarize(counters, m.destinations.Names(), m.today()))
}

// dispatch sends the reference and, on success, records it. It returns the text to show
func (m *Machine) dispatch(ctx context.Context, dest destination.Destination, ref string) string {
	if _, err := m.dispatcher.Dispatch(ctx, dest, ref); err != nil {
		log.Printf("[CONVERSATION]: Reference %s for '%s' failed: %v", ref, dest.Name, err)
		return dispatchErrorMessage(dest.Name, err)
	}

	today := m.today()
	counters := stats.Record(m.store.Load(ctx), dest.Name, today)
	m.store.Save(ctx, counters)

	log.Printf("[CONVERSATION]: Successfully updated reference %s for '%s'", ref, dest.Name)

	entry := counters[dest.Name]
	return successMessage(ref, dest.Name, entry.Total, entry.Daily[today])
}

func (m *Machine) today() string {
	return stats.Day(m.now(), m.loc)
}

// pause waits out the menu delay unless the context ends first
func (m *Machine) pause(ctx context.Context) {
	if m.menuDelay <= 0 {
		return
	}

	timer := time.NewTimer(m.menuDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (m *Machine) mainMenu(s Surface, text string) {
	if err := s.MainMenu(text); err != nil {
		log.Printf("[CONVERSATION]: Failed to show main menu: %v", err)
	}
}

// send delivers text and returns the message ID, or "" when sending failed
func (m *Machine) send(s Surface, text string) string {
	id, err := s.Send(text)
	if err != nil {
		log.Printf("[CONVERSATION]: Failed to send message: %v", err)
		return ""
	}
	return id
}
