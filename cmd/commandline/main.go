package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	storestats "github.com/ethanbaker/refbot/internal/stores/stats"
	"github.com/ethanbaker/refbot/pkg/conversation"
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/dispatch"
	"github.com/ethanbaker/refbot/pkg/stats"
	"github.com/ethanbaker/refbot/pkg/utils"
)

// CONSOLE_USER is the session key used for the single console operator
const CONSOLE_USER = "commandline-user"

func main() {
	memory := flag.Bool("memory", false, "keep counters in memory instead of the configured store")
	flag.Parse()

	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	// Load destinations
	destinations, err := destination.Load(cfg.GetWithDefault("DESTINATIONS_FILE", "destinations.yaml"))
	if err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to load destinations: %v", err)
	}

	// Initialize the counter store
	var store stats.StoreInterface
	if *memory {
		store = storestats.NewInMemoryStore(destinations.Names())
	} else if store, err = storestats.FromConfig(cfg, destinations.Names()); err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to initialize stats store: %v", err)
	}

	// Create the conversation machine
	machine, err := conversation.NewMachine(conversation.Options{
		Destinations: destinations,
		Dispatcher:   dispatch.NewClient(cfg.GetDurationWithDefault("DISPATCH_TIMEOUT", dispatch.DefaultTimeout)),
		Store:        store,
		MenuDelay:    cfg.GetDurationWithDefault("MENU_DELAY", conversation.DefaultMenuDelay),
		Location:     cfg.GetLocation("TZ_LOCATION"),
	})
	if err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to initialize conversation: %v", err)
	}

	// Start interactive session
	ctx := context.Background()
	if err := startInteractiveSession(ctx, machine, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to run interactive session: %v", err)
	}
}

// startInteractiveSession reads operator input line by line and feeds it to the machine
func startInteractiveSession(ctx context.Context, machine *conversation.Machine, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Reference bot started. Commands: /start, /add, /stats, /pick <number|name>, exit.")

	surface := newConsoleSurface(out)
	user := os.Getenv("USER")
	if user == "" {
		user = "operator"
	}

	// Create scanner for reading user input
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		handleInput(ctx, machine, surface, user, input)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// handleInput routes one line of console input
func handleInput(ctx context.Context, machine *conversation.Machine, surface *consoleSurface, user, input string) {
	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "/start":
		machine.Start(CONSOLE_USER, user, surface)
	case "/add":
		machine.ChooseDestination(CONSOLE_USER, surface)
	case "/stats":
		machine.Stats(ctx, surface)
	case "/pick":
		machine.PickDestination(CONSOLE_USER, resolvePick(machine.Destinations(), arg), surface)
	default:
		machine.Text(ctx, CONSOLE_USER, input, surface)
	}
}

// resolvePick turns a 1-based number from the picker into a destination name. Anything else is taken as a name
func resolvePick(destinations *destination.Destinations, arg string) string {
	if n, err := strconv.Atoi(arg); err == nil {
		if dest, ok := destinations.At(n - 1); ok {
			return dest.Name
		}
	}
	return arg
}
