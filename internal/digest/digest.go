package digest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/stats"
	"github.com/robfig/cron/v3"
)

// DefaultSpec posts the summary shortly before midnight
const DefaultSpec = "55 23 * * *"

// Poster delivers a rendered summary somewhere an operator will read it
type Poster interface {
	Post(ctx context.Context, text string) error
}

// Options configures a Digest
type Options struct {
	Store        stats.StoreInterface
	Destinations *destination.Destinations
	Poster       Poster

	Spec     string           // Cron expression; empty uses DefaultSpec
	Location *time.Location   // Time zone for both the schedule and the counted day
	Now      func() time.Time // Clock, overridable in tests
}

// Digest posts the day's per-destination counts on a cron schedule
type Digest struct {
	store        stats.StoreInterface
	destinations *destination.Destinations
	poster       Poster

	loc *time.Location
	now func() time.Time

	// Scheduling
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New validates the options and schedules the digest. Call Start to begin running it
func New(opts Options) (*Digest, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("a valid store must be provided")
	}
	if opts.Destinations == nil {
		return nil, fmt.Errorf("destinations must be provided")
	}
	if opts.Poster == nil {
		return nil, fmt.Errorf("a poster must be provided")
	}

	spec := strings.TrimSpace(opts.Spec)
	if spec == "" {
		spec = DefaultSpec
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Digest{
		store:        opts.Store,
		destinations: opts.Destinations,
		poster:       opts.Poster,
		loc:          loc,
		now:          now,
		cron:         cron.New(cron.WithLocation(loc)),
		ctx:          ctx,
		cancel:       cancel,
	}

	if _, err := d.cron.AddFunc(spec, func() {
		if err := d.Run(d.ctx); err != nil {
			log.Printf("[DIGEST]: %v", err)
		}
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid digest schedule '%s': %w", spec, err)
	}

	return d, nil
}

// Start begins the schedule in the background
func (d *Digest) Start() {
	d.cron.Start()
}

// Stop halts the schedule and waits for a running post to finish
func (d *Digest) Stop() {
	d.cancel()
	<-d.cron.Stop().Done()
}

// Run renders today's counts and posts them once
func (d *Digest) Run(ctx context.Context) error {
	date := stats.Day(d.now(), d.loc)
	lines := stats.Summarize(d.store.Load(ctx), d.destinations.Names(), date)

	if err := d.poster.Post(ctx, Render(lines, date)); err != nil {
		return fmt.Errorf("failed to post summary for %s: %w", date, err)
	}

	log.Printf("[DIGEST]: Posted summary for %s", date)
	return nil
}

// Render formats the summary for one day
func Render(lines []stats.Line, date string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 **Daily summary for %s:**\n\n", date)

	sum := 0
	for _, line := range lines {
		sum += line.Today
	}

	if sum == 0 {
		sb.WriteString("No references were sent today.")
		return sb.String()
	}

	for _, line := range lines {
		fmt.Fprintf(&sb, "• **%s**: %d today, %d total\n", line.Name, line.Today, line.Total)
	}
	fmt.Fprintf(&sb, "\n**%d** references sent today.", sum)

	return sb.String()
}
