package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	storestats "github.com/ethanbaker/refbot/internal/stores/stats"
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	posts []string
	err   error
}

func (f *fakePoster) Post(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.posts = append(f.posts, text)
	return nil
}

func testDestinations(t *testing.T) *destination.Destinations {
	t.Helper()
	dests, err := destination.New([]destination.Destination{
		{Name: "EDP Comercial", URL: "https://edp.example.com/api", Key: "k1"},
		{Name: "Finanças Pagamento", URL: "https://fin.example.com/api", Key: "k2"},
	})
	require.NoError(t, err)
	return dests
}

func newTestDigest(t *testing.T, poster Poster) (*Digest, *storestats.InMemoryStore) {
	t.Helper()
	dests := testDestinations(t)
	store := storestats.NewInMemoryStore(dests.Names())

	d, err := New(Options{
		Store:        store,
		Destinations: dests,
		Poster:       poster,
		Location:     time.UTC,
		Now:          func() time.Time { return time.Date(2025, 5, 1, 23, 55, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	t.Cleanup(d.Stop)

	return d, store
}

func TestNewValidation(t *testing.T) {
	dests := testDestinations(t)
	store := storestats.NewInMemoryStore(dests.Names())
	poster := &fakePoster{}

	_, err := New(Options{Destinations: dests, Poster: poster})
	assert.Error(t, err)

	_, err = New(Options{Store: store, Poster: poster})
	assert.Error(t, err)

	_, err = New(Options{Store: store, Destinations: dests})
	assert.Error(t, err)

	_, err = New(Options{Store: store, Destinations: dests, Poster: poster, Spec: "not a schedule"})
	assert.Error(t, err)
}

func TestNewSchedulesOneJob(t *testing.T) {
	d, _ := newTestDigest(t, &fakePoster{})

	assert.Len(t, d.cron.Entries(), 1)
}

func TestRunPostsTodaysCounts(t *testing.T) {
	poster := &fakePoster{}
	d, store := newTestDigest(t, poster)

	ctx := context.Background()
	counters := stats.Record(store.Load(ctx), "EDP Comercial", "2025-05-01")
	counters = stats.Record(counters, "EDP Comercial", "2025-05-01")
	counters = stats.Record(counters, "Finanças Pagamento", "2025-04-30")
	store.Save(ctx, counters)

	require.NoError(t, d.Run(ctx))
	require.Len(t, poster.posts, 1)

	assert.Equal(t, "📅 **Daily summary for 2025-05-01:**\n\n"+
		"• **EDP Comercial**: 2 today, 2 total\n"+
		"• **Finanças Pagamento**: 0 today, 1 total\n"+
		"\n**2** references sent today.", poster.posts[0])
}

func TestRunQuietDay(t *testing.T) {
	poster := &fakePoster{}
	d, _ := newTestDigest(t, poster)

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, poster.posts, 1)

	assert.Equal(t, "📅 **Daily summary for 2025-05-01:**\n\nNo references were sent today.", poster.posts[0])
}

func TestRunPostFailure(t *testing.T) {
	boom := errors.New("boom")
	d, _ := newTestDigest(t, &fakePoster{err: boom})

	err := d.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}
