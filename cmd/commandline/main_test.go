package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	storestats "github.com/ethanbaker/refbot/internal/stores/stats"
	"github.com/ethanbaker/refbot/pkg/conversation"
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T, handler http.HandlerFunc) *conversation.Machine {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dests, err := destination.New([]destination.Destination{
		{Name: "EDP Comercial", URL: server.URL + "/edp", Key: "k1"},
		{Name: "Finanças Pagamento", URL: server.URL + "/fin", Key: "k2"},
	})
	require.NoError(t, err)

	machine, err := conversation.NewMachine(conversation.Options{
		Destinations: dests,
		Dispatcher:   dispatch.NewClient(0),
		Store:        storestats.NewInMemoryStore(dests.Names()),
		MenuDelay:    -1,
	})
	require.NoError(t, err)
	return machine
}

func TestInteractiveSessionSendsReference(t *testing.T) {
	var got string
	machine := newTestMachine(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path + "?" + r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	})

	in := strings.NewReader("/start\n/add\n/pick 1\n123 456 789\n/stats\nexit\n")
	var out bytes.Buffer

	require.NoError(t, startInteractiveSession(context.Background(), machine, in, &out))

	assert.Equal(t, "/edp?invoice=123456789&key=k1", got)
	assert.Contains(t, out.String(), "[/pick 2] Finanças Pagamento")
	assert.Contains(t, out.String(), "Target set to **EDP Comercial**")
	assert.Contains(t, out.String(), "Bot (update): ✅ The reference **123456789** has been successfully updated on **EDP Comercial**.")
	assert.Contains(t, out.String(), "• **EDP Comercial**: 1 total, 1 today")
}

func TestInteractiveSessionTextWithoutTarget(t *testing.T) {
	machine := newTestMachine(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected dispatch to %s", r.URL)
	})

	in := strings.NewReader("123456789\n")
	var out bytes.Buffer

	require.NoError(t, startInteractiveSession(context.Background(), machine, in, &out))

	assert.Contains(t, out.String(), conversation.MsgSelectFirst)
}

func TestResolvePick(t *testing.T) {
	dests, err := destination.New([]destination.Destination{
		{Name: "EDP Comercial", URL: "https://edp.example.com", Key: "k1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "EDP Comercial", resolvePick(dests, "1"))
	assert.Equal(t, "EDP Comercial", resolvePick(dests, "EDP Comercial"))
	assert.Equal(t, "7", resolvePick(dests, "7"))
}
