package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanbaker/refbot/pkg/sdk"
)

func TestRunPrintsStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats", r.URL.Path)
		assert.Equal(t, "2025-05-01", r.URL.Query().Get("date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"date":"2025-05-01","destinations":[{"name":"EDP Comercial","total":10,"today":2}]}}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), sdk.NewClient(server.URL), "2025-05-01", &out))

	assert.Contains(t, out.String(), "Stats for 2025-05-01")
	assert.Contains(t, out.String(), "EDP Comercial")
	assert.Contains(t, out.String(), "2 today")
	assert.Contains(t, out.String(), "10 total")
}

func TestRunServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	var out bytes.Buffer
	assert.Error(t, run(context.Background(), sdk.NewClient(server.URL), "nope", &out))
}

func TestHealthCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":200,"message":"OK","data":{"destinations":2}}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"health", "--url", server.URL})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "OK\n", out.String())
}

func TestShowCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-04-30", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"date":"2025-04-30","destinations":[]}}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"show", "--url", server.URL, "--date", "2025-04-30"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Stats for 2025-04-30\n", out.String())
}
