package restyutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"steamcrawl/internal/components/telemetry"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL, Tel: &telemetry.Recorder{}})
	if err != nil {
		t.Fatal(err)
	}

	res, err := client.R().Get("/ok")
	if err != nil {
		t.Fatal(err)
	}
	require.NoError(t, CheckStatus(res))

	res, err = client.R().Get("/missing")
	if err != nil {
		t.Fatal(err)
	}
	err = CheckStatus(res)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	require.Equal(t, http.MethodGet, statusErr.Method)
	require.True(t, strings.HasSuffix(statusErr.URL, "/missing"))
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "store.steampowered.com"})
	require.Error(t, err)
}

func TestUserAgentAndTimeout(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("user-agent")
		if r.URL.Path == "/slow" {
			time.Sleep(500 * time.Millisecond)
		}
	}))
	defer srv.Close()

	tel := &telemetry.Recorder{}
	client, err := NewClient(Options{BaseURL: srv.URL, Timeout: 100 * time.Millisecond, Tel: tel})
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.R().Get("/")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, DefaultUserAgent, agent)

	_, err = client.R().Get("/slow")
	require.Error(t, err)
	// the caller owns the failure, the client only warns
	require.Len(t, tel.Warnings(), 1)
	require.Empty(t, tel.Broken())
}

func TestDumpResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "http")
	client, err := NewClient(Options{BaseURL: srv.URL, DumpDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.R().SetQueryParam("appids", "10").Get("/api/appdetails")
	if err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(filepath.Join(dir, "000001.txt"))
	if err != nil {
		t.Fatal(err)
	}
	require.Contains(t, string(contents), "GET ")
	require.Contains(t, string(contents), "appids=10")
	require.Contains(t, string(contents), `{"success":true}`)
}

func TestDumpRedactsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.URL.Query().Get("key"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "http")
	client, err := NewClient(Options{BaseURL: srv.URL, DumpDir: dir, RedactQuery: []string{"key"}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.R().
		SetQueryParams(map[string]string{"key": "secret", "last_appid": "0"}).
		Get("/IStoreService/GetAppList/v1")
	if err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(filepath.Join(dir, "000001.txt"))
	if err != nil {
		t.Fatal(err)
	}
	require.NotContains(t, string(contents), "secret")
	require.Contains(t, string(contents), "key=REDACTED")
	require.Contains(t, string(contents), "last_appid=0")
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL, RequestsPerSecond: 10})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for i := 0; i < 12; i++ {
		_, err = client.R().Get("/")
		if err != nil {
			t.Fatal(err)
		}
	}
	// 10 from the initial burst, the remaining 2 wait ~100ms each
	require.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
