package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/internal/components/telemetry"
	"steamcrawl/internal/ingest"
	"steamcrawl/internal/itemlist"
	"steamcrawl/internal/pipelines"
	"steamcrawl/internal/table"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(apiKeyEnv, "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "steamcrawl.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, "steam_game_list.csv", cfg.AppList)
	require.Equal(t, 1500*time.Millisecond, cfg.Pause())
	require.Equal(t, 30*time.Second, cfg.Timeout())
	require.Equal(t, "us", cfg.Country)
	require.Equal(t, "en", cfg.Language)
	require.Equal(t, "steam.db", cfg.Export.File)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steamcrawl.json5")
	err := os.WriteFile(path, []byte(`{
		data_dir: "/srv/steam",
		pause_seconds: 0,
		api_key: "from-file",
		period: "2024-05",
		export: { url: "libsql://steam.example.org", auth_token: "secret" },
	}`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv(apiKeyEnv, "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "/srv/steam", cfg.DataDir)
	require.Equal(t, time.Duration(0), cfg.Pause())
	require.Equal(t, "from-env", cfg.APIKey)
	require.Equal(t, "", cfg.Export.File)
	require.Equal(t, "2024-05", cfg.CurrentPeriod(chrono.FixedImpl{Time: time.Now()}))
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, contents := range []string{
		`{ period: "May 2024" }`,
		`{ pause_seconds: -1 }`,
		`{ requests_per_second: -2 }`,
	} {
		path := filepath.Join(t.TempDir(), "steamcrawl.json5")
		err := os.WriteFile(path, []byte(contents), 0644)
		if err != nil {
			t.Fatal(err)
		}
		_, err = LoadConfig(path)
		require.Error(t, err, contents)
	}
}

func TestCurrentPeriodFollowsClock(t *testing.T) {
	cfg := Config{}
	clock := chrono.FixedImpl{Time: time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC)}
	require.Equal(t, "2024-06", cfg.CurrentPeriod(clock))
}

func TestFormatIDs(t *testing.T) {
	require.Equal(t, "", formatIDs(nil, 3))
	require.Equal(t, "10, 20", formatIDs([]int64{10, 20}, 3))
	require.Equal(t, "10, 20, 30, +2 more", formatIDs([]int64{10, 20, 30, 40, 50}, 3))
}

func TestRenderSummaries(t *testing.T) {
	var out bytes.Buffer
	renderSummaries(&out, []ingest.Summary{
		{Pipeline: "details", Persisted: 1, NoData: 1, Failed: 1, FailedIDs: []int64{30}},
		{Pipeline: "reviews", Interrupted: true},
	})
	require.Contains(t, out.String(), "details")
	require.Contains(t, out.String(), "reviews (interrupted)")
	require.Contains(t, out.String(), "30")
}

func TestRunPipelines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/appdetails":
			w.Write([]byte(`{"10": {"success": true, "data": {"name": "Counter-Strike", "type": "game"}}, "20": {"success": false}}`))
		case "/appreviews/10":
			w.Write([]byte(`{"success": 1, "query_summary": {"num_reviews": 0, "review_score": 9, "total_positive": 2, "total_negative": 1, "total_reviews": 3}}`))
		case "/appreviews/20":
			w.Write([]byte(`{"success": 2}`))
		case "/IStoreService/GetAppList/v1/":
			json.NewEncoder(w).Encode(map[string]any{
				"response": map[string]any{
					"apps": []map[string]any{
						{"appid": 20, "name": "Team Fortress Classic"},
						{"appid": 10, "name": "Counter-Strike"},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	pause := 0.0
	s := state{
		config: Config{
			DataDir:      filepath.Join(dir, "data"),
			AppList:      filepath.Join(dir, "steam_game_list.csv"),
			PauseSeconds: &pause,
			APIKey:       "test-key",
			StoreBaseURL: srv.URL,
			APIBaseURL:   srv.URL,
			Country:      "us",
			Language:     "en",
		},
		clock: chrono.FixedImpl{Time: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)},
		tel:   &telemetry.Recorder{},
	}

	n, err := refreshAppList(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 2, n)
	ids, err := itemlist.Read(s.config.AppList)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []int64{10, 20}, ids)

	summaries, err := runPipelines(
		context.Background(),
		s,
		[]pipelines.Kind{pipelines.KindDetails, pipelines.KindReviews},
	)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, summaries, 2)
	for _, summary := range summaries {
		require.Equal(t, 1, summary.Persisted, summary.Pipeline)
		require.Equal(t, 1, summary.NoData, summary.Pipeline)
	}

	_, rows, err := table.ReadAll(filepath.Join(s.config.DataDir, "2024-05", pipelines.ReviewsTable))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, [][]string{{"10", "0", "9", "2", "1", "3"}}, rows)
}

func TestRunPipelinesMissingAppList(t *testing.T) {
	s := state{
		config: Config{DataDir: t.TempDir(), AppList: filepath.Join(t.TempDir(), "missing.csv")},
		clock:  chrono.FixedImpl{Time: time.Now()},
		tel:    &telemetry.Recorder{},
	}
	_, err := runPipelines(context.Background(), s, pipelines.Kinds)
	require.Error(t, err)
}
