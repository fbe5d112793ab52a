package steamcharts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/internal/components/telemetry"
	"steamcrawl/lib/restyutil"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const appPage = `<!DOCTYPE html>
<html>
<body>
<div id="app-heading"><h1 id="app-title">Counter-Strike</h1></div>
<table class="common-table">
  <thead>
    <tr><th>Month</th><th>Avg. Players</th><th>Gain</th><th>% Gain</th><th>Peak Players</th></tr>
  </thead>
  <tbody>
    <tr>
      <td class="month-cell left italic">Last 30 Days</td>
      <td class="right num-f italic">11,024.35</td>
      <td class="right num-p gainorloss italic">+532.10</td>
      <td class="right gainorloss italic">+5.07%</td>
      <td class="right num italic">17,522</td>
    </tr>
    <tr>
      <td class="month-cell left">
        April 2024
      </td>
      <td class="right num-f">10,492.25</td>
      <td class="right num-p gainorloss">-1,208.4</td>
      <td class="right gainorloss">-10.33%</td>
      <td class="right num">16,893</td>
    </tr>
    <tr><td colspan="5">ad</td></tr>
    <tr>
      <td class="month-cell left">July 2012</td>
      <td class="right num-f">19,733.59</td>
      <td class="right num-p gainorloss">-</td>
      <td class="right gainorloss">-</td>
      <td class="right num">30,193</td>
    </tr>
  </tbody>
</table>
</body>
</html>`

func f64(n float64) *float64 { return &n }

var may2024 = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

func TestParseMonthlyRows(t *testing.T) {
	rows, err := ParseMonthlyRows(strings.NewReader(appPage), may2024)
	if err != nil {
		t.Fatal(err)
	}

	expected := []MonthRow{
		{Month: "2024-05", AvgPlayers: f64(11024.35), Gain: f64(532.10), PercentGain: f64(5.07), PeakPlayers: f64(17522)},
		{Month: "2024-04", AvgPlayers: f64(10492.25), Gain: f64(-1208.4), PercentGain: f64(-10.33), PeakPlayers: f64(16893)},
		{Month: "2012-07", AvgPlayers: f64(19733.59), PeakPlayers: f64(30193)},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMonthlyRowsMalformed(t *testing.T) {
	testCases := []struct {
		name string
		page string
	}{
		{
			name: "missing table",
			page: `<html><body><p>No app</p></body></html>`,
		},
		{
			name: "unknown month",
			page: `<table class="common-table"><tbody>
				<tr><td>Someday</td><td>1</td><td>2</td><td>3</td><td>4</td></tr>
			</tbody></table>`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseMonthlyRows(strings.NewReader(test.page), may2024)
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestParseMonthlyRowsEmptyTable(t *testing.T) {
	rows, err := ParseMonthlyRows(strings.NewReader(
		`<table class="common-table"><thead><tr><th>Month</th></tr></thead><tbody></tbody></table>`,
	), may2024)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, rows)
}

func TestCleanNumber(t *testing.T) {
	testCases := []struct {
		text     string
		expected *float64
	}{
		{text: "1,234", expected: f64(1234)},
		{text: "+12.5", expected: f64(12.5)},
		{text: "-3.25%", expected: f64(-3.25)},
		{text: "-", expected: nil},
		{text: "", expected: nil},
		{text: "n/a", expected: nil},
		{text: "NaN", expected: nil},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CleanNumber(test.text), test.text)
	}
}

func TestMonthlyPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app/10":
			w.Write([]byte(appPage))
		case "/app/20":
			w.Write([]byte(`<html><body>Cloudflare</body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tel := &telemetry.Recorder{}
	client, err := NewClient(Options{BaseURL: srv.URL}, chrono.FixedImpl{Time: may2024}, tel)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := client.MonthlyPlayers(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rows, 3)
	require.Equal(t, "2024-05", rows[0].Month)

	_, err = client.MonthlyPlayers(context.Background(), 20)
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.Len(t, tel.Warnings(), 1)
	require.Empty(t, tel.Broken())

	_, err = client.MonthlyPlayers(context.Background(), 30)
	var statusErr *restyutil.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
