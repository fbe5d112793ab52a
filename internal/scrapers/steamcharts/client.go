// Package steamcharts scrapes the monthly player counts published on
// steamcharts.com.
package steamcharts

import (
	"bytes"
	"context"
	"errors"
	"steamcrawl/internal/components/assert"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/internal/components/telemetry"
	"steamcrawl/lib/restyutil"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://steamcharts.com"

const (
	report_client_monthly_players = "client.monthly-players"
)

// ErrMalformedResponse is wrapped by every error caused by a page that does
// not have the expected structure.
var ErrMalformedResponse = errors.New("malformed response")

type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	DumpDir           string
}

type Client struct {
	http  *resty.Client
	clock chrono.API
	tel   telemetry.API
}

func NewClient(opts Options, clock chrono.API, tel telemetry.API) (*Client, error) {
	assert.NotNil(clock)
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("steamcharts", tel)

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	httpClient, err := restyutil.NewClient(restyutil.Options{
		BaseURL:           opts.BaseURL,
		Timeout:           opts.Timeout,
		RequestsPerSecond: opts.RequestsPerSecond,
		Cloudflare:        true,
		DumpDir:           opts.DumpDir,
		Tel:               tel,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		http:  httpClient,
		clock: clock,
		tel:   tel,
	}, nil
}

// MonthlyPlayers fetches the monthly player table of an app. An app page
// with an empty table yields no rows and no error.
func (c *Client) MonthlyPlayers(ctx context.Context, appID int64) ([]MonthRow, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("appid", strconv.FormatInt(appID, 10)).
		Get("/app/{appid}")
	if err != nil {
		return nil, err
	}
	err = restyutil.CheckStatus(res)
	if err != nil {
		return nil, err
	}

	rows, err := ParseMonthlyRows(bytes.NewBuffer(res.Body()), c.clock.Now())
	if err != nil {
		c.tel.ReportWarning(report_client_monthly_players, err, appID)
		return nil, err
	}
	return rows, nil
}
