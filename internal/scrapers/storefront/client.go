// Package storefront talks to the Steam Web API and the store's JSON
// endpoints: the catalog listing, per-app details and review summaries.
package storefront

import (
	"errors"
	"path/filepath"
	"steamcrawl/internal/components/assert"
	"steamcrawl/internal/components/telemetry"
	"steamcrawl/lib/restyutil"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultStoreBaseURL = "https://store.steampowered.com"
	DefaultAPIBaseURL   = "https://api.steampowered.com"
)

const (
	report_client_fetch_app_list = "client.fetch-app-list"
	report_client_details        = "client.details"
	report_client_reviews        = "client.reviews"
)

// ErrMalformedResponse is wrapped by every error caused by a response body
// that could not be understood.
var ErrMalformedResponse = errors.New("malformed response")

type Options struct {
	StoreBaseURL string
	APIBaseURL   string
	APIKey       string
	// Country and Language select the storefront region, default "us" and "en".
	Country           string
	Language          string
	Timeout           time.Duration
	RequestsPerSecond float64
	// DumpDir receives the store and api exchanges in their own subdirectories.
	DumpDir string
}

type Client struct {
	store *resty.Client
	api   *resty.Client

	apiKey   string
	country  string
	language string

	tel telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("storefront", tel)

	if opts.StoreBaseURL == "" {
		opts.StoreBaseURL = DefaultStoreBaseURL
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = DefaultAPIBaseURL
	}
	if opts.Country == "" {
		opts.Country = "us"
	}
	if opts.Language == "" {
		opts.Language = "en"
	}

	store, err := restyutil.NewClient(restyutil.Options{
		BaseURL:           opts.StoreBaseURL,
		Timeout:           opts.Timeout,
		RequestsPerSecond: opts.RequestsPerSecond,
		DumpDir:           dumpSubdir(opts.DumpDir, "store"),
		Tel:               tel,
	})
	if err != nil {
		return nil, err
	}
	api, err := restyutil.NewClient(restyutil.Options{
		BaseURL:           opts.APIBaseURL,
		Timeout:           opts.Timeout,
		RequestsPerSecond: opts.RequestsPerSecond,
		DumpDir:           dumpSubdir(opts.DumpDir, "api"),
		RedactQuery:       []string{"key"},
		Tel:               tel,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		store:    store,
		api:      api,
		apiKey:   opts.APIKey,
		country:  opts.Country,
		language: opts.Language,
		tel:      tel,
	}, nil
}

func dumpSubdir(dir, name string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}
