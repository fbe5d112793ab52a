// Package restyutil builds the resty clients shared by the scrapers.
package restyutil

import (
	"fmt"
	"net/url"
	"steamcrawl/internal/components/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Options struct {
	BaseURL string
	// Timeout bounds each request, 0 means 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond limits the request rate, 0 means unlimited.
	RequestsPerSecond float64
	// Cloudflare wraps the transport so requests look like they come from a
	// browser.
	Cloudflare bool
	// DumpDir receives every request/response pair when not empty.
	DumpDir string
	// RedactQuery names query parameters, like api keys, kept out of dumps.
	RedactQuery []string
	Tel         telemetry.API
}

func NewClient(opts Options) (*resty.Client, error) {
	baseUrl, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", opts.BaseURL)
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	if opts.Cloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", DefaultUserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	if opts.RequestsPerSecond > 0 {
		// burst >= 1 so no request is ever rejected outright
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	if opts.Tel != nil {
		telemetry.InstrumentResty(client, opts.Tel)
	}
	if opts.DumpDir != "" {
		output, err := NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, err
		}
		DumpResponses(client, output, opts.RedactQuery...)
	}

	return client, nil
}
