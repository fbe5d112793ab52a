package commands

import (
	"path/filepath"
	"steamcrawl/internal/scrapers/steamcharts"
	"steamcrawl/internal/scrapers/storefront"
)

func newStorefront(s state) (*storefront.Client, error) {
	return storefront.NewClient(storefront.Options{
		StoreBaseURL:      s.config.StoreBaseURL,
		APIBaseURL:        s.config.APIBaseURL,
		APIKey:            s.config.APIKey,
		Country:           s.config.Country,
		Language:          s.config.Language,
		Timeout:           s.config.Timeout(),
		RequestsPerSecond: s.config.RequestsPerSecond,
		DumpDir:           dumpDir(s, "storefront"),
	}, s.tel)
}

func newSteamcharts(s state) (*steamcharts.Client, error) {
	return steamcharts.NewClient(steamcharts.Options{
		BaseURL:           s.config.ChartsBaseURL,
		Timeout:           s.config.Timeout(),
		RequestsPerSecond: s.config.RequestsPerSecond,
		DumpDir:           dumpDir(s, "steamcharts"),
	}, s.clock, s.tel)
}

func dumpDir(s state, name string) string {
	if s.config.DumpHTTPDir == "" {
		return ""
	}
	return filepath.Join(s.config.DumpHTTPDir, name)
}
