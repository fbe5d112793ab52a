package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"steamcrawl/lib/restyutil"
	"strconv"
)

// Details fetches the store details of an app. It returns nil without an
// error when the store has no data for the app.
func (c *Client) Details(ctx context.Context, appID int64) (*AppDetails, error) {
	id := strconv.FormatInt(appID, 10)

	res, err := c.store.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appids": id,
			"cc":     c.country,
			"l":      c.language,
		}).
		Get("/api/appdetails")
	if err != nil {
		return nil, err
	}
	err = restyutil.CheckStatus(res)
	if err != nil {
		return nil, err
	}

	details, err := parseDetails(res.Body(), id)
	if err != nil {
		c.tel.ReportWarning(report_client_details, err, appID)
		return nil, err
	}
	return details, nil
}

func parseDetails(body []byte, id string) (*AppDetails, error) {
	// the store answers a literal null for ids it does not know
	var envelope map[string]*appDetailsEnvelope
	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	entry := envelope[id]
	if entry == nil || !entry.Success {
		return nil, nil
	}
	if len(entry.Data) == 0 || string(entry.Data) == "null" {
		return nil, nil
	}

	// unsuccessful lookups sometimes carry an empty array instead of an object
	if entry.Data[0] == '[' {
		return nil, nil
	}

	var details AppDetails
	err = json.Unmarshal(entry.Data, &details)
	if err != nil {
		return nil, fmt.Errorf("%w: app %s: %w", ErrMalformedResponse, id, err)
	}
	return &details, nil
}
