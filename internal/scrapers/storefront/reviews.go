package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"steamcrawl/lib/restyutil"
	"strconv"
)

// Reviews fetches the review summary of an app. It returns nil without an
// error when the store reports no summary for the app.
func (c *Client) Reviews(ctx context.Context, appID int64) (*ReviewSummary, error) {
	res, err := c.store.R().
		SetContext(ctx).
		SetPathParam("appid", strconv.FormatInt(appID, 10)).
		SetQueryParams(map[string]string{
			"json":         "1",
			"num_per_page": "0",
		}).
		Get("/appreviews/{appid}")
	if err != nil {
		return nil, err
	}
	err = restyutil.CheckStatus(res)
	if err != nil {
		return nil, err
	}

	summary, err := parseReviews(res.Body())
	if err != nil {
		c.tel.ReportWarning(report_client_reviews, err, appID)
		return nil, err
	}
	return summary, nil
}

func parseReviews(body []byte) (*ReviewSummary, error) {
	var out reviewsResponse
	err := json.Unmarshal(body, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if out.Success != 1 || out.QuerySummary == nil {
		return nil, nil
	}
	return out.QuerySummary, nil
}
