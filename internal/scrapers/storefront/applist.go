package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"steamcrawl/lib/restyutil"
	"strconv"
)

// AppListPageSize is the max_results sent with each catalog page request.
const AppListPageSize = 50000

// FetchAppList pages through IStoreService/GetAppList until the API reports
// there are no more results. onPage is called after every page with the
// number of apps collected so far, it may be nil.
func (c *Client) FetchAppList(ctx context.Context, onPage func(total int)) ([]App, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fetch app list: an api key is required")
	}

	var apps []App
	var lastAppID int64
	for {
		page, err := c.fetchAppListPage(ctx, lastAppID)
		if err != nil {
			c.tel.ReportBroken(report_client_fetch_app_list, err, lastAppID)
			return nil, fmt.Errorf("fetch app list after %d: %w", lastAppID, err)
		}
		if len(page.Response.Apps) == 0 {
			break
		}
		apps = append(apps, page.Response.Apps...)
		if onPage != nil {
			onPage(len(apps))
		}

		if !page.Response.HaveMoreResults {
			break
		}
		next := page.Response.LastAppID
		if next == 0 {
			next = page.Response.Apps[len(page.Response.Apps)-1].AppID
		}
		if next <= lastAppID {
			return nil, fmt.Errorf("fetch app list: %w: cursor did not advance past %d", ErrMalformedResponse, lastAppID)
		}
		lastAppID = next
	}

	return apps, nil
}

func (c *Client) fetchAppListPage(ctx context.Context, lastAppID int64) (appListResponse, error) {
	var out appListResponse

	res, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":              c.apiKey,
			"include_dlc":      "false",
			"include_software": "false",
			"include_videos":   "false",
			"include_hardware": "false",
			"last_appid":       strconv.FormatInt(lastAppID, 10),
			"max_results":      strconv.Itoa(AppListPageSize),
		}).
		Get("/IStoreService/GetAppList/v1/")
	if err != nil {
		return out, err
	}
	err = restyutil.CheckStatus(res)
	if err != nil {
		return out, err
	}

	err = json.Unmarshal(res.Body(), &out)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return out, nil
}
