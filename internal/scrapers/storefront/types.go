package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt decodes a JSON number or a numeric string. Genre ids come back as
// strings while category ids are numbers.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("flex int %q: %w", s, err)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int64
	err := json.Unmarshal(data, &n)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// App is a single catalog entry.
type App struct {
	AppID int64  `json:"appid"`
	Name  string `json:"name"`
}

type appListResponse struct {
	Response struct {
		Apps            []App `json:"apps"`
		HaveMoreResults bool  `json:"have_more_results"`
		LastAppID       int64 `json:"last_appid"`
	} `json:"response"`
}

// Descriptor is a category or genre as listed in an app's details.
type Descriptor struct {
	ID          FlexInt `json:"id"`
	Description string  `json:"description"`
}

type PriceOverview struct {
	Currency string `json:"currency"`
	Initial  *int64 `json:"initial"`
	Final    *int64 `json:"final"`
}

type ReleaseDate struct {
	ComingSoon *bool  `json:"coming_soon"`
	Date       string `json:"date"`
}

type Recommendations struct {
	Total *int64 `json:"total"`
}

// AppDetails holds the subset of the appdetails payload that is kept.
// Absent fields stay nil.
type AppDetails struct {
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	IsFree          *bool            `json:"is_free"`
	Developers      []string         `json:"developers"`
	Publishers      []string         `json:"publishers"`
	PriceOverview   *PriceOverview   `json:"price_overview"`
	ReleaseDate     *ReleaseDate     `json:"release_date"`
	Recommendations *Recommendations `json:"recommendations"`
	Categories      []Descriptor     `json:"categories"`
	Genres          []Descriptor     `json:"genres"`
}

type appDetailsEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// ReviewSummary is the query_summary block of the appreviews endpoint.
type ReviewSummary struct {
	NumReviews      *int64 `json:"num_reviews"`
	ReviewScore     *int64 `json:"review_score"`
	ReviewScoreDesc string `json:"review_score_desc"`
	TotalPositive   *int64 `json:"total_positive"`
	TotalNegative   *int64 `json:"total_negative"`
	TotalReviews    *int64 `json:"total_reviews"`
}

type reviewsResponse struct {
	Success      int            `json:"success"`
	QuerySummary *ReviewSummary `json:"query_summary"`
}
