package pipelines

import (
	"context"
	"steamcrawl/internal/dimension"
	"steamcrawl/internal/ingest"
	"steamcrawl/internal/scrapers/steamcharts"
	"steamcrawl/internal/scrapers/storefront"
	"steamcrawl/internal/table"
	"strconv"
	"strings"
)

type DetailsSource interface {
	Details(ctx context.Context, appID int64) (*storefront.AppDetails, error)
}

type ReviewsSource interface {
	Reviews(ctx context.Context, appID int64) (*storefront.ReviewSummary, error)
}

type PlayersSource interface {
	MonthlyPlayers(ctx context.Context, appID int64) ([]steamcharts.MonthRow, error)
}

func DetailsCollector(src DetailsSource) ingest.Collector {
	return ingest.CollectorFunc(func(ctx context.Context, id int64) (*ingest.Batch, error) {
		details, err := src.Details(ctx, id)
		if err != nil {
			return nil, err
		}
		return detailsBatch(id, details), nil
	})
}

func ReviewsCollector(src ReviewsSource) ingest.Collector {
	return ingest.CollectorFunc(func(ctx context.Context, id int64) (*ingest.Batch, error) {
		summary, err := src.Reviews(ctx, id)
		if err != nil {
			return nil, err
		}
		return reviewsBatch(id, summary), nil
	})
}

func PlayersCollector(src PlayersSource) ingest.Collector {
	return ingest.CollectorFunc(func(ctx context.Context, id int64) (*ingest.Batch, error) {
		months, err := src.MonthlyPlayers(ctx, id)
		if err != nil {
			return nil, err
		}
		return playersBatch(id, months), nil
	})
}

func detailsBatch(appID int64, d *storefront.AppDetails) *ingest.Batch {
	if d == nil {
		return nil
	}

	row := table.Row{
		"appid":      strconv.FormatInt(appID, 10),
		"name":       d.Name,
		"type":       d.Type,
		"is_free":    table.FormatBool(d.IsFree),
		"developers": table.JoinList(d.Developers),
		"publishers": table.JoinList(d.Publishers),
	}
	if d.PriceOverview != nil {
		row["price"] = table.FormatInt(d.PriceOverview.Initial)
	}
	if d.Recommendations != nil {
		row["recommendations"] = table.FormatInt(d.Recommendations.Total)
	}
	if d.ReleaseDate != nil {
		row["release_date"] = d.ReleaseDate.Date
		row["coming_soon"] = table.FormatBool(d.ReleaseDate.ComingSoon)
	}

	return &ingest.Batch{
		Rows: []table.Row{row},
		Dimensions: map[string][]dimension.Entry{
			CategoriesStoreName: descriptorEntries(d.Categories),
			GenresStoreName:     descriptorEntries(d.Genres),
		},
	}
}

// descriptorEntries drops descriptors without an id or a description.
func descriptorEntries(descriptors []storefront.Descriptor) []dimension.Entry {
	var out []dimension.Entry
	for _, d := range descriptors {
		if d.ID == 0 || strings.TrimSpace(d.Description) == "" {
			continue
		}
		out = append(out, dimension.Entry{ID: int64(d.ID), Description: d.Description})
	}
	return out
}

func reviewsBatch(appID int64, s *storefront.ReviewSummary) *ingest.Batch {
	if s == nil {
		return nil
	}
	return &ingest.Batch{
		Rows: []table.Row{{
			"appid":          strconv.FormatInt(appID, 10),
			"num_reviews":    table.FormatInt(s.NumReviews),
			"review_score":   table.FormatInt(s.ReviewScore),
			"total_positive": table.FormatInt(s.TotalPositive),
			"total_negative": table.FormatInt(s.TotalNegative),
			"total_reviews":  table.FormatInt(s.TotalReviews),
		}},
	}
}

func playersBatch(appID int64, months []steamcharts.MonthRow) *ingest.Batch {
	if len(months) == 0 {
		return nil
	}
	id := strconv.FormatInt(appID, 10)
	rows := make([]table.Row, len(months))
	for i, m := range months {
		rows[i] = table.Row{
			"appid":        id,
			"month":        m.Month,
			"avg_players":  table.FormatFloat(m.AvgPlayers),
			"gain":         table.FormatFloat(m.Gain),
			"percent_gain": table.FormatFloat(m.PercentGain),
			"peak_players": table.FormatFloat(m.PeakPlayers),
		}
	}
	return &ingest.Batch{Rows: rows}
}
