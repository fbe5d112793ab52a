// Package pipelines binds the scrapers to the ingestion driver: one pipeline
// per upstream source, each with its own tables and ledger inside a period
// directory.
package pipelines

import (
	"fmt"
	"path/filepath"
	"steamcrawl/internal/dimension"
)

// Kind names a pipeline.
type Kind string

const (
	KindDetails Kind = "details"
	KindReviews Kind = "reviews"
	KindPlayers Kind = "players"
)

// Kinds lists every pipeline in the order `run` executes them.
var Kinds = []Kind{KindDetails, KindReviews, KindPlayers}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown pipeline %q", s)
}

const (
	DetailsTable        = "app_details.csv"
	ReviewsTable        = "app_reviews.csv"
	PlayersTable        = "app_players.csv"
	AppCategoriesTable  = "app_categories.csv"
	AppGenresTable      = "app_genres.csv"
	CategoriesStoreName = "categories"
	GenresStoreName     = "genres"
)

var (
	DetailsColumns = []string{
		"appid",
		"name",
		"type",
		"is_free",
		"coming_soon",
		"release_date",
		"price",
		"recommendations",
		"developers",
		"publishers",
	}
	ReviewsColumns = []string{
		"appid",
		"num_reviews",
		"review_score",
		"total_positive",
		"total_negative",
		"total_reviews",
	}
	PlayersColumns = []string{
		"appid",
		"month",
		"avg_players",
		"gain",
		"percent_gain",
		"peak_players",
	}
)

var (
	CategoriesLayout = dimension.Layout{
		FileName:   "categories.csv",
		IDColumn:   "category_id",
		DescColumn: "description",
	}
	GenresLayout = dimension.Layout{
		FileName:   "genres.csv",
		IDColumn:   "genre_id",
		DescColumn: "description",
	}
)

// PeriodDir is the directory holding every table and ledger of a period.
func PeriodDir(dataDir, period string) string {
	return filepath.Join(dataDir, period)
}

// LedgerFile is the name of a pipeline's ledger inside the period directory.
func LedgerFile(kind Kind) string {
	return fmt.Sprintf("processed_%s.txt", kind)
}
