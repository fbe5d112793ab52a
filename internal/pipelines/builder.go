package pipelines

import (
	"fmt"
	"path/filepath"
	"steamcrawl/internal/components/telemetry"
	"steamcrawl/internal/dimension"
	"steamcrawl/internal/ingest"
	"steamcrawl/internal/ledger"
	"steamcrawl/internal/table"
	"time"
)

// Env is what every pipeline of a run shares.
type Env struct {
	DataDir string
	Period  string
	Pause   time.Duration
	Tel     telemetry.API
}

func (e Env) Dir() string {
	return PeriodDir(e.DataDir, e.Period)
}

func (e Env) path(name string) string {
	return filepath.Join(e.Dir(), name)
}

func NewDetails(env Env, src DetailsSource) (*ingest.Driver, error) {
	var dims []ingest.Dimension
	for _, d := range []struct {
		store  string
		layout dimension.Layout
		links  string
	}{
		{store: CategoriesStoreName, layout: CategoriesLayout, links: AppCategoriesTable},
		{store: GenresStoreName, layout: GenresLayout, links: AppGenresTable},
	} {
		store := dimension.NewStore(d.store)
		err := dimension.SeedFromDataDir(store, env.DataDir, d.layout)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", d.store, err)
		}
		dims = append(dims, ingest.Dimension{
			Store:  store,
			Layout: d.layout,
			Table:  table.NewSink(env.path(d.layout.FileName), d.layout.Header()),
			Links:  table.NewSink(env.path(d.links), []string{"appid", d.layout.IDColumn}),
		})
	}
	return newDriver(env, KindDetails, DetailsCollector(src), DetailsTable, DetailsColumns, dims)
}

func NewReviews(env Env, src ReviewsSource) (*ingest.Driver, error) {
	return newDriver(env, KindReviews, ReviewsCollector(src), ReviewsTable, ReviewsColumns, nil)
}

func NewPlayers(env Env, src PlayersSource) (*ingest.Driver, error) {
	return newDriver(env, KindPlayers, PlayersCollector(src), PlayersTable, PlayersColumns, nil)
}

func newDriver(
	env Env,
	kind Kind,
	collector ingest.Collector,
	primary string,
	columns []string,
	dims []ingest.Dimension,
) (*ingest.Driver, error) {
	if env.DataDir == "" || env.Period == "" {
		return nil, fmt.Errorf("%s: data directory and period are required", kind)
	}

	l, err := ledger.Open(env.path(LedgerFile(kind)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	return ingest.New(ingest.Config{
		Pipeline:   string(kind),
		Collector:  collector,
		Ledger:     l,
		Primary:    table.NewSink(env.path(primary), columns),
		Dimensions: dims,
		Pause:      env.Pause,
		Tel:        env.Tel,
	})
}
