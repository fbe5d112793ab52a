// Package ingest drives the per-item loop shared by every pipeline: skip
// items already in the ledger, collect the rest one at a time, persist their
// rows and dimension values, then mark them processed.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/internal/components/telemetry"
	"steamcrawl/internal/dimension"
	"steamcrawl/internal/ledger"
	"steamcrawl/internal/table"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_driver_item   = "driver.item"
	report_driver_run    = "driver.run"
	report_count_persist = "persisted"
	report_count_no_data = "no-data"
	report_count_failed  = "failed"
	report_count_skipped = "skipped"
)

var tracer = otel.Tracer("steamcrawl.ingest")
var meter = otel.Meter("steamcrawl.ingest")
var itemCounter, _ = meter.Int64Counter(
	"ingest.items",
	metric.WithDescription("items handled by the ingestion driver, by outcome"),
)

// DefaultPause is the delay between two attempted items.
const DefaultPause = 1500 * time.Millisecond

// Collector fetches and parses a single item. A nil batch with a nil error
// means the upstream has no data for the item.
type Collector interface {
	Collect(ctx context.Context, id int64) (*Batch, error)
}

// CollectorFunc adapts a function to Collector.
type CollectorFunc func(ctx context.Context, id int64) (*Batch, error)

func (f CollectorFunc) Collect(ctx context.Context, id int64) (*Batch, error) {
	return f(ctx, id)
}

// Dimension binds a dimension store to the tables it is persisted in.
type Dimension struct {
	Store  *dimension.Store
	Layout dimension.Layout
	// Table receives entries the store has not seen before.
	Table *table.Sink
	// Links receives one (item id, dimension id) row per referenced value.
	Links *table.Sink
}

// Config is everything a Driver needs for one pipeline run.
type Config struct {
	// Pipeline names the pipeline in logs and summaries.
	Pipeline   string
	Collector  Collector
	Ledger     *ledger.Ledger
	Primary    *table.Sink
	Dimensions []Dimension
	// Pause is waited after every attempted item except the last one.
	Pause time.Duration
	Tel   telemetry.API
}

// Driver runs the sequential ingestion loop. It is not safe for concurrent use.
type Driver struct {
	cfg Config
	tel telemetry.API
}

func New(cfg Config) (*Driver, error) {
	if cfg.Collector == nil {
		return nil, errors.New("ingest: collector is required")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("ingest: ledger is required")
	}
	if cfg.Primary == nil {
		return nil, errors.New("ingest: primary table is required")
	}
	for _, d := range cfg.Dimensions {
		if d.Store == nil || d.Table == nil || d.Links == nil {
			return nil, fmt.Errorf("ingest: dimension %q is incomplete", d.Layout.FileName)
		}
	}
	if cfg.Tel == nil {
		cfg.Tel = telemetry.SlogAPI{}
	}
	return &Driver{
		cfg: cfg,
		tel: telemetry.NewScopedAPI(cfg.Pipeline, cfg.Tel),
	}, nil
}

// Run processes ids in order. Per-item failures are reported and counted but
// never stop the run, only a cancelled context does.
func (d *Driver) Run(ctx context.Context, ids []int64) Summary {
	summary := Summary{Pipeline: d.cfg.Pipeline}

	for i, id := range ids {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		res := d.Process(ctx, id)
		summary.add(res)
		if res.Outcome == OutcomeSkipped || i == len(ids)-1 {
			continue
		}

		err := chrono.Sleep(ctx, d.cfg.Pause)
		if err != nil {
			summary.Interrupted = true
			break
		}
	}

	if summary.Interrupted {
		d.tel.ReportWarning(report_driver_run, "interrupted", ctx.Err())
	}
	d.tel.ReportCount(report_count_persist, int64(summary.Persisted))
	d.tel.ReportCount(report_count_no_data, int64(summary.NoData))
	d.tel.ReportCount(report_count_failed, int64(summary.Failed))
	d.tel.ReportCount(report_count_skipped, int64(summary.Skipped))

	return summary
}

// Process takes a single item from pending to processed. Any error or panic
// is captured in the result and leaves the item pending.
func (d *Driver) Process(ctx context.Context, id int64) (res Result) {
	res = Result{ItemID: id}
	if d.cfg.Ledger.Contains(id) {
		res.Outcome = OutcomeSkipped
		return res
	}

	ctx, span := tracer.Start(ctx, "ingest.item")
	defer span.End()
	span.SetAttributes(
		attribute.String("pipeline", d.cfg.Pipeline),
		attribute.Int64("item_id", id),
	)

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = OutcomeFailed
			res.Err = fmt.Errorf("panic: %v", r)
		}
		if res.Outcome == OutcomeFailed {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			d.tel.ReportBroken(report_driver_item, res.Err, id)
		}
		span.SetAttributes(attribute.String("outcome", res.Outcome.String()))
		itemCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("pipeline", d.cfg.Pipeline),
			attribute.String("outcome", res.Outcome.String()),
		))
	}()

	batch, err := d.cfg.Collector.Collect(ctx, id)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("collect %d: %w", id, err)
		return res
	}

	if batch == nil || len(batch.Rows) == 0 {
		err = d.cfg.Ledger.MarkProcessed(id)
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			return res
		}
		d.tel.ReportDebug("no data", id)
		res.Outcome = OutcomeNoData
		return res
	}

	err = d.persist(id, batch)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("persist %d: %w", id, err)
		return res
	}
	err = d.cfg.Ledger.MarkProcessed(id)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	d.tel.ReportDebug("persisted", id, len(batch.Rows))
	res.Outcome = OutcomePersisted
	res.Rows = len(batch.Rows)
	return res
}

func (d *Driver) persist(id int64, batch *Batch) error {
	err := d.cfg.Primary.AppendRows(batch.Rows)
	if err != nil {
		return err
	}

	for _, dim := range d.cfg.Dimensions {
		observed := batch.Dimensions[dim.Store.Name()]
		added, links := dim.Store.Plan(id, observed)

		if len(added) > 0 {
			records := make([][]string, len(added))
			for i, e := range added {
				records[i] = dim.Layout.Record(e)
			}
			err := dim.Table.AppendRecords(records)
			if err != nil {
				return err
			}
			dim.Store.Commit(added)
		}

		if len(links) > 0 {
			records := make([][]string, len(links))
			for i, l := range links {
				records[i] = []string{
					strconv.FormatInt(l.ItemID, 10),
					strconv.FormatInt(l.DimensionID, 10),
				}
			}
			err := dim.Links.AppendRecords(records)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
