package ingest

import (
	"fmt"
	"steamcrawl/internal/dimension"
	"steamcrawl/internal/table"
)

// Outcome is the terminal state of one item in a run.
type Outcome int

const (
	// OutcomeSkipped means the item was already in the ledger.
	OutcomeSkipped Outcome = iota
	// OutcomePersisted means rows were written and the item was marked processed.
	OutcomePersisted
	// OutcomeNoData means the upstream had nothing for the item, it was
	// marked processed without writing rows.
	OutcomeNoData
	// OutcomeFailed means fetching, parsing or writing failed, the item stays
	// pending and is retried on the next run.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomePersisted:
		return "persisted"
	case OutcomeNoData:
		return "no-data"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Batch is the parsed form of one item.
type Batch struct {
	// Rows for the primary table, an empty list means the item has no data.
	Rows []table.Row
	// Dimensions maps a dimension store's name to the entries the item
	// references, in the order the upstream listed them.
	Dimensions map[string][]dimension.Entry
}

// Result is what happened to a single item.
type Result struct {
	ItemID  int64
	Outcome Outcome
	// Rows is the number of primary rows written.
	Rows int
	Err  error
}

// Summary counts the outcomes of a run.
type Summary struct {
	Pipeline  string
	Persisted int
	NoData    int
	Failed    int
	Skipped   int
	// FailedIDs lists the items left pending, in the order they failed.
	FailedIDs []int64
	// Interrupted is set when the context was cancelled before the list was
	// exhausted.
	Interrupted bool
}

// Processed is the number of items newly marked in the ledger this run.
func (s Summary) Processed() int {
	return s.Persisted + s.NoData
}

func (s *Summary) add(r Result) {
	switch r.Outcome {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomePersisted:
		s.Persisted++
	case OutcomeNoData:
		s.NoData++
	case OutcomeFailed:
		s.Failed++
		s.FailedIDs = append(s.FailedIDs, r.ItemID)
	}
}
