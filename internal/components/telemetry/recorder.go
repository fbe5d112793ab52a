package telemetry

import "sync"

// Report is a single call captured by Recorder.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory, it forwards to Inner
// when Inner is not nil.
type Recorder struct {
	Inner API

	mutex   sync.Mutex
	reports []Report
	counts  map[string]int64
}

func (r *Recorder) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
	if r.Inner != nil {
		r.Inner.ReportBroken(id, params...)
	}
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
	if r.Inner != nil {
		r.Inner.ReportWarning(id, params...)
	}
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
	if r.Inner != nil {
		r.Inner.ReportDebug(msg, params...)
	}
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.mutex.Lock()
	if r.counts == nil {
		r.counts = map[string]int64{}
	}
	r.counts[id] = count
	r.mutex.Unlock()

	r.record("count", id, []any{count})
	if r.Inner != nil {
		r.Inner.ReportCount(id, count)
	}
}

func (r *Recorder) ofKind(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, rep := range r.reports {
		if rep.Kind == kind {
			out = append(out, rep)
		}
	}
	return out
}

// Broken returns every ReportBroken call in the order they happened.
func (r *Recorder) Broken() []Report {
	return r.ofKind("broken")
}

// Warnings returns every ReportWarning call in the order they happened.
func (r *Recorder) Warnings() []Report {
	return r.ofKind("warning")
}

// Count returns the last reported value of a count.
func (r *Recorder) Count(id string) (int64, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	n, ok := r.counts[id]
	return n, ok
}
