package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call made to a Recorder.
type Report struct {
	// Kind is one of "broken", "warning", "debug" or "count".
	Kind   string
	Id     string
	Params []any
}

// Recorder implements API by keeping every report in memory, it is meant for asserting
// on telemetry in tests.
type Recorder struct {
	lock    sync.Mutex
	reports []Report
}

func (r *Recorder) record(kind, id string, params []any) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Reports returns a copy of the reports of a given kind, or every report if kind is empty.
func (r *Recorder) Reports(kind string) []Report {
	r.lock.Lock()
	defer r.lock.Unlock()

	var out []Report
	for _, report := range r.reports {
		if kind == "" || report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Has returns true if a report of the given kind was made with an id ending in `idSuffix`.
// Matching on the suffix lets callers ignore ScopedAPI namespaces.
func (r *Recorder) Has(kind, idSuffix string) bool {
	for _, report := range r.Reports(kind) {
		if strings.HasSuffix(report.Id, idSuffix) {
			return true
		}
	}
	return false
}
