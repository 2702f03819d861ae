package observability

import (
	"sync"

	"github.com/oneconfig/oneconfig/pkg/schema"
)

// Aggregator combines the results of many validation runs into a single view.
type Aggregator struct {
	mu        sync.Mutex
	valid     int
	byKind    map[schema.ViolationKind]int
	documents []DocumentReport
}

// DocumentReport is the recorded outcome for one named document.
type DocumentReport struct {
	Name       string          `json:"name"`
	Valid      bool            `json:"valid"`
	Violations []schema.Record `json:"violations,omitempty"`
}

// Summary is a point-in-time snapshot of the aggregated outcomes.
type Summary struct {
	Total     int                          `json:"total"`
	Valid     int                          `json:"valid"`
	Invalid   int                          `json:"invalid"`
	ByKind    map[schema.ViolationKind]int `json:"by_kind,omitempty"`
	Documents []DocumentReport             `json:"documents"`
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		byKind: make(map[schema.ViolationKind]int),
	}
}

// Add records the outcome of validating one document. The name is whatever
// identifies the document to the caller, usually its file path.
func (a *Aggregator) Add(name string, res *schema.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if res.Valid() {
		a.valid++
	}
	for _, v := range res.Violations {
		a.byKind[v.Kind]++
	}
	a.documents = append(a.documents, DocumentReport{
		Name:       name,
		Valid:      res.Valid(),
		Violations: res.Records(),
	})
}

// Snapshot returns the aggregated outcomes recorded so far. Documents keep
// the order they were added in.
func (a *Aggregator) Snapshot() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{
		Total:     len(a.documents),
		Valid:     a.valid,
		Invalid:   len(a.documents) - a.valid,
		Documents: append([]DocumentReport(nil), a.documents...),
	}
	if len(a.byKind) > 0 {
		s.ByKind = make(map[schema.ViolationKind]int, len(a.byKind))
		for k, n := range a.byKind {
			s.ByKind[k] = n
		}
	}
	return s
}
