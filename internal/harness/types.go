package harness

// TraceEvent records one flow step and the Envelope it produced.
type TraceEvent struct {
	Seq    int    `json:"seq"`
	Op     string `json:"op"`
	Table  string `json:"table"`
	Query  string `json:"query,omitempty"` // select only
	Status string `json:"status"`          // "ok" or "error"
	Error  string `json:"error,omitempty"` // error kind
	Data   any    `json:"data"`
}

// Trace status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
