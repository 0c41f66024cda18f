package labels

// Result status values.
const (
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
	StatusFailed         = "failed"
)

// Result accumulates what a run did. The executor owns it while running;
// callers only read it afterwards. It is not safe for concurrent use.
type Result struct {
	dryRun     bool
	created    int
	updated    int
	deleted    int
	renamed    int
	unchanged  int
	operations []Operation
	errors     []string
}

// NewResult returns an empty result.
func NewResult(dryRun bool) *Result {
	return &Result{dryRun: dryRun}
}

// AddOperation counts op and appends it to the operation log.
func (r *Result) AddOperation(op Operation) {
	switch op.Type {
	case OperationCreate:
		r.created++
	case OperationUpdate:
		r.updated++
	case OperationDelete:
		r.deleted++
	case OperationRename:
		r.renamed++
	case OperationNoChange:
		r.unchanged++
	}
	r.operations = append(r.operations, op)
}

// AddError appends msg to the error log.
func (r *Result) AddError(msg string) {
	r.errors = append(r.errors, msg)
}

func (r *Result) DryRun() bool   { return r.dryRun }
func (r *Result) Created() int   { return r.created }
func (r *Result) Updated() int   { return r.updated }
func (r *Result) Deleted() int   { return r.deleted }
func (r *Result) Renamed() int   { return r.renamed }
func (r *Result) Unchanged() int { return r.unchanged }

// Operations returns a copy of the operation log.
func (r *Result) Operations() []Operation {
	ops := make([]Operation, len(r.operations))
	copy(ops, r.operations)
	return ops
}

// Errors returns a copy of the error log.
func (r *Result) Errors() []string {
	errs := make([]string, len(r.errors))
	copy(errs, r.errors)
	return errs
}

// HasChanges reports whether any operation other than NoChange was processed.
func (r *Result) HasChanges() bool {
	return r.created+r.updated+r.deleted+r.renamed > 0
}

// HasErrors reports whether any operation failed.
func (r *Result) HasErrors() bool {
	return len(r.errors) > 0
}

// Total is the number of processed operations, NoChange included.
func (r *Result) Total() int {
	return r.created + r.updated + r.deleted + r.renamed + r.unchanged
}

// Status summarizes the run. A run with errors is a partial success when at
// least one operation was processed and a failure otherwise.
func (r *Result) Status() string {
	switch {
	case !r.HasErrors():
		return StatusSuccess
	case r.Total() > 0:
		return StatusPartialSuccess
	default:
		return StatusFailed
	}
}

// ExitCode maps Status to a process exit code.
func (r *Result) ExitCode() int {
	switch r.Status() {
	case StatusSuccess:
		return ExitSuccess
	case StatusPartialSuccess:
		return ExitPartialSuccess
	default:
		return ExitError
	}
}

// Summary holds the per-kind counters of a Result.
type Summary struct {
	Created    int  `json:"created"`
	Updated    int  `json:"updated"`
	Deleted    int  `json:"deleted"`
	Renamed    int  `json:"renamed"`
	Unchanged  int  `json:"unchanged"`
	Total      int  `json:"total"`
	HasChanges bool `json:"has_changes"`
}

// Output is the structured rendering of a Result.
type Output struct {
	Status     string      `json:"status"`
	ExitCode   int         `json:"exit_code"`
	DryRun     bool        `json:"dry_run"`
	Summary    Summary     `json:"summary"`
	Operations []Operation `json:"operations"`
	Errors     []string    `json:"errors"`
}

// Output builds the structured document for r.
func (r *Result) Output() Output {
	return Output{
		Status:   r.Status(),
		ExitCode: r.ExitCode(),
		DryRun:   r.dryRun,
		Summary: Summary{
			Created:    r.created,
			Updated:    r.updated,
			Deleted:    r.deleted,
			Renamed:    r.renamed,
			Unchanged:  r.unchanged,
			Total:      r.Total(),
			HasChanges: r.HasChanges(),
		},
		Operations: r.Operations(),
		Errors:     r.Errors(),
	}
}
