package importer

import "fmt"

// RowError is the failure of one input row. Row is 1-based: a line number
// for CSV and JSON lines, the verse position for XML.
type RowError struct {
	Row int   `json:"row"`
	Err error `json:"-"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Result counts what an import stored and rejected. Invalid rows are
// failures, not fatal errors.
type Result struct {
	Kind    string     `json:"kind"`
	Path    string     `json:"path"`
	Version string     `json:"version,omitempty"`
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"-"`
}

func (r *Result) fail(row int, err error) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Row: row, Err: err})
}
