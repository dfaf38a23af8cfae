// Package report collects every error found during a conversion run so
// the CLI can fail once with the full list instead of stopping at the
// first bad row.
package report

import (
	"fmt"
	"io"
)

type Report struct {
	errs []error
}

func New() *Report {
	return &Report{}
}

func (r *Report) Add(err error) {
	if err == nil {
		return
	}
	r.errs = append(r.errs, err)
}

func (r *Report) HasErrors() bool {
	return len(r.errs) > 0
}

func (r *Report) Len() int {
	return len(r.errs)
}

func (r *Report) Errors() []error {
	return r.errs
}

// Render writes every collected error, one per line, in the order the
// pipeline found them.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "conversion failed with %d error(s):\n", len(r.errs))
	for _, err := range r.errs {
		fmt.Fprintf(w, "  - %s\n", err.Error())
	}
}
