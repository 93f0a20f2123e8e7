package keys

import (
	"errors"
	"fmt"

	"github.com/l10n-tools/bundle-helper/bundle"
	log "github.com/sirupsen/logrus"
)

// Failure is a step of a mutation that could not be applied to a file.
type Failure struct {
	File string
	Err  error
}

// Result reports a mutation spanning several files. Each file is changed
// as one unit; a failing file does not stop the others.
type Result struct {
	Name     string
	Applied  int
	Failures []Failure
}

// Err returns nil when every step succeeded.
func (r *Result) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.File, f.Err))
	}
	return fmt.Errorf("%s failed for %d of %d files: %w",
		r.Name, len(r.Failures), r.Applied+len(r.Failures), errors.Join(errs...))
}

// Failed reports whether any step failed.
func (r *Result) Failed() bool {
	return r != nil && len(r.Failures) > 0
}

type step struct {
	file bundle.ResourceFile
	run  func() error
}

type saga struct {
	name  string
	steps []step
}

func newSaga(format string, a ...interface{}) *saga {
	return &saga{name: fmt.Sprintf(format, a...)}
}

func (s *saga) add(f bundle.ResourceFile, run func() error) {
	s.steps = append(s.steps, step{file: f, run: run})
}

func (s *saga) run() *Result {
	res := &Result{Name: s.name}
	for _, st := range s.steps {
		if err := st.run(); err != nil {
			log.WithField("file", st.file.Path()).Errorf("%s: %s", s.name, err)
			res.Failures = append(res.Failures, Failure{File: st.file.Path(), Err: err})
			continue
		}
		res.Applied++
	}
	return res
}
