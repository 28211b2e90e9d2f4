// Package executor runs two participants' combined challenge submissions in a
// sandboxed interpreter. Submissions never execute in the host process's
// ambient authority: imports are whitelisted, stdout/stderr are captured, and
// a wall-clock timeout forcibly ends the run.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Outcome is the terminal result of one combined execution.
type Outcome string

const (
	// OutcomePass: the combined program ran to completion.
	OutcomePass Outcome = "pass"
	// OutcomeFail: the combined program parsed but failed at runtime.
	OutcomeFail Outcome = "fail"
	// OutcomeTimeout: execution exceeded the configured wall-clock bound.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeInvalidSubmission: a fragment failed to parse, used a forbidden
	// import, or the pair could not be combined. Never collapsed into Fail.
	OutcomeInvalidSubmission Outcome = "invalid_submission"
)

// Result reports one execution. Output and ErrText are the interpreted
// program's captured streams, distinct from combination-step errors which
// appear only on InvalidSubmission results.
type Result struct {
	RunID    string
	Outcome  Outcome
	Output   string
	ErrText  string
	Duration time.Duration
}

// Executor combines and runs challenge submissions.
type Executor struct {
	timeout time.Duration
	allowed map[string]bool
}

// DefaultTimeout bounds a single combined execution.
const DefaultTimeout = 5 * time.Second

// defaultAllowedImports is the stdlib whitelist for interpreted submissions.
// Everything with ambient filesystem, network, or process authority is absent.
var defaultAllowedImports = map[string]bool{
	"bytes":           true,
	"errors":          true,
	"fmt":             true,
	"math":            true,
	"math/rand":       true,
	"regexp":          true,
	"sort":            true,
	"strconv":         true,
	"strings":         true,
	"time":            true,
	"unicode":         true,
	"encoding/json":   true,
	"encoding/base64": true,
}

// New returns an Executor with the given timeout (DefaultTimeout if zero).
func New(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	allowed := make(map[string]bool, len(defaultAllowedImports))
	for pkg := range defaultAllowedImports {
		allowed[pkg] = true
	}
	return &Executor{timeout: timeout, allowed: allowed}
}

// Timeout returns the configured execution bound.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Run combines the role-A and role-B submissions and executes them as one
// program. The returned Result always has a terminal Outcome; Run never
// panics or hangs past the timeout.
func (e *Executor) Run(ctx context.Context, codeA, codeB string) Result {
	res := Result{RunID: uuid.NewString()}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	fragA, err := parseFragment("A", codeA)
	if err != nil {
		res.Outcome = OutcomeInvalidSubmission
		res.ErrText = err.Error()
		return res
	}
	fragB, err := parseFragment("B", codeB)
	if err != nil {
		res.Outcome = OutcomeInvalidSubmission
		res.ErrText = err.Error()
		return res
	}

	for _, frag := range []*fragment{fragA, fragB} {
		if pkg, ok := e.forbiddenImport(frag); !ok {
			res.Outcome = OutcomeInvalidSubmission
			res.ErrText = fmt.Sprintf("role %s imports forbidden package %q", frag.role, pkg)
			return res
		}
	}

	program, err := combine(fragA, fragB)
	if err != nil {
		res.Outcome = OutcomeInvalidSubmission
		res.ErrText = err.Error()
		return res
	}

	var stdout, stderr bytes.Buffer
	i := interp.New(interp.Options{Stdout: &stdout, Stderr: &stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		res.Outcome = OutcomeFail
		res.ErrText = fmt.Sprintf("failed to load interpreter stdlib: %v", err)
		return res
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	_, err = i.EvalWithContext(runCtx, program)
	res.Output = stdout.String()
	if err != nil {
		if runCtx.Err() != nil {
			res.Outcome = OutcomeTimeout
			res.ErrText = fmt.Sprintf("execution exceeded %s", e.timeout)
			return res
		}
		res.Outcome = OutcomeFail
		res.ErrText = err.Error()
		if stderr.Len() > 0 {
			res.ErrText += "\n" + stderr.String()
		}
		return res
	}

	res.Outcome = OutcomePass
	return res
}

// forbiddenImport returns the first import outside the whitelist, if any.
func (e *Executor) forbiddenImport(f *fragment) (string, bool) {
	for _, imp := range f.imports {
		if !e.allowed[imp.path] {
			return imp.path, false
		}
	}
	return "", true
}
