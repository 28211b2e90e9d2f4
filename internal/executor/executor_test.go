package executor

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const defineDouble = `
func Double(x int) int {
	return x * 2
}
`

const callDouble = `
import "fmt"

func main() {
	fmt.Println(Double(5))
}
`

func TestRunPass(t *testing.T) {
	e := New(DefaultTimeout)
	res := e.Run(context.Background(), defineDouble, callDouble)

	if res.Outcome != OutcomePass {
		t.Fatalf("expected pass, got %s (%s)", res.Outcome, res.ErrText)
	}
	if !strings.Contains(res.Output, "10") {
		t.Fatalf("expected output to contain 10, got %q", res.Output)
	}
	if res.RunID == "" {
		t.Fatal("expected a run id")
	}
}

func TestRunAliasedImportPasses(t *testing.T) {
	e := New(DefaultTimeout)
	res := e.Run(context.Background(), defineDouble, `
import f "fmt"

func main() {
	f.Println(Double(5))
}
`)

	if res.Outcome != OutcomePass {
		t.Fatalf("expected pass, got %s (%s)", res.Outcome, res.ErrText)
	}
	if !strings.Contains(res.Output, "10") {
		t.Fatalf("expected output to contain 10, got %q", res.Output)
	}
}

func TestRunConflictingAliasesIsInvalid(t *testing.T) {
	e := New(DefaultTimeout)
	res := e.Run(context.Background(), `
import s "strings"

func Shout(x string) string { return s.ToUpper(x) }
`, `
import (
	"fmt"
	str "strings"
)

func main() {
	fmt.Println(Shout(str.TrimSpace(" hi ")))
}
`)

	if res.Outcome != OutcomeInvalidSubmission {
		t.Fatalf("expected invalid submission, got %s", res.Outcome)
	}
	if !strings.Contains(res.ErrText, `"strings"`) {
		t.Fatalf("expected the conflicting path to be named, got %q", res.ErrText)
	}
}

func TestRunUndefinedNameIsFail(t *testing.T) {
	// The call half references a name the define half never provides. That
	// parses fine, so it is a Fail with captured error text, not invalid.
	e := New(DefaultTimeout)
	res := e.Run(context.Background(), defineDouble, `
import "fmt"

func main() {
	fmt.Println(Triple(5))
}
`)

	if res.Outcome != OutcomeFail {
		t.Fatalf("expected fail, got %s", res.Outcome)
	}
	if res.ErrText == "" {
		t.Fatal("expected captured error text")
	}
}

func TestRunSyntaxErrorIsInvalid(t *testing.T) {
	e := New(DefaultTimeout)
	res := e.Run(context.Background(), "func Broken( {", callDouble)

	if res.Outcome != OutcomeInvalidSubmission {
		t.Fatalf("expected invalid submission, got %s", res.Outcome)
	}
	if !strings.Contains(res.ErrText, "role A") {
		t.Fatalf("expected the offending role to be named, got %q", res.ErrText)
	}
}

func TestRunForbiddenImportIsInvalid(t *testing.T) {
	e := New(DefaultTimeout)
	res := e.Run(context.Background(), defineDouble, `
import (
	"fmt"
	"os"
)

func main() {
	fmt.Println(os.Getpid())
}
`)

	if res.Outcome != OutcomeInvalidSubmission {
		t.Fatalf("expected invalid submission, got %s", res.Outcome)
	}
	if !strings.Contains(res.ErrText, `"os"`) {
		t.Fatalf("expected the forbidden package to be named, got %q", res.ErrText)
	}
}

func TestRunTimeout(t *testing.T) {
	e := New(200 * time.Millisecond)
	start := time.Now()
	res := e.Run(context.Background(), defineDouble, `
func main() {
	for {
		Double(1)
	}
}
`)
	elapsed := time.Since(start)

	if res.Outcome != OutcomeTimeout {
		t.Fatalf("expected timeout, got %s (%s)", res.Outcome, res.ErrText)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("run was not terminated promptly: %v", elapsed)
	}
}

func TestRunEntryPointRequired(t *testing.T) {
	e := New(DefaultTimeout)

	res := e.Run(context.Background(), defineDouble, "func Triple(x int) int { return x * 3 }")
	if res.Outcome != OutcomeInvalidSubmission {
		t.Fatalf("expected invalid submission without main, got %s", res.Outcome)
	}

	res = e.Run(context.Background(), "func main() {}", "func main() {}")
	if res.Outcome != OutcomeInvalidSubmission {
		t.Fatalf("expected invalid submission with two mains, got %s", res.Outcome)
	}
}

func TestRunRuntimePanicIsFail(t *testing.T) {
	e := New(DefaultTimeout)
	res := e.Run(context.Background(), `
func Head(xs []int) int {
	return xs[0]
}
`, `
func main() {
	Head(nil)
}
`)

	if res.Outcome != OutcomeFail {
		t.Fatalf("expected fail for runtime panic, got %s (%q)", res.Outcome, res.ErrText)
	}
}
