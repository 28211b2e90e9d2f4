package executor

import (
	"strings"
	"testing"
)

func TestCombineOrderAndImports(t *testing.T) {
	a, err := parseFragment("A", `
import "strings"

func Shout(s string) string {
	return strings.ToUpper(s)
}
`)
	if err != nil {
		t.Fatalf("parse A failed: %v", err)
	}
	b, err := parseFragment("B", `
import (
	"fmt"
	"strings"
)

func main() {
	fmt.Println(strings.TrimSpace(Shout(" hi ")))
}
`)
	if err != nil {
		t.Fatalf("parse B failed: %v", err)
	}

	program, err := combine(a, b)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}

	// Role A's code precedes role B's.
	if strings.Index(program, "func Shout") > strings.Index(program, "func main") {
		t.Fatal("role A must come before role B")
	}
	// Shared imports are deduplicated.
	if strings.Count(program, `"strings"`) != 1 {
		t.Fatalf("duplicate import in combined program:\n%s", program)
	}
}

func TestCombineKeepsImportAliases(t *testing.T) {
	a, err := parseFragment("A", "func Double(x int) int { return x * 2 }")
	if err != nil {
		t.Fatalf("parse A failed: %v", err)
	}
	b, err := parseFragment("B", `
import f "fmt"

func main() {
	f.Println(Double(5))
}
`)
	if err != nil {
		t.Fatalf("parse B failed: %v", err)
	}

	program, err := combine(a, b)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	if !strings.Contains(program, `f "fmt"`) {
		t.Fatalf("alias dropped from combined program:\n%s", program)
	}
}

func TestCombineRejectsConflictingAliases(t *testing.T) {
	a, err := parseFragment("A", `
import s "strings"

func Shout(x string) string { return s.ToUpper(x) }
`)
	if err != nil {
		t.Fatalf("parse A failed: %v", err)
	}
	b, err := parseFragment("B", `
import str "strings"

func main() {
	Shout(str.TrimSpace(" hi "))
}
`)
	if err != nil {
		t.Fatalf("parse B failed: %v", err)
	}

	if _, err := combine(a, b); err == nil || !strings.Contains(err.Error(), `"strings"`) {
		t.Fatalf("expected a conflicting-alias error naming the path, got %v", err)
	}
}

func TestCombineTreatsExplicitBaseNameAliasAsPlain(t *testing.T) {
	a, err := parseFragment("A", `
import fmt "fmt"

func Greet() { fmt.Println("hi") }
`)
	if err != nil {
		t.Fatalf("parse A failed: %v", err)
	}
	b, err := parseFragment("B", `
import "fmt"

func main() {
	Greet()
	fmt.Println("bye")
}
`)
	if err != nil {
		t.Fatalf("parse B failed: %v", err)
	}

	program, err := combine(a, b)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	if strings.Count(program, `"fmt"`) != 1 {
		t.Fatalf("redundant alias not collapsed:\n%s", program)
	}
}

func TestParseFragmentToleratesPackageClause(t *testing.T) {
	f, err := parseFragment("A", "package main\n\nfunc F() {}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if f.hasMain {
		t.Fatal("F is not main")
	}
}

func TestParseFragmentToleratesCommentBeforePackageClause(t *testing.T) {
	f, err := parseFragment("A", "// my half\npackage main\n\nfunc main() {}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !f.hasMain {
		t.Fatal("main not detected")
	}
}

func TestParseFragmentSyntaxError(t *testing.T) {
	if _, err := parseFragment("B", "func ("); err == nil {
		t.Fatal("expected parse error")
	}
}
