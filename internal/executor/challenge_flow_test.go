package executor

import (
	"context"
	"strings"
	"testing"

	"termdate/internal/store"
)

// TestChallengeFlow exercises the full loop: two users in a conversation
// submit complementary halves of a challenge and the executor runs the pair.
func TestChallengeFlow(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	alice, err := st.CreateUser(store.NewUserParams{Username: "alice", Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := st.CreateUser(store.NewUserParams{Username: "bob", Email: "b@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	conv, err := st.GetOrCreateConversation(alice, bob)
	if err != nil {
		t.Fatalf("open conversation: %v", err)
	}
	ch, err := st.AddChallenge("blind collaboration", "define Partner(x int) int", "call Partner(5) from main")
	if err != nil {
		t.Fatalf("add challenge: %v", err)
	}

	if err := st.SubmitAnswer(ch, conv, alice, store.RoleA, `
func Partner(x int) int {
	return x + 37
}
`); err != nil {
		t.Fatalf("alice submit: %v", err)
	}

	// One half only: not runnable yet.
	if _, _, err := st.GetAnswerPair(ch, conv); err == nil {
		t.Fatal("expected incomplete pair")
	}

	if err := st.SubmitAnswer(ch, conv, bob, store.RoleB, `
import "fmt"

func main() {
	fmt.Println(Partner(5))
}
`); err != nil {
		t.Fatalf("bob submit: %v", err)
	}

	ansA, ansB, err := st.GetAnswerPair(ch, conv)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}

	res := New(DefaultTimeout).Run(context.Background(), ansA.Code, ansB.Code)
	if res.Outcome != OutcomePass {
		t.Fatalf("expected pass, got %s (%s)", res.Outcome, res.ErrText)
	}
	if !strings.Contains(res.Output, "42") {
		t.Fatalf("expected 42 in output, got %q", res.Output)
	}
}

// TestChallengeFlowUndefinedReference mirrors a bad pairing: the caller names
// a function the definer never wrote. The executor reports Fail, not a crash.
func TestChallengeFlowUndefinedReference(t *testing.T) {
	res := New(DefaultTimeout).Run(context.Background(), `
func Partner(x int) int {
	return x
}
`, `
import "fmt"

func main() {
	fmt.Println(Patner(5))
}
`)
	if res.Outcome != OutcomeFail {
		t.Fatalf("expected fail, got %s", res.Outcome)
	}
	if res.ErrText == "" {
		t.Fatal("expected error text naming the missing symbol")
	}
}
