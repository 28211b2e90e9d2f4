package store

// builtinChallenges are the default two-part prompts. Part A defines, part B
// calls; the executor runs them concatenated A then B.
var builtinChallenges = []struct {
	description string
	partA       string
	partB       string
}{
	{
		description: "Blind function collaboration",
		partA:       "Define a function Partner(x int) int. Your match cannot see your code.",
		partB:       "Define func main() that calls Partner(5) and prints the result with fmt.Println.",
	},
	{
		description: "String reversal relay",
		partA:       "Define Reverse(s string) string that returns s reversed.",
		partB:       "Define func main() that prints Reverse(\"hello\").",
	},
	{
		description: "FizzBuzz split",
		partA:       "Define FizzBuzz(n int) string returning \"Fizz\", \"Buzz\", \"FizzBuzz\", or the number as text.",
		partB:       "Define func main() that prints FizzBuzz(i) for i from 1 to 15.",
	},
	{
		description: "Prime check handoff",
		partA:       "Define IsPrime(n int) bool.",
		partB:       "Define func main() that prints every prime below 30 using IsPrime.",
	},
}

// SeedChallenges loads the built-in challenge prompts. Existing challenges are
// left alone; seeding an already-seeded store adds nothing.
func (s *Store) SeedChallenges() (int, error) {
	s.mu.RLock()
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM challenges").Scan(&n)
	s.mu.RUnlock()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, c := range builtinChallenges {
		if _, err := s.AddChallenge(c.description, c.partA, c.partB); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
