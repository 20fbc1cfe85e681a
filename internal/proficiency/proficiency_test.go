package proficiency

import "testing"

func TestForSkillThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  SkillLevel
	}{
		{100, Expert},
		{90, Expert},
		{89, Advanced},
		{75, Advanced},
		{74, Intermediate},
		{60, Intermediate},
		{59, Basic},
		{40, Basic},
		{39, Novice},
		{0, Novice},
	}

	for _, tc := range cases {
		if got := ForSkill(tc.score); got != tc.want {
			t.Fatalf("ForSkill(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestForLanguageThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  CEFRLevel
	}{
		{100, C2},
		{95, C2},
		{94, C1},
		{80, C1},
		{79, B2},
		{65, B2},
		{64, B1},
		{50, B1},
		{49, A2},
		{35, A2},
		{34, A1},
		{0, A1},
	}

	for _, tc := range cases {
		if got := ForLanguage(tc.score); got != tc.want {
			t.Fatalf("ForLanguage(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestClampsOutOfRange(t *testing.T) {
	if got := ForSkill(-10); got != Novice {
		t.Fatalf("expected Novice for negative score, got %s", got)
	}
	if got := ForSkill(250); got != Expert {
		t.Fatalf("expected Expert for oversized score, got %s", got)
	}
	if got := ForLanguage(-1); got != A1 {
		t.Fatalf("expected A1 for negative score, got %s", got)
	}
	if got := ForLanguage(101); got != C2 {
		t.Fatalf("expected C2 for oversized score, got %s", got)
	}
}

// The ladder must be total and monotonic over the whole closed range.
func TestForSkillMonotonic(t *testing.T) {
	rank := map[SkillLevel]int{Novice: 0, Basic: 1, Intermediate: 2, Advanced: 3, Expert: 4}

	prev := Novice
	for s := 0; s <= 100; s++ {
		cur := ForSkill(float64(s))
		if rank[cur] < rank[prev] {
			t.Fatalf("tier decreased at score %d: %s -> %s", s, prev, cur)
		}
		prev = cur
	}
}

func TestForLanguageMonotonic(t *testing.T) {
	rank := map[CEFRLevel]int{A1: 0, A2: 1, B1: 2, B2: 3, C1: 4, C2: 5}

	prev := A1
	for s := 0; s <= 100; s++ {
		cur := ForLanguage(float64(s))
		if rank[cur] < rank[prev] {
			t.Fatalf("tier decreased at score %d: %s -> %s", s, prev, cur)
		}
		prev = cur
	}
}
