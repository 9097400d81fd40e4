package scoring

import "testing"

func TestHighestBadgeFor(t *testing.T) {
	cases := []struct {
		score int
		name  string
		ok    bool
	}{
		{0, "", false},
		{249, "", false},
		{250, "Active Citizen", true},
		{499, "Active Citizen", true},
		{500, "Community Leader", true},
		{749, "Community Leader", true},
		{750, "Civic Champion", true},
		{10000, "Civic Champion", true},
	}
	for _, c := range cases {
		name, ok := HighestBadgeFor(c.score)
		if ok != c.ok || name != c.name {
			t.Fatalf("score %d: expected (%q, %v), got (%q, %v)", c.score, c.name, c.ok, name, ok)
		}
	}
}

func TestBadgeThresholdsOrderedHighestFirst(t *testing.T) {
	for i := 1; i < len(BadgeThresholds); i++ {
		if BadgeThresholds[i-1].Score <= BadgeThresholds[i].Score {
			t.Fatalf("thresholds must be descending, got %d before %d",
				BadgeThresholds[i-1].Score, BadgeThresholds[i].Score)
		}
	}
}
