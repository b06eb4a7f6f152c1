package planner

import "testing"

func TestSlotFilledThreshold(t *testing.T) {
	t.Parallel()
	cases := []struct {
		current, target float64
		want            bool
	}{
		{current: 899.9, target: 1000, want: false},
		{current: 900, target: 1000, want: true},
		{current: 1200, target: 1000, want: true},
		{current: 0, target: 0, want: true},
	}
	for _, c := range cases {
		if got := slotFilled(c.current, c.target); got != c.want {
			t.Fatalf("slotFilled(%.1f, %.1f): expected %v, got %v", c.current, c.target, c.want, got)
		}
	}
}
