package leveling

import "testing"

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int
		want    int
	}{
		{name: "zero", totalXP: 0, want: 1},
		{name: "negative clamps to first level", totalXP: -40, want: 1},
		{name: "just below level 2", totalXP: 99, want: 1},
		{name: "exactly level 2", totalXP: 100, want: 2},
		{name: "level 3", totalXP: 500, want: 3},
		{name: "between 4 and 5", totalXP: 2199, want: 4},
		{name: "level 9", totalXP: 9200, want: 9},
		{name: "exactly max", totalXP: 11700, want: 10},
		{name: "far past max", totalXP: 999999, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLevel(tt.totalXP); got != tt.want {
				t.Errorf("ResolveLevel(%d) = %d, want %d", tt.totalXP, got, tt.want)
			}
		})
	}
}

func TestResolveLevelMonotonic(t *testing.T) {
	prev := ResolveLevel(0)
	for xp := 1; xp <= 13000; xp++ {
		got := ResolveLevel(xp)
		if got < prev {
			t.Fatalf("level dropped from %d to %d at %d XP", prev, got, xp)
		}
		prev = got
	}
}

func TestThresholdsMatchResolve(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		if got := ResolveLevel(Threshold(level)); got != level {
			t.Errorf("ResolveLevel(Threshold(%d)) = %d", level, got)
		}
		if level > MinLevel && ResolveLevel(Threshold(level)-1) != level-1 {
			t.Errorf("one XP below level %d should be level %d", level, level-1)
		}
	}
}

func TestNextThreshold(t *testing.T) {
	if next, ok := NextThreshold(1); !ok || next != 100 {
		t.Errorf("NextThreshold(1) = %d, %v", next, ok)
	}
	if _, ok := NextThreshold(MaxLevel); ok {
		t.Error("NextThreshold(max) should report no next level")
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int
		want    float64
	}{
		{name: "start", totalXP: 0, want: 0},
		{name: "half way to level 2", totalXP: 50, want: 50},
		{name: "at level 2", totalXP: 100, want: 0},
		{name: "max level", totalXP: 20000, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.totalXP); got != tt.want {
				t.Errorf("Progress(%d) = %v, want %v", tt.totalXP, got, tt.want)
			}
		})
	}
}

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{name: "level 1", input: "Level 1", want: 1, ok: true},
		{name: "level 10", input: "Level 10", want: 10, ok: true},
		{name: "zero", input: "Level 0"},
		{name: "eleven", input: "Level 11"},
		{name: "lower case", input: "level 3"},
		{name: "suffix", input: "Level 3 Veteran"},
		{name: "leading zero", input: "Level 03"},
		{name: "plain", input: "Moderator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRoleName(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseRoleName(%q) = %d, %v, want %d, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsLevelLike(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Level 3", true},
		{"Level 11", true},
		{"Level Badge", true},
		{"Level 3 Veteran", true},
		{"level 3", false},
		{"Levels", false},
		{"Top Level 2", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsLevelLike(tt.input); got != tt.want {
				t.Errorf("IsLevelLike(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleNameRoundTrip(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		if got, ok := ParseRoleName(RoleName(level)); !ok || got != level {
			t.Errorf("ParseRoleName(RoleName(%d)) = %d, %v", level, got, ok)
		}
	}
}

func TestRoleColor(t *testing.T) {
	if got := RoleColor(1); got != 0x0099ff {
		t.Errorf("RoleColor(1) = %#x", got)
	}
	if got := RoleColor(10); got != 0xffd700 {
		t.Errorf("RoleColor(10) = %#x", got)
	}
}
