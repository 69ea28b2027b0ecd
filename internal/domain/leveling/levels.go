package leveling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinLevel = 1
	MaxLevel = 10
)

// thresholds[i] is the inclusive lower bound of level i+1.
var thresholds = [MaxLevel]int{0, 100, 500, 1200, 2200, 3500, 5100, 7000, 9200, 11700}

var levelRolePattern = regexp.MustCompile(`^Level ([1-9]|10)$`)

const levelRolePrefix = "Level "

const (
	ladderStartColor = 0x0099ff
	ladderEndColor   = 0xffd700
)

// ResolveLevel returns the highest level whose threshold does not exceed totalXP.
func ResolveLevel(totalXP int) int {
	level := MinLevel
	for i, threshold := range thresholds {
		if totalXP >= threshold {
			level = i + 1
		}
	}
	return level
}

// Threshold returns the XP needed to reach level. Out of range levels are clamped.
func Threshold(level int) int {
	return thresholds[clamp(level)-1]
}

// NextThreshold returns the threshold of the level after level, or false at the cap.
func NextThreshold(level int) (int, bool) {
	if clamp(level) >= MaxLevel {
		return 0, false
	}
	return thresholds[clamp(level)], true
}

// Progress reports how far totalXP is between the current level and the next, in [0,100].
func Progress(totalXP int) float64 {
	level := ResolveLevel(totalXP)
	next, ok := NextThreshold(level)
	if !ok {
		return 100
	}
	current := Threshold(level)
	span := next - current
	if span <= 0 {
		return 100
	}
	pct := float64(totalXP-current) / float64(span) * 100
	return min(100, max(0, pct))
}

// RoleName is the exact Discord role name used for a level.
func RoleName(level int) string {
	return fmt.Sprintf("Level %d", level)
}

// ParseRoleName matches "Level N" exactly, with N in [1,10].
func ParseRoleName(name string) (int, bool) {
	m := levelRolePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsLevelLike reports whether name carries the "Level " prefix. Such roles
// never carry XP even when they are not part of the ladder.
func IsLevelLike(name string) bool {
	return strings.HasPrefix(name, levelRolePrefix)
}

// RoleColor interpolates the ladder gradient from blue at level 1 to gold at level 10.
func RoleColor(level int) int {
	level = clamp(level)
	return ladderStartColor + (ladderEndColor-ladderStartColor)*(level-1)/(MaxLevel-1)
}

func clamp(level int) int {
	return min(MaxLevel, max(MinLevel, level))
}
