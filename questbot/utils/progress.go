package utils

import (
	"fmt"
	"strings"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/questbot/config"
)

// ProgressBar renders the member's progress toward the next level as a fixed
// width bar of filled and empty cells.
func ProgressBar(totalXP int) string {
	level := leveling.ResolveLevel(totalXP)
	next, ok := leveling.NextThreshold(level)
	if !ok {
		return strings.Repeat("█", config.ProgressBarWidth) + " MAX LEVEL REACHED"
	}
	filled := int(leveling.Progress(totalXP) / 100 * config.ProgressBarWidth)
	filled = max(0, min(filled, config.ProgressBarWidth))
	return fmt.Sprintf("%s%s %d/%d XP",
		strings.Repeat("█", filled),
		strings.Repeat("░", config.ProgressBarWidth-filled),
		totalXP, next)
}

// Medal decorates the first three leaderboard places.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("**%d.**", rank)
	}
}
