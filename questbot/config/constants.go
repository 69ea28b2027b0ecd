package config

import "time"

// Colors
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
	LevelUpColor = 0xFFD700
	QuestColor   = 0x00FF00
)

// Pagination
const (
	LeaderboardPageSize = 10
	QuestsPerPage       = 10
	PaginatorExpiry     = 5 * time.Minute
)

// Announcements
const (
	// AnnouncementLifetime is how long level-up and role XP announcements
	// stay in the channel.
	AnnouncementLifetime     = 15 * time.Second
	QuestCompletionLifetime  = 10 * time.Second
	ProgressBarWidth         = 20
	CommandExecutionTimeout  = 10 * time.Second
	SlowCommandThreshold     = 2 * time.Second
	ShutdownTimeout          = 15 * time.Second
	GuildReadyTimeout        = 30 * time.Second
	MaxAutocompleteChoices   = 25
	LeaderboardDefaultLimit  = 10
	LeaderboardMaxLimit      = 100
	ExportTimeout            = 2 * time.Minute
	DefaultAnnouncementTitle = "Level Up!"
)

// Role names that grant staff access to moderation commands.
var StaffRoleNames = []string{"Staff", "Admin"}
