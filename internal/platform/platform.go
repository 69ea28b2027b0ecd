// Package platform is the narrow view of Discord the XP engine depends on.
package platform

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrNotFound           = errors.New("platform: not found")
	ErrMissingPermissions = errors.New("platform: missing permissions")
)

type Member struct {
	GuildID  snowflake.ID
	UserID   snowflake.ID
	Username string
	Nick     string
	Bot      bool
	RoleIDs  []snowflake.ID
}

// DisplayName prefers the guild nickname.
func (m Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.Username
}

func (m Member) HasRole(roleID snowflake.ID) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

type Role struct {
	ID       snowflake.ID
	GuildID  snowflake.ID
	Name     string
	Position int
	Managed  bool
}

type Guilds interface {
	Member(ctx context.Context, guildID, userID snowflake.ID) (Member, error)
	Roles(ctx context.Context, guildID snowflake.ID) ([]Role, error)
	CreateRole(ctx context.Context, guildID snowflake.ID, name string, color int, reason string) (Role, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error
}

type Messages interface {
	SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error)
	EditMessage(ctx context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate) error
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	TextChannels(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error)
}

type Platform interface {
	Guilds
	Messages
}

// IsPermanent reports errors a retry will not fix.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMissingPermissions)
}
