package platform

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// Discord adapts a disgo client to Platform. Member lookups go through the
// member cache first and fall back to REST.
type Discord struct {
	client bot.Client
}

func NewDiscord(client bot.Client) *Discord {
	return &Discord{client: client}
}

func (d *Discord) Member(ctx context.Context, guildID, userID snowflake.ID) (Member, error) {
	if m, ok := d.client.Caches().Member(guildID, userID); ok {
		return toMember(guildID, m), nil
	}
	m, err := d.client.Rest().GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return Member{}, classify("get member", err)
	}
	return toMember(guildID, *m), nil
}

func (d *Discord) Roles(ctx context.Context, guildID snowflake.ID) ([]Role, error) {
	roles, err := d.client.Rest().GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return nil, classify("get roles", err)
	}
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRole(guildID, r))
	}
	return out, nil
}

func (d *Discord) CreateRole(ctx context.Context, guildID snowflake.ID, name string, color int, reason string) (Role, error) {
	r, err := d.client.Rest().CreateRole(guildID, discord.RoleCreate{
		Name:  name,
		Color: color,
	}, rest.WithCtx(ctx), rest.WithReason(reason))
	if err != nil {
		return Role{}, classify("create role", err)
	}
	return toRole(guildID, *r), nil
}

func (d *Discord) AddMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error {
	if err := d.client.Rest().AddMemberRole(guildID, userID, roleID, rest.WithCtx(ctx), rest.WithReason(reason)); err != nil {
		return classify("add member role", err)
	}
	return nil
}

func (d *Discord) RemoveMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error {
	if err := d.client.Rest().RemoveMemberRole(guildID, userID, roleID, rest.WithCtx(ctx), rest.WithReason(reason)); err != nil {
		return classify("remove member role", err)
	}
	return nil
}

func (d *Discord) SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error) {
	m, err := d.client.Rest().CreateMessage(channelID, msg, rest.WithCtx(ctx))
	if err != nil {
		return 0, classify("create message", err)
	}
	return m.ID, nil
}

func (d *Discord) EditMessage(ctx context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate) error {
	if _, err := d.client.Rest().UpdateMessage(channelID, messageID, msg, rest.WithCtx(ctx)); err != nil {
		return classify("update message", err)
	}
	return nil
}

func (d *Discord) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	if err := d.client.Rest().DeleteMessage(channelID, messageID, rest.WithCtx(ctx)); err != nil {
		return classify("delete message", err)
	}
	return nil
}

func (d *Discord) AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	if err := d.client.Rest().AddReaction(channelID, messageID, emoji, rest.WithCtx(ctx)); err != nil {
		return classify("add reaction", err)
	}
	return nil
}

// TextChannels lists guild text channels in position order.
func (d *Discord) TextChannels(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	channels, err := d.client.Rest().GetGuildChannels(guildID, rest.WithCtx(ctx))
	if err != nil {
		return nil, classify("get guild channels", err)
	}
	return textChannelsByPosition(channels), nil
}

func textChannelsByPosition(channels []discord.GuildChannel) []snowflake.ID {
	var text []discord.GuildChannel
	for _, ch := range channels {
		if ch.Type() == discord.ChannelTypeGuildText {
			text = append(text, ch)
		}
	}
	slices.SortStableFunc(text, func(a, b discord.GuildChannel) int {
		if c := cmp.Compare(a.Position(), b.Position()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	ids := make([]snowflake.ID, len(text))
	for i, ch := range text {
		ids[i] = ch.ID()
	}
	return ids
}

func classify(op string, err error) error {
	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case http.StatusForbidden:
			slog.Warn("Discord rejected request for missing permissions",
				slog.String("type", "sys"),
				slog.String("operation", op),
				slog.String("hint", "grant the bot Manage Roles and move its role above every Level role"))
			return fmt.Errorf("%s: %w", op, ErrMissingPermissions)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toMember(guildID snowflake.ID, m discord.Member) Member {
	out := Member{
		GuildID:  guildID,
		UserID:   m.User.ID,
		Username: m.User.Username,
		Bot:      m.User.Bot,
		RoleIDs:  append([]snowflake.ID(nil), m.RoleIDs...),
	}
	if m.Nick != nil {
		out.Nick = *m.Nick
	}
	return out
}

func toRole(guildID snowflake.ID, r discord.Role) Role {
	return Role{
		ID:       r.ID,
		GuildID:  guildID,
		Name:     r.Name,
		Position: r.Position,
		Managed:  r.Managed,
	}
}

// MemberFromEvent converts a gateway member without a REST round trip.
func MemberFromEvent(guildID snowflake.ID, m discord.Member) Member {
	return toMember(guildID, m)
}

// RoleFromEvent converts a gateway role.
func RoleFromEvent(guildID snowflake.ID, r discord.Role) Role {
	return toRole(guildID, r)
}
