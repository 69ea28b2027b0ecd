package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

const maxRolesPerAssign = 5

func assignOptions(kind string) []discord.ApplicationCommandOption {
	opts := []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "xp",
			Description: "XP the role is worth",
			Required:    true,
			MinValue:    &[]int{0}[0],
		},
	}
	for i := 1; i <= maxRolesPerAssign; i++ {
		name := "role"
		if i > 1 {
			name = fmt.Sprintf("role%d", i)
		}
		opts = append(opts, discord.ApplicationCommandOptionRole{
			Name:        name,
			Description: fmt.Sprintf("Role to mark as %s, leave all empty to pick roles by name", kind),
		})
	}
	return opts
}

var AssignBadgeXP = discord.SlashCommandCreate{
	Name:        "assignbadgexp",
	Description: "Give roles XP that counts while a member holds them",
	Contexts:    access.GuildOnly,
	Options:     assignOptions("a badge"),
}

var AssignStreakXP = discord.SlashCommandCreate{
	Name:        "assignstreakxp",
	Description: "Give roles XP that is awarded every time a member gains them",
	Contexts:    access.GuildOnly,
	Options:     assignOptions("a streak"),
}

var UnassignRoleXP = discord.SlashCommandCreate{
	Name:        "unassignrolexp",
	Description: "Remove a role's XP assignment",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionRole{Name: "role", Description: "Role to unassign", Required: true},
	},
}

var CheckRoleXP = discord.SlashCommandCreate{
	Name:        "checkrolexp",
	Description: "Show a role's XP assignment",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionRole{Name: "role", Description: "Role to check", Required: true},
	},
}

func AssignBadgeXPHandler(b *questbot.Bot) handler.CommandHandler {
	return assignHandler(b, registry.CategoryBadge)
}

func AssignStreakXPHandler(b *questbot.Bot) handler.CommandHandler {
	return assignHandler(b, registry.CategoryStreak)
}

func assignHandler(b *questbot.Bot, category registry.Category) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageRoles) {
			return utils.EH.CreatePermissionError(e, "assign role XP")
		}
		data := e.SlashCommandInteractionData()
		amount := data.Int("xp")
		if amount < 0 {
			return utils.EH.CreateUserError(e, "XP cannot be negative")
		}
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()
		guildID := *e.GuildID()

		targets := chosenRoles(data)
		if len(targets) == 0 {
			roles, err := b.Platform.Roles(ctx, guildID)
			if err != nil {
				return utils.EH.FollowupError(e, utils.SystemError, "Failed to list the server's roles")
			}
			targets = registry.RolesNamedFor(roles, category)
			if len(targets) == 0 {
				return utils.EH.FollowupError(e, utils.UserError,
					fmt.Sprintf("No role was given and no role name contains \"%s\"", category))
			}
		}

		var assigned, skipped []string
		for _, role := range targets {
			mention := discord.RoleMention(role.ID)
			if leveling.IsLevelLike(role.Name) {
				skipped = append(skipped, fmt.Sprintf("%s is a level role and cannot carry XP", mention))
				continue
			}
			current, created, err := b.Registry.AssignIfAbsent(ctx, guildID, role.ID, amount, category)
			if err != nil {
				return utils.EH.FollowupError(e, utils.SystemError, "Failed to save the assignment")
			}
			if !created {
				skipped = append(skipped, fmt.Sprintf("%s already gives %d XP (%s)", mention, current.XP, current.Category))
				continue
			}
			assigned = append(assigned, mention)
		}

		var sb strings.Builder
		if len(assigned) > 0 {
			fmt.Fprintf(&sb, "✅ %s now give **%d XP** as %s roles\n", strings.Join(assigned, ", "), amount, category)
		}
		if len(skipped) > 0 {
			sb.WriteString("Skipped:\n• " + strings.Join(skipped, "\n• "))
		}
		color := config.SuccessColor
		if len(assigned) == 0 {
			color = config.WarningColor
		}
		_, err := e.CreateFollowupMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{Description: sb.String(), Color: color}},
		})
		return err
	}
}

// chosenRoles collects the role options in order, without duplicates.
func chosenRoles(data discord.SlashCommandInteractionData) []platform.Role {
	var roles []platform.Role
	seen := map[snowflake.ID]bool{}
	for i := 1; i <= maxRolesPerAssign; i++ {
		name := "role"
		if i > 1 {
			name = fmt.Sprintf("role%d", i)
		}
		role, ok := data.OptRole(name)
		if !ok || seen[role.ID] {
			continue
		}
		seen[role.ID] = true
		roles = append(roles, platform.Role{ID: role.ID, GuildID: role.GuildID, Name: role.Name, Position: role.Position, Managed: role.Managed})
	}
	return roles
}

func UnassignRoleXPHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageRoles) {
			return utils.EH.CreatePermissionError(e, "unassign role XP")
		}
		role := e.SlashCommandInteractionData().Role("role")

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		existed, err := b.Registry.Unassign(ctx, *e.GuildID(), role.ID)
		if err != nil {
			return utils.EH.CreateSystemError(e, "Failed to remove the assignment")
		}
		if !existed {
			return utils.EH.CreateNotFoundError(e, "XP assignment for role", role.Name)
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("%s no longer gives XP", role.Mention()))
	}
}

func CheckRoleXPHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageRoles) {
			return utils.EH.CreatePermissionError(e, "check role XP")
		}
		role := e.SlashCommandInteractionData().Role("role")

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		a, ok, err := b.Registry.Get(ctx, *e.GuildID(), role.ID)
		if err != nil {
			return utils.EH.CreateSystemError(e, "Failed to read the assignment")
		}
		class := registry.Classify(role.Name, a, ok)
		var msg string
		switch class.Kind {
		case registry.KindLevel:
			msg = fmt.Sprintf("%s is a level role and never gives XP", role.Mention())
		case registry.KindBadge:
			msg = fmt.Sprintf("%s gives **%d XP** while held (badge)", role.Mention(), class.XP)
		case registry.KindStreak:
			msg = fmt.Sprintf("%s gives **%d XP** every time it is gained (streak)", role.Mention(), class.XP)
		case registry.KindAutoBadge:
			msg = fmt.Sprintf("%s has no assignment but its name contains \"badge\", so it gives **%d XP** while held", role.Mention(), class.XP)
		default:
			msg = fmt.Sprintf("%s has no XP assignment", role.Mention())
		}
		return utils.EH.CreateInfoEmbed(e, msg)
	}
}
