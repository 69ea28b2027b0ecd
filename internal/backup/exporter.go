// Package backup writes per-guild JSON snapshots to S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/gateways/database/models"
)

type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Sources struct {
	Ledger interface {
		ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.UserXP, error)
	}
	Streaks interface {
		TotalsByGuild(ctx context.Context, guildID snowflake.ID) (map[snowflake.ID]int, error)
	}
	Settings interface {
		Settings(ctx context.Context, guildID snowflake.ID) (*registry.Settings, error)
	}
	Quests interface {
		ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.Quest, error)
	}
}

type Snapshot struct {
	GuildID    string         `json:"guild_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Settings   SettingsRecord `json:"settings"`
	Members    []MemberRecord `json:"members"`
	Quests     []QuestRecord  `json:"quests"`
}

type SettingsRecord struct {
	QuestPingRoleID string                         `json:"quest_ping_role_id,omitempty"`
	QuestChannelID  string                         `json:"quest_channel_id,omitempty"`
	RoleXP          map[string]registry.Assignment `json:"role_xp_assignments"`
}

type MemberRecord struct {
	UserID   string `json:"user_id"`
	BaseXP   int    `json:"base_xp"`
	StreakXP int    `json:"streak_xp"`
	Level    int    `json:"level"`
}

type QuestRecord struct {
	MessageID   string    `json:"message_id"`
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedBy []string  `json:"completed_by"`
}

type Exporter struct {
	uploader Uploader
	bucket   string
	root     string
	sources  Sources
	now      func() time.Time
}

func NewExporter(uploader Uploader, bucket, root string, sources Sources) *Exporter {
	return &Exporter{
		uploader: uploader,
		bucket:   bucket,
		root:     strings.Trim(root, "/"),
		sources:  sources,
		now:      time.Now,
	}
}

// NewSpacesClient builds an S3 client for a DigitalOcean Spaces region.
func NewSpacesClient(ctx context.Context, key, secret, region string) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load spaces config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Build collects the guild's data without uploading it.
func (e *Exporter) Build(ctx context.Context, guildID snowflake.ID) (*Snapshot, error) {
	users, err := e.sources.Ledger.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	streaks, err := e.sources.Streaks.TotalsByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("sum streaks: %w", err)
	}
	settings, err := e.sources.Settings.Settings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	quests, err := e.sources.Quests.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}

	snap := &Snapshot{
		GuildID:    guildID.String(),
		ExportedAt: e.now().UTC(),
		Settings: SettingsRecord{
			RoleXP: make(map[string]registry.Assignment, len(settings.Assignments)),
		},
		Members: make([]MemberRecord, 0, len(users)),
		Quests:  make([]QuestRecord, 0, len(quests)),
	}
	if settings.QuestPingRoleID != 0 {
		snap.Settings.QuestPingRoleID = settings.QuestPingRoleID.String()
	}
	if settings.QuestChannelID != 0 {
		snap.Settings.QuestChannelID = settings.QuestChannelID.String()
	}
	for roleID, a := range settings.Assignments {
		snap.Settings.RoleXP[roleID.String()] = a
	}

	for _, u := range users {
		id, _ := snowflake.Parse(u.UserID)
		snap.Members = append(snap.Members, MemberRecord{
			UserID:   u.UserID,
			BaseXP:   u.BaseXP,
			StreakXP: streaks[id],
			Level:    u.Level,
		})
	}
	for _, q := range quests {
		rec := QuestRecord{
			MessageID:   q.MessageID,
			ChannelID:   q.ChannelID,
			Title:       q.Title,
			Content:     q.Content,
			CreatedAt:   q.CreatedAt,
			CompletedBy: make([]string, 0, len(q.Completions)),
		}
		for _, c := range q.Completions {
			rec.CompletedBy = append(rec.CompletedBy, c.UserID)
		}
		sort.Strings(rec.CompletedBy)
		snap.Quests = append(snap.Quests, rec)
	}
	return snap, nil
}

// Export uploads a snapshot and returns its object key.
func (e *Exporter) Export(ctx context.Context, guildID snowflake.ID) (string, error) {
	start := time.Now()
	snap, err := e.Build(ctx, guildID)
	if err != nil {
		return "", err
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := path.Join(e.root, guildID.String(), snap.ExportedAt.Format("20060102T150405Z")+".json")
	_, err = e.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	slog.Info("Guild snapshot exported",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID.String()),
		slog.String("key", key),
		slog.Int("bytes", len(body)),
		slog.Duration("took", time.Since(start)))
	return key, nil
}
