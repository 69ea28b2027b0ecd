package quests

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

// JumpURL links to the message that announced q.
func JumpURL(q *models.Quest) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", q.GuildID, q.ChannelID, q.MessageID)
}

type titles []*models.Quest

func (t titles) String(i int) string { return strings.ToLower(t[i].Title) }
func (t titles) Len() int            { return len(t) }

// Search ranks quests by how well their title matches query. An empty query
// returns the first limit quests unchanged.
func Search(list []*models.Quest, query string, limit int) []*models.Quest {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list[:min(limit, len(list))]
	}
	matches := fuzzy.FindFrom(query, titles(list))
	out := make([]*models.Quest, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, list[m.Index])
	}
	return out
}
