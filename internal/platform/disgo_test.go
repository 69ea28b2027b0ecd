package platform

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

func guildChannel(t *testing.T, raw string) discord.GuildChannel {
	t.Helper()
	var u discord.UnmarshalChannel
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatal(err)
	}
	ch, ok := u.Channel.(discord.GuildChannel)
	if !ok {
		t.Fatalf("%T is not a guild channel", u.Channel)
	}
	return ch
}

func TestTextChannelsByPosition(t *testing.T) {
	channels := []discord.GuildChannel{
		guildChannel(t, `{"id":"30","type":0,"guild_id":"1","name":"chat","position":2}`),
		guildChannel(t, `{"id":"20","type":2,"guild_id":"1","name":"voice","position":0}`),
		guildChannel(t, `{"id":"12","type":0,"guild_id":"1","name":"rules","position":1}`),
		guildChannel(t, `{"id":"11","type":0,"guild_id":"1","name":"welcome","position":1}`),
	}

	got := textChannelsByPosition(channels)
	want := []snowflake.ID{11, 12, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("textChannelsByPosition() = %v, want %v", got, want)
	}
}
