package quests

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func TestConfirmations(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint64
		emoji   string
		want    bool
		handled bool
	}{
		{name: "confirm", userID: 2, emoji: CompleteEmoji, want: true, handled: true},
		{name: "cancel", userID: 2, emoji: CancelEmoji, want: false, handled: true},
		{name: "other user", userID: 3, emoji: CompleteEmoji, want: false, handled: false},
		{name: "other emoji", userID: 2, emoji: "👍", want: false, handled: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfirmations()
			pending := c.Register(message, user)
			result := make(chan bool, 1)
			go func() {
				ok, _ := pending.Wait(context.Background(), 200*time.Millisecond)
				result <- ok
			}()

			if got := c.Resolve(message, snowflake.ID(tt.userID), tt.emoji); got != tt.handled {
				t.Errorf("Resolve() = %v, want %v", got, tt.handled)
			}
			if got := <-result; got != tt.want {
				t.Errorf("Wait() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfirmationsTimeout(t *testing.T) {
	c := NewConfirmations()
	start := time.Now()
	ok, err := c.Await(context.Background(), message, user, 20*time.Millisecond)
	if ok || err != nil {
		t.Errorf("Await() = %v, %v", ok, err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Await returned before the timeout")
	}
	if c.Resolve(message, user, CompleteEmoji) {
		t.Error("a late reaction should not resolve anything")
	}
}

func TestConfirmationsAnswerBeforeWait(t *testing.T) {
	c := NewConfirmations()
	pending := c.Register(message, user)

	// The user answers while the prompt's reactions are still being added.
	if !c.Resolve(message, user, CompleteEmoji) {
		t.Fatal("Resolve() should answer a registered prompt")
	}

	ok, err := pending.Wait(context.Background(), 20*time.Millisecond)
	if !ok || err != nil {
		t.Errorf("Wait() = %v, %v, want true", ok, err)
	}
	if c.Resolve(message, user, CancelEmoji) {
		t.Error("a second reaction should not resolve anything")
	}
}

func TestConfirmationsWaitUnregisters(t *testing.T) {
	c := NewConfirmations()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := c.Register(message, user).Wait(ctx, time.Second)
	if ok || err == nil {
		t.Errorf("Wait() = %v, %v, want a context error", ok, err)
	}
	c.mu.Lock()
	_, still := c.pending[message]
	c.mu.Unlock()
	if still {
		t.Error("prompt still registered after Wait returned")
	}
}
