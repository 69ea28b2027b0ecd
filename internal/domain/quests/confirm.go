package quests

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ConfirmTimeout is how long a destructive command waits for a reaction.
const ConfirmTimeout = 30 * time.Second

type pendingConfirm struct {
	userID snowflake.ID
	answer chan bool
}

// Confirmations pairs confirmation prompts with the reactions that answer them.
type Confirmations struct {
	mu      sync.Mutex
	pending map[snowflake.ID]*pendingConfirm
}

func NewConfirmations() *Confirmations {
	return &Confirmations{pending: make(map[snowflake.ID]*pendingConfirm)}
}

// Prompt is a registered confirmation. Reactions delivered after Register
// are kept until Wait reads them.
type Prompt struct {
	c         *Confirmations
	messageID snowflake.ID
	p         *pendingConfirm
}

// Register starts listening for userID's answer on messageID. Call it before
// the prompt becomes reactable and always follow with Wait.
func (c *Confirmations) Register(messageID, userID snowflake.ID) *Prompt {
	p := &pendingConfirm{userID: userID, answer: make(chan bool, 1)}
	c.mu.Lock()
	c.pending[messageID] = p
	c.mu.Unlock()
	return &Prompt{c: c, messageID: messageID, p: p}
}

// Wait blocks until the user reacts with CompleteEmoji or CancelEmoji, or
// timeout passes. Only a confirming reaction returns true. The prompt is
// unregistered on return.
func (p *Prompt) Wait(ctx context.Context, timeout time.Duration) (bool, error) {
	defer func() {
		p.c.mu.Lock()
		if p.c.pending[p.messageID] == p.p {
			delete(p.c.pending, p.messageID)
		}
		p.c.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ok := <-p.p.answer:
		return ok, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Await registers and waits in one step.
func (c *Confirmations) Await(ctx context.Context, messageID, userID snowflake.ID, timeout time.Duration) (bool, error) {
	return c.Register(messageID, userID).Wait(ctx, timeout)
}

// Resolve delivers a reaction. It reports whether the reaction answered a
// pending prompt; reactions from other users or with other emoji are ignored.
func (c *Confirmations) Resolve(messageID, userID snowflake.ID, emoji string) bool {
	if emoji != CompleteEmoji && emoji != CancelEmoji {
		return false
	}
	c.mu.Lock()
	p, ok := c.pending[messageID]
	if ok && p.userID == userID {
		delete(c.pending, messageID)
	}
	c.mu.Unlock()
	if !ok || p.userID != userID {
		return false
	}
	p.answer <- emoji == CompleteEmoji
	return true
}
