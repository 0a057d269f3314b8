package convo

import (
	"strings"
	"sync"
	"time"

	"bank-assist/internal/bank"

	"github.com/google/uuid"
)

// Greeting seeds every new conversation.
const Greeting = "Hello,\n\nIf you need any help just shout.\n\nBtw I'm O-AI."

// Message is one chat turn, immutable once appended.
type Message struct {
	ID        uuid.UUID
	Content   string
	IsUser    bool
	Timestamp time.Time
}

// NewUserMessage builds a user turn with a fresh id.
func NewUserMessage(content string) Message {
	return Message{ID: uuid.New(), Content: content, IsUser: true, Timestamp: time.Now()}
}

// Conversation owns the dialogue state of a single chat. All mutation happens
// inside Engine.Handle under the conversation mutex, so concurrent Handle
// calls against the same chat serialize.
type Conversation struct {
	id     string
	remote string

	mu             sync.Mutex
	messages       []Message
	failed         map[uuid.UUID]struct{}
	awaitingChoice bool
	candidates     []bank.ListLine
	draft          string
}

// NewConversation creates a conversation seeded with the bot greeting.
// remote is the gateway address replies are delivered to; empty means
// the caller reads replies back from the message log only.
func NewConversation(id, remote string) *Conversation {
	return &Conversation{
		id:     id,
		remote: remote,
		messages: []Message{{
			ID:        uuid.New(),
			Content:   Greeting,
			IsUser:    false,
			Timestamp: time.Now(),
		}},
		failed: make(map[uuid.UUID]struct{}),
	}
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Messages returns a copy of the message log in insertion order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// HasFailed reports whether the message id is currently marked failed.
func (c *Conversation) HasFailed(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, found := c.failed[id]
	return found
}

// FailedIDs returns the ids currently marked failed.
func (c *Conversation) FailedIDs() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uuid.UUID, 0, len(c.failed))
	for id := range c.failed {
		out = append(out, id)
	}
	return out
}

// AwaitingChoice reports whether the bot is waiting for the user to pick one
// of the previously listed transactions.
func (c *Conversation) AwaitingChoice() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaitingChoice
}

// Candidates returns the transaction list the user is choosing from.
func (c *Conversation) Candidates() []bank.ListLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bank.ListLine, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// Draft returns the staged outgoing text the caller is composing.
func (c *Conversation) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft stages outgoing text; Handle clears it after a non-retry turn.
func (c *Conversation) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Transcript renders messages as a plain-text chat log.
func Transcript(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		sender := "BankChatAI"
		if msg.IsUser {
			sender = "User"
		}
		lines = append(lines, "["+msg.Timestamp.Format("Jan 2, 2006 3:04 PM")+"] "+sender+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
