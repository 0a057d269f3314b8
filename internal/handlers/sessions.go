package handlers

import (
	"sync"

	"bank-assist/internal/convo"
)

// sessions is the registry of live conversations, one per chat id.
type sessions struct {
	mu    sync.Mutex
	convs map[string]*convo.Conversation
}

func newSessions() *sessions {
	return &sessions{convs: make(map[string]*convo.Conversation)}
}

// get returns the conversation for id, creating it on first contact.
func (s *sessions) get(id, remote string) *convo.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, found := s.convs[id]; found {
		return conv
	}
	conv := convo.NewConversation(id, remote)
	s.convs[id] = conv
	return conv
}

// peek returns the conversation for id without creating one.
func (s *sessions) peek(id string) (*convo.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, found := s.convs[id]
	return conv, found
}
